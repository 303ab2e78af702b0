// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package payments

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/renterra/renterra/internal/apperrors"
	"github.com/renterra/renterra/internal/config"
	"github.com/renterra/renterra/internal/database"
	"github.com/renterra/renterra/internal/logging"
	"github.com/renterra/renterra/internal/metrics"
	"github.com/renterra/renterra/internal/models"
)

// Publisher pushes committed notifications to connected clients.
type Publisher interface {
	Publish(n *models.Notification)
}

// Service handles payment order creation and capture verification.
type Service struct {
	db        *database.DB
	gateway   Gateway
	keySecret string
	currency  string
	pub       Publisher
}

// NewService wires the payment service. pub may be nil.
func NewService(db *database.DB, gateway Gateway, cfg *config.GatewayConfig, pub Publisher) *Service {
	return &Service{
		db:        db,
		gateway:   gateway,
		keySecret: cfg.KeySecret,
		currency:  cfg.Currency,
		pub:       pub,
	}
}

// CreateOrder creates a gateway order for a booking's total price. Only
// the booking's customer may pay, only once the owner has confirmed, and
// not after a capture already completed. A failed earlier attempt does
// not block a new order.
func (s *Service) CreateOrder(ctx context.Context, customerID, bookingID string) (*models.PaymentOrder, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, apperrors.Forbiddenf("booking %s is not yours", bookingID)
	}
	if booking.Status != models.BookingConfirmed && booking.Status != models.BookingCompleted {
		return nil, apperrors.Statef("booking %s is %s, payment needs a confirmed booking", bookingID, booking.Status)
	}
	if booking.PaymentStatus == models.PaymentCompleted {
		return nil, apperrors.Statef("booking %s is already paid", bookingID)
	}

	gwOrder, err := s.gateway.CreateOrder(ctx, toMinorUnit(booking.TotalPrice), s.currency, booking.ID)
	if err != nil {
		logging.Error().Err(err).Str("booking_id", bookingID).Msg("gateway order creation failed")
		return nil, apperrors.Upstreamf("payment gateway unavailable")
	}

	order := &models.PaymentOrder{
		BookingID:      booking.ID,
		GatewayOrderID: gwOrder.ID,
		Amount:         booking.TotalPrice,
		Currency:       s.currency,
		Status:         models.OrderCreated,
	}
	if err := s.db.CreatePaymentOrder(ctx, order); err != nil {
		return nil, err
	}

	metrics.PaymentOrdersCreated.Inc()
	logging.Info().
		Str("order_id", order.ID).
		Str("gateway_order_id", gwOrder.ID).
		Str("booking_id", booking.ID).
		Float64("amount", order.Amount).
		Msg("payment order created")
	return order, nil
}

// VerifyPayment handles the capture callback. A valid signature marks
// the order paid and the booking's payment completed, and files the
// customer's receipt notification in the same transaction; an invalid
// one marks both failed. Re-verifying a settled order is rejected.
func (s *Service) VerifyPayment(ctx context.Context, customerID, gatewayOrderID, gatewayPaymentID, signature string) (*models.PaymentOrder, error) {
	order, err := s.db.GetPaymentOrderByGatewayID(ctx, gatewayOrderID)
	if errors.Is(err, database.ErrOrderNotFound) {
		return nil, apperrors.NotFoundf("order %s not found", gatewayOrderID)
	}
	if err != nil {
		return nil, err
	}

	booking, err := s.getBooking(ctx, order.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, apperrors.Forbiddenf("order %s is not yours", gatewayOrderID)
	}
	if order.Status != models.OrderCreated {
		return nil, apperrors.Statef("order %s is already %s", gatewayOrderID, order.Status)
	}

	if !VerifySignature(gatewayOrderID, gatewayPaymentID, signature, s.keySecret) {
		metrics.PaymentVerifications.WithLabelValues("invalid").Inc()
		logging.Warn().
			Str("order_id", order.ID).
			Str("gateway_order_id", gatewayOrderID).
			Msg("payment signature mismatch")
		if err := s.db.MarkOrderFailed(ctx, order.ID); err != nil {
			return nil, err
		}
		return nil, apperrors.Validationf("payment signature verification failed")
	}

	notif := &models.Notification{
		RecipientID: booking.CustomerID,
		Type:        models.NotifyPaymentReceived,
		Title:       "Payment received",
		Message:     fmt.Sprintf("Payment of %.2f %s for %s received", order.Amount, order.Currency, booking.CarName),
		BookingID:   booking.ID,
	}
	if err := s.db.MarkOrderPaid(ctx, order.ID, gatewayPaymentID, signature, notif); err != nil {
		if errors.Is(err, database.ErrOrderNotFound) {
			return nil, apperrors.Statef("order %s was captured concurrently", gatewayOrderID)
		}
		return nil, err
	}

	metrics.PaymentVerifications.WithLabelValues("valid").Inc()
	if s.pub != nil {
		s.pub.Publish(notif)
	}

	order.Status = models.OrderPaid
	order.GatewayPaymentID = gatewayPaymentID
	order.Signature = signature
	return order, nil
}

// ListOrders returns a booking's payment attempts for its customer,
// its owner, or an admin.
func (s *Service) ListOrders(ctx context.Context, callerID, callerRole, bookingID string) ([]*models.PaymentOrder, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if callerRole != models.RoleAdmin && booking.CustomerID != callerID && booking.OwnerID != callerID {
		return nil, apperrors.Forbiddenf("booking %s is not yours", bookingID)
	}
	return s.db.ListOrdersByBooking(ctx, bookingID)
}

func (s *Service) getBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.db.GetBooking(ctx, id)
	if errors.Is(err, database.ErrBookingNotFound) {
		return nil, apperrors.NotFoundf("booking %s not found", id)
	}
	return booking, err
}

// toMinorUnit converts a price to the currency's minor unit the gateway
// bills in (rupees to paise).
func toMinorUnit(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
