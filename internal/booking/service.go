// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/renterra/renterra/internal/apperrors"
	"github.com/renterra/renterra/internal/database"
	"github.com/renterra/renterra/internal/logging"
	"github.com/renterra/renterra/internal/metrics"
	"github.com/renterra/renterra/internal/models"
)

// Publisher pushes committed notifications onto the event bus so connected
// clients see them in real time. Publishing is best-effort; the row is
// already durable when Publish is called.
type Publisher interface {
	Publish(n *models.Notification)
}

// Service coordinates the booking lifecycle: validation, the pure
// transition function, the transactional store, and post-commit push.
type Service struct {
	db  *database.DB
	pub Publisher
}

// NewService wires the booking service.
func NewService(db *database.DB, pub Publisher) *Service {
	return &Service{db: db, pub: pub}
}

// RequestInput carries a customer's booking request.
type RequestInput struct {
	CarID         string    `json:"car_id" validate:"required,uuid4"`
	StartDate     time.Time `json:"start_date" validate:"required,futuredate"`
	EndDate       time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	PaymentMethod string    `json:"payment_method" validate:"required,oneof=card upi netbanking cash"`
}

// Request creates a pending booking for the customer. The price is locked
// at request time: price_per_day times the day count, partial days rounded
// up.
func (s *Service) Request(ctx context.Context, customerID string, in *RequestInput) (*models.Booking, error) {
	if in.StartDate.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, apperrors.Validationf("start_date must not be in the past")
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, apperrors.Validationf("end_date must be after start_date")
	}

	car, err := s.db.GetCar(ctx, in.CarID)
	if err != nil {
		if errors.Is(err, database.ErrCarNotFound) {
			return nil, apperrors.NotFoundf("car %s not found", in.CarID)
		}
		return nil, err
	}

	if !car.Approved || !car.Available {
		return nil, apperrors.Validationf("car %s is not available for booking", car.ID)
	}
	if car.OwnerID == customerID {
		return nil, apperrors.Validationf("owners cannot book their own cars")
	}

	overlap, err := s.db.HasOverlappingConfirmedBooking(ctx, car.ID, in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, apperrors.Validationf("car %s is already booked for part of this period", car.ID)
	}

	b := &models.Booking{
		CarID:         car.ID,
		CustomerID:    customerID,
		OwnerID:       car.OwnerID,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		Status:        models.BookingPending,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: models.PaymentPending,
	}
	b.TotalPrice = car.PricePerDay * float64(b.Days())

	notif := &models.Notification{
		RecipientID: car.OwnerID,
		Type:        models.NotifyBookingRequested,
		Title:       "New booking request",
		Message:     fmt.Sprintf("%s has been requested from %s to %s", car.Name, in.StartDate.Format("02 Jan 2006"), in.EndDate.Format("02 Jan 2006")),
		CarID:       car.ID,
	}

	if err := s.db.CreateBooking(ctx, b, notif); err != nil {
		return nil, err
	}

	metrics.BookingsActive.Inc()
	s.publish(notif)
	logging.Info().Str("booking_id", b.ID).Str("car_id", car.ID).Msg("Booking requested")
	return b, nil
}

// Respond lets the car's owner approve or reject a pending booking.
func (s *Service) Respond(ctx context.Context, ownerID, bookingID string, approve bool) (*models.Booking, error) {
	event := EventApprove
	if !approve {
		event = EventReject
	}
	return s.applyOwnerEvent(ctx, ownerID, bookingID, event)
}

// Complete marks a confirmed booking completed.
func (s *Service) Complete(ctx context.Context, ownerID, bookingID string) (*models.Booking, error) {
	return s.applyOwnerEvent(ctx, ownerID, bookingID, EventComplete)
}

func (s *Service) applyOwnerEvent(ctx context.Context, ownerID, bookingID string, event Event) (*models.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != ownerID {
		metrics.BookingTransitionRejections.WithLabelValues("wrong_actor").Inc()
		return nil, apperrors.Forbiddenf("booking %s does not belong to one of your cars", bookingID)
	}

	next, err := Transition(b.Status, event, ActorOwner)
	if err != nil {
		metrics.BookingTransitionRejections.WithLabelValues(rejectionReason(err)).Inc()
		return nil, err
	}

	notif := transitionNotification(b, next)
	if err := s.db.TransitionBookingStatus(ctx, b.ID, b.Status, next, []*models.Notification{notif}); err != nil {
		if errors.Is(err, database.ErrBookingConflict) {
			metrics.BookingTransitionRejections.WithLabelValues("invalid_edge").Inc()
			return nil, apperrors.Statef("booking %s changed concurrently", b.ID)
		}
		return nil, err
	}

	metrics.RecordBookingTransition(b.Status, next)
	if isTerminalStatus(next) {
		metrics.BookingsActive.Dec()
	}
	s.publish(notif)

	b.Status = next
	return b, nil
}

// Cancel moves a non-terminal booking to cancelled. Permitted for the
// booking's customer and for the car's owner; the counter-party gets the
// notification.
func (s *Service) Cancel(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var actor Actor
	var recipientID string
	switch actorID {
	case b.CustomerID:
		actor = ActorCustomer
		recipientID = b.OwnerID
	case b.OwnerID:
		actor = ActorOwner
		recipientID = b.CustomerID
	default:
		metrics.BookingTransitionRejections.WithLabelValues("wrong_actor").Inc()
		return nil, apperrors.Forbiddenf("booking %s is not yours to cancel", bookingID)
	}

	next, err := Transition(b.Status, EventCancel, actor)
	if err != nil {
		metrics.BookingTransitionRejections.WithLabelValues(rejectionReason(err)).Inc()
		return nil, err
	}

	notif := &models.Notification{
		RecipientID: recipientID,
		Type:        models.NotifyBookingCancelled,
		Title:       "Booking cancelled",
		Message:     fmt.Sprintf("Booking for %s to %s was cancelled", b.StartDate.Format("02 Jan 2006"), b.EndDate.Format("02 Jan 2006")),
		BookingID:   b.ID,
		CarID:       b.CarID,
	}
	if err := s.db.TransitionBookingStatus(ctx, b.ID, b.Status, next, []*models.Notification{notif}); err != nil {
		if errors.Is(err, database.ErrBookingConflict) {
			return nil, apperrors.Statef("booking %s changed concurrently", b.ID)
		}
		return nil, err
	}

	metrics.RecordBookingTransition(b.Status, next)
	metrics.BookingsActive.Dec()
	s.publish(notif)

	b.Status = next
	return b, nil
}

// RequestExtension files an extension request as a pending notification to
// the owner. The booking row is untouched until the owner approves.
func (s *Service) RequestExtension(ctx context.Context, customerID, bookingID string, extraDays int) (*models.Notification, error) {
	if extraDays < models.MinExtensionDays || extraDays > models.MaxExtensionDays {
		return nil, apperrors.Validationf("extra_days must be between %d and %d, got %d",
			models.MinExtensionDays, models.MaxExtensionDays, extraDays)
	}

	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, apperrors.Forbiddenf("booking %s is not yours", bookingID)
	}
	if b.Status != models.BookingConfirmed {
		return nil, apperrors.Statef("extensions require a confirmed booking, status is %q", b.Status)
	}

	newEnd := b.EndDate.AddDate(0, 0, extraDays)
	notif := &models.Notification{
		RecipientID:     b.OwnerID,
		Type:            models.NotifyExtensionRequest,
		Title:           "Extension requested",
		Message:         fmt.Sprintf("Customer requests %d more day(s), until %s", extraDays, newEnd.Format("02 Jan 2006")),
		BookingID:       b.ID,
		CarID:           b.CarID,
		ExtraDays:       extraDays,
		NewEndDate:      &newEnd,
		ExtensionStatus: models.ExtensionPending,
	}
	if err := s.db.CreateNotification(ctx, notif); err != nil {
		return nil, err
	}

	metrics.ExtensionRequests.WithLabelValues("requested").Inc()
	s.publish(notif)
	return notif, nil
}

// RespondToExtension approves or rejects a pending extension request. On
// approval the booking's end date moves and the price grows by the
// booking's own per-day rate, not the car's current price.
func (s *Service) RespondToExtension(ctx context.Context, ownerID, notificationID string, approve bool) error {
	notif, err := s.db.GetNotification(ctx, notificationID)
	if err != nil {
		if errors.Is(err, database.ErrNotificationNotFound) {
			return apperrors.NotFoundf("extension request %s not found", notificationID)
		}
		return err
	}
	if notif.Type != models.NotifyExtensionRequest {
		return apperrors.Validationf("notification %s is not an extension request", notificationID)
	}
	if notif.RecipientID != ownerID {
		return apperrors.Forbiddenf("extension request %s is not addressed to you", notificationID)
	}
	if notif.ExtensionStatus != models.ExtensionPending {
		return apperrors.Statef("extension request %s is already %s", notificationID, notif.ExtensionStatus)
	}

	b, err := s.getBooking(ctx, notif.BookingID)
	if err != nil {
		return err
	}

	if !approve {
		customerNotif := &models.Notification{
			RecipientID: b.CustomerID,
			Type:        models.NotifyExtensionRejected,
			Title:       "Extension rejected",
			Message:     fmt.Sprintf("Your request for %d extra day(s) was declined", notif.ExtraDays),
			BookingID:   b.ID,
			CarID:       b.CarID,
		}
		if err := s.db.RejectBookingExtension(ctx, notif.ID, customerNotif); err != nil {
			if errors.Is(err, database.ErrNotificationNotFound) {
				return apperrors.Statef("extension request %s was answered concurrently", notificationID)
			}
			return err
		}
		metrics.ExtensionRequests.WithLabelValues("rejected").Inc()
		s.publish(customerNotif)
		return nil
	}

	newEnd := b.EndDate.AddDate(0, 0, notif.ExtraDays)
	newTotal := b.TotalPrice + b.PerDayRate()*float64(notif.ExtraDays)
	customerNotif := &models.Notification{
		RecipientID: b.CustomerID,
		Type:        models.NotifyExtensionApproved,
		Title:       "Extension approved",
		Message:     fmt.Sprintf("Your booking now runs until %s", newEnd.Format("02 Jan 2006")),
		BookingID:   b.ID,
		CarID:       b.CarID,
	}
	if err := s.db.ApplyBookingExtension(ctx, b.ID, newEnd, newTotal, notif.ID, customerNotif); err != nil {
		switch {
		case errors.Is(err, database.ErrBookingConflict):
			return apperrors.Statef("booking %s is no longer confirmed", b.ID)
		case errors.Is(err, database.ErrNotificationNotFound):
			return apperrors.Statef("extension request %s was answered concurrently", notificationID)
		}
		return err
	}

	metrics.ExtensionRequests.WithLabelValues("approved").Inc()
	s.publish(customerNotif)
	return nil
}

// Get returns a booking, visible to its customer, its owner, and admins.
func (s *Service) Get(ctx context.Context, callerID, callerRole, bookingID string) (*models.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if callerRole != models.RoleAdmin && callerID != b.CustomerID && callerID != b.OwnerID {
		return nil, apperrors.Forbiddenf("booking %s is not visible to you", bookingID)
	}
	return b, nil
}

// List returns bookings scoped to the caller: customers see their own,
// owners see bookings on their cars, admins see everything.
func (s *Service) List(ctx context.Context, callerID, callerRole string, filter *models.BookingFilter) ([]*models.Booking, int, error) {
	if filter == nil {
		filter = &models.BookingFilter{}
	}
	switch callerRole {
	case models.RoleCustomer:
		filter.CustomerID = callerID
		filter.OwnerID = ""
	case models.RoleOwner:
		filter.OwnerID = callerID
		filter.CustomerID = ""
	case models.RoleAdmin:
		// unscoped
	default:
		return nil, 0, apperrors.Forbiddenf("unknown role %q", callerRole)
	}
	return s.db.ListBookings(ctx, filter)
}

func (s *Service) getBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.db.GetBooking(ctx, id)
	if errors.Is(err, database.ErrBookingNotFound) {
		return nil, apperrors.NotFoundf("booking %s not found", id)
	}
	return b, err
}

func (s *Service) publish(n *models.Notification) {
	if s.pub != nil {
		s.pub.Publish(n)
	}
}

func transitionNotification(b *models.Booking, next string) *models.Notification {
	n := &models.Notification{
		RecipientID: b.CustomerID,
		BookingID:   b.ID,
		CarID:       b.CarID,
	}
	switch next {
	case models.BookingConfirmed:
		n.Type = models.NotifyBookingConfirmed
		n.Title = "Booking confirmed"
		n.Message = fmt.Sprintf("Your booking from %s to %s is confirmed", b.StartDate.Format("02 Jan 2006"), b.EndDate.Format("02 Jan 2006"))
	case models.BookingRejected:
		n.Type = models.NotifyBookingRejected
		n.Title = "Booking rejected"
		n.Message = "The owner declined your booking request"
	case models.BookingCompleted:
		n.Type = models.NotifyBookingCompleted
		n.Title = "Booking completed"
		n.Message = "Your rental is complete. Thanks for riding with us"
	}
	return n
}

func rejectionReason(err error) string {
	if errors.Is(err, apperrors.ErrForbidden) {
		return "wrong_actor"
	}
	return "invalid_edge"
}

func isTerminalStatus(status string) bool {
	return status == models.BookingCompleted || status == models.BookingCancelled || status == models.BookingRejected
}
