// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package payments

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/renterra/renterra/internal/apperrors"
	"github.com/renterra/renterra/internal/config"
	"github.com/renterra/renterra/internal/database"
	"github.com/renterra/renterra/internal/models"
)

const testSecret = "gw_secret_test"

// stubGateway answers order creation without HTTP.
type stubGateway struct {
	fail   bool
	orders int
}

func (g *stubGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*GatewayOrder, error) {
	if g.fail {
		return nil, errors.New("gateway down")
	}
	g.orders++
	return &GatewayOrder{
		ID:       fmt.Sprintf("order_gw_%d", g.orders),
		Amount:   amountMinor,
		Currency: currency,
		Status:   "created",
		Receipt:  receipt,
	}, nil
}

type fixture struct {
	svc      *Service
	db       *database.DB
	gw       *stubGateway
	owner    *models.User
	customer *models.User
	booking  *models.Booking
}

func createUser(t *testing.T, db *database.DB, role string) *models.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	u := &models.User{
		Name:         role,
		Email:        fmt.Sprintf("%s-%s@example.com", role, time.Now().Format("150405.000000000")),
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := db.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create %s: %v", role, err)
	}
	return u
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB"})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})

	owner := createUser(t, db, models.RoleOwner)
	customer := createUser(t, db, models.RoleCustomer)

	car := &models.Car{
		OwnerID: owner.ID, Name: "Swift", Type: "hatchback", PricePerDay: 1500,
		Location: "Delhi", Seats: 5, Transmission: "manual", FuelType: "petrol",
		Available: true,
	}
	if err := db.CreateCar(ctx, car); err != nil {
		t.Fatal(err)
	}

	start := time.Now().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	b := &models.Booking{
		CarID: car.ID, CustomerID: customer.ID, OwnerID: owner.ID,
		StartDate: start, EndDate: start.AddDate(0, 0, 4),
		Status: models.BookingConfirmed, PaymentMethod: "card",
		PaymentStatus: models.PaymentPending, TotalPrice: 6000,
	}
	if err := db.CreateBooking(ctx, b, nil); err != nil {
		t.Fatal(err)
	}

	gw := &stubGateway{}
	cfg := &config.GatewayConfig{KeySecret: testSecret, Currency: "INR"}
	return &fixture{
		svc: NewService(db, gw, cfg, nil), db: db, gw: gw,
		owner: owner, customer: customer, booking: b,
	}
}

func TestCreateOrderForConfirmedBooking(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.customer.ID, f.booking.ID)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Amount != 6000 || order.Currency != "INR" || order.Status != models.OrderCreated {
		t.Errorf("order = %+v", order)
	}
	if order.GatewayOrderID != "order_gw_1" {
		t.Errorf("gateway order id = %q", order.GatewayOrderID)
	}
}

func TestCreateOrderGuards(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CreateOrder(ctx, f.owner.ID, f.booking.ID); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("non-customer created order: %v", err)
	}
	if _, err := f.svc.CreateOrder(ctx, f.customer.ID, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("missing booking: %v", err)
	}

	// Only confirmed or completed bookings can be paid.
	if err := f.db.TransitionBookingStatus(ctx, f.booking.ID, models.BookingConfirmed, models.BookingCancelled, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.CreateOrder(ctx, f.customer.ID, f.booking.ID); !errors.Is(err, apperrors.ErrState) {
		t.Errorf("order on cancelled booking: %v", err)
	}
}

func TestCreateOrderGatewayOutage(t *testing.T) {
	f := setupFixture(t)
	f.gw.fail = true

	_, err := f.svc.CreateOrder(context.Background(), f.customer.ID, f.booking.ID)
	if !errors.Is(err, apperrors.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	// No order row should survive a failed gateway call.
	orders, listErr := f.db.ListOrdersByBooking(context.Background(), f.booking.ID)
	if listErr != nil || len(orders) != 0 {
		t.Errorf("orders = %d err = %v, want none", len(orders), listErr)
	}
}

func TestVerifyPaymentHappyPath(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.customer.ID, f.booking.ID)
	if err != nil {
		t.Fatal(err)
	}

	sig := SignCapture(order.GatewayOrderID, "pay_1", testSecret)
	paid, err := f.svc.VerifyPayment(ctx, f.customer.ID, order.GatewayOrderID, "pay_1", sig)
	if err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	if paid.Status != models.OrderPaid || paid.GatewayPaymentID != "pay_1" {
		t.Errorf("order after capture = %+v", paid)
	}

	booking, err := f.db.GetBooking(ctx, f.booking.ID)
	if err != nil {
		t.Fatal(err)
	}
	if booking.PaymentStatus != models.PaymentCompleted {
		t.Errorf("payment_status = %s, want completed", booking.PaymentStatus)
	}

	// Receipt notification for the customer.
	if unread, _ := f.db.CountUnread(ctx, f.customer.ID); unread != 1 {
		t.Errorf("customer unread = %d, want 1", unread)
	}

	// A second capture of the same order is rejected.
	if _, err := f.svc.VerifyPayment(ctx, f.customer.ID, order.GatewayOrderID, "pay_2",
		SignCapture(order.GatewayOrderID, "pay_2", testSecret)); !errors.Is(err, apperrors.ErrState) {
		t.Errorf("double capture: %v", err)
	}
}

func TestVerifyPaymentBadSignature(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.customer.ID, f.booking.ID)
	if err != nil {
		t.Fatal(err)
	}

	_, err = f.svc.VerifyPayment(ctx, f.customer.ID, order.GatewayOrderID, "pay_1", "forged")
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	booking, _ := f.db.GetBooking(ctx, f.booking.ID)
	if booking.PaymentStatus != models.PaymentFailed {
		t.Errorf("payment_status = %s, want failed", booking.PaymentStatus)
	}

	// A failed attempt does not block a fresh order.
	if _, err := f.svc.CreateOrder(ctx, f.customer.ID, f.booking.ID); err != nil {
		t.Errorf("new order after failure: %v", err)
	}
}

func TestVerifyPaymentScoping(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.customer.ID, f.booking.ID)
	if err != nil {
		t.Fatal(err)
	}
	sig := SignCapture(order.GatewayOrderID, "pay_1", testSecret)

	if _, err := f.svc.VerifyPayment(ctx, f.owner.ID, order.GatewayOrderID, "pay_1", sig); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("non-customer verified payment: %v", err)
	}
	if _, err := f.svc.VerifyPayment(ctx, f.customer.ID, "order_gw_missing", "pay_1", sig); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("missing order: %v", err)
	}
}

func TestListOrders(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CreateOrder(ctx, f.customer.ID, f.booking.ID); err != nil {
		t.Fatal(err)
	}

	for _, caller := range []struct {
		id   string
		role string
	}{
		{f.customer.ID, models.RoleCustomer},
		{f.owner.ID, models.RoleOwner},
	} {
		orders, err := f.svc.ListOrders(ctx, caller.id, caller.role, f.booking.ID)
		if err != nil || len(orders) != 1 {
			t.Errorf("role %s: orders = %d err = %v", caller.role, len(orders), err)
		}
	}

	stranger := createUser(t, f.db, models.RoleCustomer)
	if _, err := f.svc.ListOrders(ctx, stranger.ID, models.RoleCustomer, f.booking.ID); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("stranger listed orders: %v", err)
	}
}
