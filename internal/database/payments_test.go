// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/renterra/renterra/internal/models"
)

func createTestOrder(t *testing.T, db *DB, bookingID string, amount float64) *models.PaymentOrder {
	t.Helper()
	order := &models.PaymentOrder{
		BookingID:      bookingID,
		GatewayOrderID: fmt.Sprintf("order_%s", time.Now().Format("150405.000000000")),
		Amount:         amount,
		Currency:       "INR",
		Status:         models.OrderCreated,
	}
	if err := db.CreatePaymentOrder(context.Background(), order); err != nil {
		t.Fatalf("CreatePaymentOrder failed: %v", err)
	}
	return order
}

func TestMarkOrderPaidFlipsBookingAndNotifies(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, models.RoleOwner)
	customer := createTestUser(t, db, models.RoleCustomer)
	car := createTestCar(t, db, owner.ID)
	b := createTestBooking(t, db, car.ID, customer.ID, owner.ID, models.BookingConfirmed)
	order := createTestOrder(t, db, b.ID, b.TotalPrice)

	err := db.MarkOrderPaid(ctx, order.ID, "pay_abc123", "sig", &models.Notification{
		RecipientID: customer.ID,
		Type:        models.NotifyPaymentReceived,
		Title:       "Payment received",
		Message:     "Your payment was captured",
		BookingID:   b.ID,
	})
	if err != nil {
		t.Fatalf("MarkOrderPaid failed: %v", err)
	}

	got, err := db.GetPaymentOrderByGatewayID(ctx, order.GatewayOrderID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.OrderPaid || got.GatewayPaymentID != "pay_abc123" {
		t.Errorf("order = %+v, want paid with payment id", got)
	}

	booking, err := db.GetBooking(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if booking.PaymentStatus != models.PaymentCompleted {
		t.Errorf("booking payment_status = %q, want completed", booking.PaymentStatus)
	}

	count, err := db.CountUnread(ctx, customer.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("customer unread = %d, want 1 receipt", count)
	}
}

func TestMarkOrderPaidRejectsDoubleCapture(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, models.RoleOwner)
	customer := createTestUser(t, db, models.RoleCustomer)
	car := createTestCar(t, db, owner.ID)
	b := createTestBooking(t, db, car.ID, customer.ID, owner.ID, models.BookingConfirmed)
	order := createTestOrder(t, db, b.ID, b.TotalPrice)

	if err := db.MarkOrderPaid(ctx, order.ID, "pay_first", "sig", nil); err != nil {
		t.Fatal(err)
	}

	err := db.MarkOrderPaid(ctx, order.ID, "pay_second", "sig", nil)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("double capture: got %v, want ErrOrderNotFound", err)
	}

	got, _ := db.GetPaymentOrderByGatewayID(ctx, order.GatewayOrderID)
	if got.GatewayPaymentID != "pay_first" {
		t.Errorf("payment id = %q, want original capture preserved", got.GatewayPaymentID)
	}
}

func TestMarkOrderFailed(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, models.RoleOwner)
	customer := createTestUser(t, db, models.RoleCustomer)
	car := createTestCar(t, db, owner.ID)
	b := createTestBooking(t, db, car.ID, customer.ID, owner.ID, models.BookingConfirmed)
	order := createTestOrder(t, db, b.ID, b.TotalPrice)

	if err := db.MarkOrderFailed(ctx, order.ID); err != nil {
		t.Fatal(err)
	}

	got, _ := db.GetPaymentOrderByGatewayID(ctx, order.GatewayOrderID)
	if got.Status != models.OrderFailed {
		t.Errorf("order status = %q, want failed", got.Status)
	}
	booking, _ := db.GetBooking(ctx, b.ID)
	if booking.PaymentStatus != models.PaymentFailed {
		t.Errorf("booking payment_status = %q, want failed", booking.PaymentStatus)
	}
}

func TestListOrdersByBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, models.RoleOwner)
	customer := createTestUser(t, db, models.RoleCustomer)
	car := createTestCar(t, db, owner.ID)
	b := createTestBooking(t, db, car.ID, customer.ID, owner.ID, models.BookingConfirmed)

	first := createTestOrder(t, db, b.ID, b.TotalPrice)
	if err := db.MarkOrderFailed(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	createTestOrder(t, db, b.ID, b.TotalPrice)

	orders, err := db.ListOrdersByBooking(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 2 {
		t.Fatalf("orders = %d, want 2", len(orders))
	}
}
