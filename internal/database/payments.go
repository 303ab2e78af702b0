// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/renterra/renterra/internal/models"
)

// Payment order errors
var ErrOrderNotFound = errors.New("payment order not found")

const orderColumns = `id, booking_id, gateway_order_id, amount, currency,
	status, gateway_payment_id, signature, created_at, updated_at`

// CreatePaymentOrder records a gateway order created for a booking.
func (db *DB) CreatePaymentOrder(ctx context.Context, order *models.PaymentOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	order.UpdatedAt = order.CreatedAt

	query := `INSERT INTO payment_orders (` + orderColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.conn.ExecContext(ctx, query,
		order.ID, order.BookingID, order.GatewayOrderID, order.Amount,
		order.Currency, order.Status, order.GatewayPaymentID,
		order.Signature, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment order: %w", err)
	}
	return nil
}

// GetPaymentOrderByGatewayID looks up an order by the gateway's order ID,
// as capture callbacks identify orders that way.
func (db *DB) GetPaymentOrderByGatewayID(ctx context.Context, gatewayOrderID string) (*models.PaymentOrder, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM payment_orders WHERE gateway_order_id = ?`,
		gatewayOrderID)
	return scanPaymentOrder(row.Scan)
}

// MarkOrderPaid records a verified capture and flips the booking's
// payment_status to completed in the same transaction, plus the customer's
// receipt notification.
func (db *DB) MarkOrderPaid(ctx context.Context, orderID, gatewayPaymentID, signature string, notif *models.Notification) error {
	now := time.Now().UTC()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE payment_orders
			SET status = ?, gateway_payment_id = ?, signature = ?, updated_at = ?
			WHERE id = ? AND status = ?`,
			models.OrderPaid, gatewayPaymentID, signature, now, orderID, models.OrderCreated)
		if err != nil {
			return fmt.Errorf("failed to mark order paid: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if n == 0 {
			return ErrOrderNotFound
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE bookings SET payment_status = ?, updated_at = ?
			WHERE id = (SELECT booking_id FROM payment_orders WHERE id = ?)`,
			models.PaymentCompleted, now, orderID)
		if err != nil {
			return fmt.Errorf("failed to update booking payment status: %w", err)
		}

		if notif != nil {
			return insertNotificationTx(ctx, tx, notif)
		}
		return nil
	})
}

// MarkOrderFailed records a failed capture and flips the booking's
// payment_status to failed.
func (db *DB) MarkOrderFailed(ctx context.Context, orderID string) error {
	now := time.Now().UTC()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE payment_orders SET status = ?, updated_at = ? WHERE id = ?`,
			models.OrderFailed, now, orderID)
		if err != nil {
			return fmt.Errorf("failed to mark order failed: %w", err)
		}
		if err := requireRowAffected(res, ErrOrderNotFound); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE bookings SET payment_status = ?, updated_at = ?
			WHERE id = (SELECT booking_id FROM payment_orders WHERE id = ?)`,
			models.PaymentFailed, now, orderID)
		if err != nil {
			return fmt.Errorf("failed to update booking payment status: %w", err)
		}
		return nil
	})
}

// ListOrdersByBooking returns all gateway orders for a booking, newest first.
func (db *DB) ListOrdersByBooking(ctx context.Context, bookingID string) ([]*models.PaymentOrder, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM payment_orders WHERE booking_id = ? ORDER BY created_at DESC`,
		bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*models.PaymentOrder, 0)
	for rows.Next() {
		o, err := scanPaymentOrder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func scanPaymentOrder(scan func(dest ...any) error) (*models.PaymentOrder, error) {
	var o models.PaymentOrder
	err := scan(&o.ID, &o.BookingID, &o.GatewayOrderID, &o.Amount, &o.Currency,
		&o.Status, &o.GatewayPaymentID, &o.Signature, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
