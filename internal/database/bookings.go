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

// Booking errors
var (
	ErrBookingNotFound = errors.New("booking not found")

	// ErrBookingConflict is returned when a guarded status write finds the
	// booking no longer in the expected status. The caller raced another
	// transition; the record is unchanged.
	ErrBookingConflict = errors.New("booking status changed concurrently")
)

const bookingColumns = `id, car_id, customer_id, owner_id, start_date, end_date,
	status, payment_method, payment_status, total_price, created_at, updated_at`

// CreateBooking inserts a new booking and the owner's notification row in
// one transaction.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking, notif *models.Notification) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	booking.UpdatedAt = booking.CreatedAt

	return db.withTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO bookings (` + bookingColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.ExecContext(ctx, query,
			booking.ID, booking.CarID, booking.CustomerID, booking.OwnerID,
			booking.StartDate, booking.EndDate, booking.Status,
			booking.PaymentMethod, booking.PaymentStatus, booking.TotalPrice,
			booking.CreatedAt, booking.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		if notif != nil {
			if err := insertNotificationTx(ctx, tx, notif); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetBooking retrieves a booking by ID.
func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	return scanBooking(row.Scan)
}

// TransitionBookingStatus writes a status change guarded by the expected
// current status, plus the counter-party notifications, in one
// transaction. If the booking has moved out of fromStatus concurrently the
// whole transaction rolls back with ErrBookingConflict.
func (db *DB) TransitionBookingStatus(ctx context.Context, bookingID, fromStatus, toStatus string, notifs []*models.Notification) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
			toStatus, time.Now().UTC(), bookingID, fromStatus)
		if err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if n == 0 {
			return ErrBookingConflict
		}

		for _, notif := range notifs {
			if err := insertNotificationTx(ctx, tx, notif); err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplyBookingExtension extends a confirmed booking's end date and total
// price, marks the extension notification approved, and writes the
// customer's notification, all in one transaction.
func (db *DB) ApplyBookingExtension(ctx context.Context, bookingID string, newEndDate time.Time, newTotalPrice float64, extensionNotifID string, customerNotif *models.Notification) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE bookings SET end_date = ?, total_price = ?, updated_at = ?
			WHERE id = ? AND status = ?`,
			newEndDate, newTotalPrice, time.Now().UTC(), bookingID, models.BookingConfirmed)
		if err != nil {
			return fmt.Errorf("failed to extend booking: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if n == 0 {
			return ErrBookingConflict
		}

		if err := setExtensionStatusTx(ctx, tx, extensionNotifID, models.ExtensionApproved); err != nil {
			return err
		}
		return insertNotificationTx(ctx, tx, customerNotif)
	})
}

// RejectBookingExtension marks the extension notification rejected and
// writes the customer's notification. The booking row is untouched.
func (db *DB) RejectBookingExtension(ctx context.Context, extensionNotifID string, customerNotif *models.Notification) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := setExtensionStatusTx(ctx, tx, extensionNotifID, models.ExtensionRejected); err != nil {
			return err
		}
		return insertNotificationTx(ctx, tx, customerNotif)
	})
}

// SetBookingPaymentStatus records a payment outcome against the booking.
func (db *DB) SetBookingPaymentStatus(ctx context.Context, bookingID, paymentStatus string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE bookings SET payment_status = ?, updated_at = ? WHERE id = ?`,
		paymentStatus, time.Now().UTC(), bookingID)
	if err != nil {
		return fmt.Errorf("failed to set payment status: %w", err)
	}
	return requireRowAffected(res, ErrBookingNotFound)
}

// HasOverlappingConfirmedBooking reports whether the car already has a
// confirmed booking intersecting [start, end).
func (db *DB) HasOverlappingConfirmedBooking(ctx context.Context, carID string, start, end time.Time) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings
		WHERE car_id = ? AND status = ? AND start_date < ? AND end_date > ?`,
		carID, models.BookingConfirmed, end, start).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}
	return count > 0, nil
}

// ListBookings returns bookings matching the filter, newest first, joined
// with display names.
func (db *DB) ListBookings(ctx context.Context, filter *models.BookingFilter) ([]*models.Booking, int, error) {
	where := ` WHERE 1=1`
	args := []any{}

	if filter.CustomerID != "" {
		where += ` AND b.customer_id = ?`
		args = append(args, filter.CustomerID)
	}
	if filter.OwnerID != "" {
		where += ` AND b.owner_id = ?`
		args = append(args, filter.OwnerID)
	}
	if filter.CarID != "" {
		where += ` AND b.car_id = ?`
		args = append(args, filter.CarID)
	}
	if filter.Status != "" {
		where += ` AND b.status = ?`
		args = append(args, filter.Status)
	}
	if !filter.From.IsZero() {
		where += ` AND b.created_at >= ?`
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		where += ` AND b.created_at < ?`
		args = append(args, filter.To)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings b`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	query := `SELECT b.id, b.car_id, b.customer_id, b.owner_id, b.start_date,
		b.end_date, b.status, b.payment_method, b.payment_status,
		b.total_price, b.created_at, b.updated_at,
		COALESCE(c.name, ''), COALESCE(cu.name, ''), COALESCE(o.name, '')
	FROM bookings b
	LEFT JOIN cars c ON c.id = b.car_id
	LEFT JOIN users cu ON cu.id = b.customer_id
	LEFT JOIN users o ON o.id = b.owner_id` + where +
		` ORDER BY b.created_at DESC`

	page := filter.Page
	if page < 1 {
		page = 1
	}
	if filter.PageSize > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		var b models.Booking
		err := rows.Scan(&b.ID, &b.CarID, &b.CustomerID, &b.OwnerID,
			&b.StartDate, &b.EndDate, &b.Status, &b.PaymentMethod,
			&b.PaymentStatus, &b.TotalPrice, &b.CreatedAt, &b.UpdatedAt,
			&b.CarName, &b.CustomerName, &b.OwnerName)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, total, rows.Err()
}

// CountActiveBookings counts bookings in pending or confirmed status.
func (db *DB) CountActiveBookings(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE status IN (?, ?)`,
		models.BookingPending, models.BookingConfirmed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active bookings: %w", err)
	}
	return count, nil
}

func scanBooking(scan func(dest ...any) error) (*models.Booking, error) {
	var b models.Booking
	err := scan(&b.ID, &b.CarID, &b.CustomerID, &b.OwnerID, &b.StartDate,
		&b.EndDate, &b.Status, &b.PaymentMethod, &b.PaymentStatus,
		&b.TotalPrice, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
