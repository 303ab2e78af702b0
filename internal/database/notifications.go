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

// Notification errors
var ErrNotificationNotFound = errors.New("notification not found")

const notificationColumns = `id, recipient_id, type, title, message, read,
	booking_id, car_id, emergency_id, extra_days, new_end_date,
	extension_status, created_at`

// insertNotificationTx writes a notification inside an existing
// transaction. All status-changing writes use this so the notification
// commits or rolls back with the status change.
func insertNotificationTx(ctx context.Context, tx *sql.Tx, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO notifications (` + notificationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, query,
		n.ID, n.RecipientID, n.Type, n.Title, n.Message, n.Read,
		n.BookingID, n.CarID, n.EmergencyID, n.ExtraDays, n.NewEndDate,
		n.ExtensionStatus, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// setExtensionStatusTx updates an extension notification's status inside
// an existing transaction, guarded on it still being pending.
func setExtensionStatusTx(ctx context.Context, tx *sql.Tx, notifID, status string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE notifications SET extension_status = ?
		WHERE id = ? AND type = ? AND extension_status = ?`,
		status, notifID, models.NotifyExtensionRequest, models.ExtensionPending)
	if err != nil {
		return fmt.Errorf("failed to update extension status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// CreateNotification inserts a standalone notification outside any status
// transaction (car approval, payment received).
func (db *DB) CreateNotification(ctx context.Context, n *models.Notification) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		return insertNotificationTx(ctx, tx, n)
	})
}

// GetNotification retrieves a notification by ID.
func (db *DB) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id)
	return scanNotification(row.Scan)
}

// ListNotifications returns a recipient's notifications, newest first.
func (db *DB) ListNotifications(ctx context.Context, filter *models.NotificationFilter) ([]*models.Notification, int, error) {
	where := ` FROM notifications WHERE recipient_id = ?`
	args := []any{filter.RecipientID}
	if filter.UnreadOnly {
		where += ` AND read = false`
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `SELECT ` + notificationColumns + where + ` ORDER BY created_at DESC`
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
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifs := make([]*models.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifs = append(notifs, n)
	}
	return notifs, total, rows.Err()
}

// CountUnread returns the recipient's unread notification count.
func (db *DB) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND read = false`,
		recipientID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkNotificationRead marks one notification read, scoped to the
// recipient so users cannot touch each other's rows.
func (db *DB) MarkNotificationRead(ctx context.Context, id, recipientID string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE notifications SET read = true WHERE id = ? AND recipient_id = ?`,
		id, recipientID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return requireRowAffected(res, ErrNotificationNotFound)
}

// MarkAllNotificationsRead marks every unread notification for a recipient.
func (db *DB) MarkAllNotificationsRead(ctx context.Context, recipientID string) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE notifications SET read = true WHERE recipient_id = ? AND read = false`,
		recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.RowsAffected()
}

// DeleteNotification removes a notification, scoped to the recipient.
func (db *DB) DeleteNotification(ctx context.Context, id, recipientID string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM notifications WHERE id = ? AND recipient_id = ?`,
		id, recipientID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return requireRowAffected(res, ErrNotificationNotFound)
}

func scanNotification(scan func(dest ...any) error) (*models.Notification, error) {
	var n models.Notification
	var newEndDate sql.NullTime
	err := scan(&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Message, &n.Read,
		&n.BookingID, &n.CarID, &n.EmergencyID, &n.ExtraDays, &newEndDate,
		&n.ExtensionStatus, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	if newEndDate.Valid {
		n.NewEndDate = &newEndDate.Time
	}
	return &n, nil
}
