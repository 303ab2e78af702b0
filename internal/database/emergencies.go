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

// Emergency errors
var (
	ErrEmergencyNotFound = errors.New("emergency not found")

	// ErrEmergencyConflict mirrors ErrBookingConflict for guarded
	// emergency status writes.
	ErrEmergencyConflict = errors.New("emergency status changed concurrently")
)

const emergencyColumns = `id, booking_id, car_id, owner_id, customer_id, type,
	priority, description, status, latitude, longitude, accuracy_m,
	location_error, resolution_notes, resolved_at, created_at, updated_at`

// CreateEmergency inserts a new emergency and the owner/admin notification
// rows in one transaction. Exactly one emergency row is written per call.
func (db *DB) CreateEmergency(ctx context.Context, e *models.Emergency, notifs []*models.Notification) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.UpdatedAt = e.CreatedAt

	var lat, lon, acc any
	if e.Location != nil {
		lat, lon, acc = e.Location.Latitude, e.Location.Longitude, e.Location.AccuracyM
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO emergencies (` + emergencyColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.ExecContext(ctx, query,
			e.ID, e.BookingID, e.CarID, e.OwnerID, e.CustomerID, e.Type,
			e.Priority, e.Description, e.Status, lat, lon, acc,
			e.LocationError, e.ResolutionNotes, e.ResolvedAt,
			e.CreatedAt, e.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create emergency: %w", err)
		}

		for _, notif := range notifs {
			if err := insertNotificationTx(ctx, tx, notif); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetEmergency retrieves an emergency by ID.
func (db *DB) GetEmergency(ctx context.Context, id string) (*models.Emergency, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+emergencyColumns+` FROM emergencies WHERE id = ?`, id)
	return scanEmergency(row.Scan)
}

// TransitionEmergencyStatus writes a status change guarded by the expected
// current status, plus notifications, in one transaction. Resolving also
// stamps resolved_at and stores the resolution notes.
func (db *DB) TransitionEmergencyStatus(ctx context.Context, emergencyID, fromStatus, toStatus, resolutionNotes string, notifs []*models.Notification) error {
	now := time.Now().UTC()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		var res sql.Result
		var err error
		if toStatus == models.EmergencyResolved {
			res, err = tx.ExecContext(ctx,
				`UPDATE emergencies SET status = ?, resolved_at = ?, resolution_notes = ?, updated_at = ?
				WHERE id = ? AND status = ?`,
				toStatus, now, resolutionNotes, now, emergencyID, fromStatus)
		} else {
			res, err = tx.ExecContext(ctx,
				`UPDATE emergencies SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
				toStatus, now, emergencyID, fromStatus)
		}
		if err != nil {
			return fmt.Errorf("failed to update emergency status: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if n == 0 {
			return ErrEmergencyConflict
		}

		for _, notif := range notifs {
			if err := insertNotificationTx(ctx, tx, notif); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateEmergencyLocation stores a location reading. The guard clause makes
// the write best-accuracy-wins: the row only changes when no location is
// stored yet or the new accuracy radius is strictly smaller. Returns true
// when the reading was accepted.
func (db *DB) UpdateEmergencyLocation(ctx context.Context, id string, loc *models.Location) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE emergencies
		SET latitude = ?, longitude = ?, accuracy_m = ?, location_error = '', updated_at = ?
		WHERE id = ? AND status NOT IN (?, ?)
			AND (accuracy_m IS NULL OR accuracy_m > ?)`,
		loc.Latitude, loc.Longitude, loc.AccuracyM, time.Now().UTC(),
		id, models.EmergencyResolved, models.EmergencyCancelled, loc.AccuracyM)
	if err != nil {
		return false, fmt.Errorf("failed to update emergency location: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// SetEmergencyLocationError records that the reporting device could not
// produce a location fix. Does not clear a previously stored location.
func (db *DB) SetEmergencyLocationError(ctx context.Context, id, locationError string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE emergencies SET location_error = ?, updated_at = ?
		WHERE id = ? AND latitude IS NULL`,
		locationError, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set location error: %w", err)
	}
	// A row with a stored location ignores the error silently.
	_, err = res.RowsAffected()
	return err
}

// ListEmergencies returns emergencies matching the filter, newest first.
func (db *DB) ListEmergencies(ctx context.Context, filter *models.EmergencyFilter) ([]*models.Emergency, int, error) {
	where := ` FROM emergencies WHERE 1=1`
	args := []any{}

	if filter.Status != "" {
		where += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.Type != "" {
		where += ` AND type = ?`
		args = append(args, filter.Type)
	}
	if filter.Priority != "" {
		where += ` AND priority = ?`
		args = append(args, filter.Priority)
	}
	if filter.OwnerID != "" {
		where += ` AND owner_id = ?`
		args = append(args, filter.OwnerID)
	}
	if filter.CustomerID != "" {
		where += ` AND customer_id = ?`
		args = append(args, filter.CustomerID)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count emergencies: %w", err)
	}

	query := `SELECT ` + emergencyColumns + where + ` ORDER BY created_at DESC`
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
		return nil, 0, fmt.Errorf("failed to list emergencies: %w", err)
	}
	defer rows.Close()

	emergencies := make([]*models.Emergency, 0)
	for rows.Next() {
		e, err := scanEmergency(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan emergency: %w", err)
		}
		emergencies = append(emergencies, e)
	}
	return emergencies, total, rows.Err()
}

func scanEmergency(scan func(dest ...any) error) (*models.Emergency, error) {
	var e models.Emergency
	var lat, lon, acc sql.NullFloat64
	var resolvedAt sql.NullTime

	err := scan(&e.ID, &e.BookingID, &e.CarID, &e.OwnerID, &e.CustomerID,
		&e.Type, &e.Priority, &e.Description, &e.Status, &lat, &lon, &acc,
		&e.LocationError, &e.ResolutionNotes, &resolvedAt,
		&e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmergencyNotFound
	}
	if err != nil {
		return nil, err
	}

	if lat.Valid && lon.Valid {
		e.Location = &models.Location{
			Latitude:  lat.Float64,
			Longitude: lon.Float64,
			AccuracyM: acc.Float64,
		}
	}
	if resolvedAt.Valid {
		e.ResolvedAt = &resolvedAt.Time
	}
	return &e, nil
}
