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

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/renterra/renterra/internal/models"
)

// Car errors
var ErrCarNotFound = errors.New("car not found")

const carColumns = `id, owner_id, name, type, price_per_day, location, seats,
	transmission, fuel_type, image_urls, description, approved, available,
	rejection_reason, created_at, updated_at`

// CreateCar inserts a new listing. New cars start unapproved and wait for
// an admin decision.
func (db *DB) CreateCar(ctx context.Context, car *models.Car) error {
	if car.ID == "" {
		car.ID = uuid.New().String()
	}
	if car.CreatedAt.IsZero() {
		car.CreatedAt = time.Now().UTC()
	}
	car.UpdatedAt = car.CreatedAt
	car.Approved = false

	imageURLs, err := json.Marshal(car.ImageURLs)
	if err != nil {
		return fmt.Errorf("failed to marshal image urls: %w", err)
	}

	query := `INSERT INTO cars (` + carColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = db.conn.ExecContext(ctx, query,
		car.ID, car.OwnerID, car.Name, car.Type, car.PricePerDay, car.Location,
		car.Seats, car.Transmission, car.FuelType, string(imageURLs),
		car.Description, car.Approved, car.Available, car.RejectionReason,
		car.CreatedAt, car.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

// GetCar retrieves a car by ID.
func (db *DB) GetCar(ctx context.Context, id string) (*models.Car, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+carColumns+` FROM cars WHERE id = ?`, id)
	return scanCar(row.Scan)
}

// UpdateCar updates the owner-editable listing fields. Editing an approved
// car resets it to unapproved so the change goes back through review.
func (db *DB) UpdateCar(ctx context.Context, car *models.Car) error {
	imageURLs, err := json.Marshal(car.ImageURLs)
	if err != nil {
		return fmt.Errorf("failed to marshal image urls: %w", err)
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE cars SET name = ?, type = ?, price_per_day = ?, location = ?,
			seats = ?, transmission = ?, fuel_type = ?, image_urls = ?,
			description = ?, available = ?, approved = false,
			rejection_reason = '', updated_at = ?
		WHERE id = ?`,
		car.Name, car.Type, car.PricePerDay, car.Location, car.Seats,
		car.Transmission, car.FuelType, string(imageURLs), car.Description,
		car.Available, time.Now().UTC(), car.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update car: %w", err)
	}
	return requireRowAffected(res, ErrCarNotFound)
}

// SetCarAvailability toggles the available flag without touching approval.
func (db *DB) SetCarAvailability(ctx context.Context, id string, available bool) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE cars SET available = ?, updated_at = ? WHERE id = ?`,
		available, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set car availability: %w", err)
	}
	return requireRowAffected(res, ErrCarNotFound)
}

// SetCarApproval records an admin decision. Rejection keeps the row but
// stores the reason for the owner.
func (db *DB) SetCarApproval(ctx context.Context, id string, approved bool, rejectionReason string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE cars SET approved = ?, rejection_reason = ?, updated_at = ? WHERE id = ?`,
		approved, rejectionReason, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set car approval: %w", err)
	}
	return requireRowAffected(res, ErrCarNotFound)
}

// DeleteCar removes a listing.
func (db *DB) DeleteCar(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM cars WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	return requireRowAffected(res, ErrCarNotFound)
}

// ListCarsByOwner returns all of an owner's listings, newest first.
func (db *DB) ListCarsByOwner(ctx context.Context, ownerID string) ([]*models.Car, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+carColumns+` FROM cars WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner cars: %w", err)
	}
	return collectCars(rows)
}

// ListPendingCars returns listings awaiting an admin decision.
func (db *DB) ListPendingCars(ctx context.Context) ([]*models.Car, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+carColumns+` FROM cars
		WHERE approved = false AND rejection_reason = ''
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending cars: %w", err)
	}
	return collectCars(rows)
}

// SearchCars returns approved, available cars matching the filter, with
// the total match count for pagination.
func (db *DB) SearchCars(ctx context.Context, filter *models.CarFilter) ([]*models.Car, int, error) {
	where := ` FROM cars WHERE approved = true AND available = true`
	args := []any{}

	if filter.Type != "" {
		where += ` AND type = ?`
		args = append(args, filter.Type)
	}
	if filter.Location != "" {
		where += ` AND lower(location) LIKE lower(?)`
		args = append(args, "%"+filter.Location+"%")
	}
	if filter.Transmission != "" {
		where += ` AND transmission = ?`
		args = append(args, filter.Transmission)
	}
	if filter.FuelType != "" {
		where += ` AND fuel_type = ?`
		args = append(args, filter.FuelType)
	}
	if filter.MaxPrice > 0 {
		where += ` AND price_per_day <= ?`
		args = append(args, filter.MaxPrice)
	}
	if filter.MinSeats > 0 {
		where += ` AND seats >= ?`
		args = append(args, filter.MinSeats)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count cars: %w", err)
	}

	query := `SELECT ` + carColumns + where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search cars: %w", err)
	}
	cars, err := collectCars(rows)
	if err != nil {
		return nil, 0, err
	}
	return cars, total, nil
}

func collectCars(rows *sql.Rows) ([]*models.Car, error) {
	defer rows.Close()

	cars := make([]*models.Car, 0)
	for rows.Next() {
		car, err := scanCar(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan car: %w", err)
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}

func scanCar(scan func(dest ...any) error) (*models.Car, error) {
	var c models.Car
	var imageURLs string
	err := scan(&c.ID, &c.OwnerID, &c.Name, &c.Type, &c.PricePerDay,
		&c.Location, &c.Seats, &c.Transmission, &c.FuelType, &imageURLs,
		&c.Description, &c.Approved, &c.Available, &c.RejectionReason,
		&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, err
	}
	if imageURLs != "" {
		if err := json.Unmarshal([]byte(imageURLs), &c.ImageURLs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal image urls: %w", err)
		}
	}
	return &c, nil
}
