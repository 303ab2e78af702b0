// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/renterra/renterra/internal/models"
)

// BuildBookingReport aggregates bookings created in [from, to) for the
// admin report endpoint. The rows are included so the client can render
// the detail table itself.
func (db *DB) BuildBookingReport(ctx context.Context, from, to time.Time) (*models.BookingReport, error) {
	report := &models.BookingReport{
		GeneratedAt:    time.Now().UTC(),
		From:           from,
		To:             to,
		CountByStatus:  make(map[string]int),
		RevenueByOwner: make(map[string]float64),
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM bookings
		WHERE created_at >= ? AND created_at < ?
		GROUP BY status`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate booking statuses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		report.CountByStatus[status] = count
		report.TotalBookings += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Revenue only counts completed bookings with completed payments.
	revRows, err := db.conn.QueryContext(ctx,
		`SELECT COALESCE(u.name, b.owner_id), SUM(b.total_price)
		FROM bookings b
		LEFT JOIN users u ON u.id = b.owner_id
		WHERE b.created_at >= ? AND b.created_at < ?
			AND b.status = ? AND b.payment_status = ?
		GROUP BY COALESCE(u.name, b.owner_id)`,
		from, to, models.BookingCompleted, models.PaymentCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	defer revRows.Close()

	for revRows.Next() {
		var owner string
		var revenue float64
		if err := revRows.Scan(&owner, &revenue); err != nil {
			return nil, fmt.Errorf("failed to scan revenue row: %w", err)
		}
		report.RevenueByOwner[owner] = revenue
		report.TotalRevenue += revenue
	}
	if err := revRows.Err(); err != nil {
		return nil, err
	}

	bookings, _, err := db.ListBookings(ctx, &models.BookingFilter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("failed to load report rows: %w", err)
	}
	report.Rows = bookings

	return report, nil
}

// PlatformStats is the admin dashboard summary.
type PlatformStats struct {
	TotalUsers        int `json:"total_users"`
	TotalCars         int `json:"total_cars"`
	PendingCars       int `json:"pending_cars"`
	ActiveBookings    int `json:"active_bookings"`
	OpenEmergencies   int `json:"open_emergencies"`
	UnreadEmergencies int `json:"unread_emergencies"`
}

// GetPlatformStats returns headline counts for the admin dashboard.
func (db *DB) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{}

	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM cars),
			(SELECT COUNT(*) FROM cars WHERE approved = false AND rejection_reason = ''),
			(SELECT COUNT(*) FROM bookings WHERE status IN (?, ?)),
			(SELECT COUNT(*) FROM emergencies WHERE status NOT IN (?, ?)),
			(SELECT COUNT(*) FROM emergencies WHERE status = ?)`,
		models.BookingPending, models.BookingConfirmed,
		models.EmergencyResolved, models.EmergencyCancelled,
		models.EmergencyPending,
	).Scan(&stats.TotalUsers, &stats.TotalCars, &stats.PendingCars,
		&stats.ActiveBookings, &stats.OpenEmergencies, &stats.UnreadEmergencies)
	if err != nil {
		return nil, fmt.Errorf("failed to load platform stats: %w", err)
	}
	return stats, nil
}
