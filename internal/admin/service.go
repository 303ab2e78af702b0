// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

// Package admin implements platform administration: user management,
// the booking report, dashboard stats, and the audit log query.
package admin

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/renterra/renterra/internal/apperrors"
	"github.com/renterra/renterra/internal/audit"
	"github.com/renterra/renterra/internal/database"
	"github.com/renterra/renterra/internal/models"
)

// DefaultReportWindow is used when a report request gives no range.
const DefaultReportWindow = 30 * 24 * time.Hour

// Service exposes admin-only operations. Authorization happens in the
// middleware; these methods assume an admin caller.
type Service struct {
	db    *database.DB
	audit *audit.Store
}

// NewService wires the admin service. auditStore may be nil when audit
// logging is disabled.
func NewService(db *database.DB, auditStore *audit.Store) *Service {
	return &Service{db: db, audit: auditStore}
}

// ListUsers pages through the user directory, optionally by role.
func (s *Service) ListUsers(ctx context.Context, role string, limit, offset int) ([]*models.User, int, error) {
	if role != "" && !slices.Contains(models.ValidRoles, role) {
		return nil, 0, apperrors.Validationf("unknown role %q", role)
	}

	users, err := s.db.ListUsers(ctx, role, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.db.CountUsers(ctx, role)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetUserActive deactivates or reactivates an account. Deactivated
// users keep all their data but cannot log in; accounts are never hard
// deleted. Admins cannot deactivate themselves.
func (s *Service) SetUserActive(ctx context.Context, adminID, userID string, active bool) error {
	if !active && adminID == userID {
		return apperrors.Validationf("you cannot deactivate your own account")
	}

	err := s.db.SetUserActive(ctx, userID, active)
	if errors.Is(err, database.ErrUserNotFound) {
		return apperrors.NotFoundf("user %s not found", userID)
	}
	return err
}

// BookingReport aggregates bookings over a window into JSON the client
// renders. A zero range defaults to the last 30 days.
func (s *Service) BookingReport(ctx context.Context, from, to time.Time) (*models.BookingReport, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.Add(-DefaultReportWindow)
	}
	if !from.Before(to) {
		return nil, apperrors.Validationf("report range start must precede its end")
	}
	return s.db.BuildBookingReport(ctx, from, to)
}

// Stats returns headline counts for the admin dashboard.
func (s *Service) Stats(ctx context.Context) (*database.PlatformStats, error) {
	return s.db.GetPlatformStats(ctx)
}

// AuditLog queries recorded audit events.
func (s *Service) AuditLog(ctx context.Context, filter *models.AuditFilter) ([]*models.AuditEvent, error) {
	if s.audit == nil {
		return nil, apperrors.Validationf("audit logging is disabled")
	}
	return s.audit.Query(ctx, filter)
}
