// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/renterra/renterra/internal/admin"
	"github.com/renterra/renterra/internal/audit"
	"github.com/renterra/renterra/internal/auth"
	"github.com/renterra/renterra/internal/booking"
	"github.com/renterra/renterra/internal/car"
	"github.com/renterra/renterra/internal/config"
	"github.com/renterra/renterra/internal/database"
	"github.com/renterra/renterra/internal/emergency"
	"github.com/renterra/renterra/internal/notification"
	"github.com/renterra/renterra/internal/payments"
	"github.com/renterra/renterra/internal/websocket"
)

// Handler carries every domain service the HTTP layer fronts.
type Handler struct {
	cfg           *config.Config
	db            *database.DB
	auth          *auth.Service
	cars          *car.Service
	bookings      *booking.Service
	emergencies   *emergency.Service
	notifications *notification.Service
	payments      *payments.Service
	admin         *admin.Service
	wsHub         *websocket.Hub
	auditLog      *audit.Logger
}

// Services bundles the handler's dependencies.
type Services struct {
	Auth          *auth.Service
	Cars          *car.Service
	Bookings      *booking.Service
	Emergencies   *emergency.Service
	Notifications *notification.Service
	Payments      *payments.Service
	Admin         *admin.Service
	WSHub         *websocket.Hub
	AuditLog      *audit.Logger
}

// NewHandler wires the HTTP handlers.
func NewHandler(cfg *config.Config, db *database.DB, svcs Services) *Handler {
	return &Handler{
		cfg:           cfg,
		db:            db,
		auth:          svcs.Auth,
		cars:          svcs.Cars,
		bookings:      svcs.Bookings,
		emergencies:   svcs.Emergencies,
		notifications: svcs.Notifications,
		payments:      svcs.Payments,
		admin:         svcs.Admin,
		wsHub:         svcs.WSHub,
		auditLog:      svcs.AuditLog,
	}
}

// audit records an admin action when audit logging is enabled.
func (h *Handler) audit(r *http.Request, action, targetType, targetID, outcome string) {
	if h.auditLog == nil {
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		return
	}
	h.auditLog.Record(claims.UserID, claims.Role, action, targetType, targetID, outcome)
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// queryTime parses an RFC 3339 or date-only query parameter.
func queryTime(r *http.Request, name string) time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}
	return time.Time{}
}

// parseDatePtr converts an optional RFC 3339 or date-only string.
func parseDatePtr(raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", *raw); err == nil {
		return &t
	}
	return nil
}

// pagination reads page/page_size, clamped to configured bounds.
func (h *Handler) pagination(r *http.Request) (page, pageSize int) {
	page = queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize = queryInt(r, "page_size", h.cfg.API.DefaultPageSize)
	if pageSize < 1 {
		pageSize = h.cfg.API.DefaultPageSize
	}
	if pageSize > h.cfg.API.MaxPageSize {
		pageSize = h.cfg.API.MaxPageSize
	}
	return page, pageSize
}
