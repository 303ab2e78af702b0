// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/renterra/renterra/internal/audit"
	"github.com/renterra/renterra/internal/auth"
	"github.com/renterra/renterra/internal/models"
)

// ListUsers returns the user roster, optionally filtered by role.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := h.pagination(r)
	users, total, err := h.admin.ListUsers(r.Context(), r.URL.Query().Get("role"), pageSize, (page-1)*pageSize)
	if err != nil {
		respondAppError(w, err)
		return
	}

	public := make([]*models.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	respondPage(w, public, total, page, pageSize)
}

type userActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// SetUserActive activates or deactivates an account.
func (h *Handler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	var req userActiveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	userID := chi.URLParam(r, "id")
	if err := h.admin.SetUserActive(r.Context(), claims.UserID, userID, *req.Active); err != nil {
		respondAppError(w, err)
		return
	}

	action := "user.deactivate"
	if *req.Active {
		action = "user.activate"
	}
	h.audit(r, action, "user", userID, audit.OutcomeSuccess)
	respondData(w, http.StatusOK, map[string]bool{"active": *req.Active})
}

// ListPendingCars returns the approval queue.
func (h *Handler) ListPendingCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.cars.ListPending(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, cars)
}

// ApproveCar publishes a pending listing.
func (h *Handler) ApproveCar(w http.ResponseWriter, r *http.Request) {
	carID := chi.URLParam(r, "id")
	if err := h.cars.Approve(r.Context(), carID); err != nil {
		respondAppError(w, err)
		return
	}
	h.audit(r, "car.approve", "car", carID, audit.OutcomeSuccess)
	respondData(w, http.StatusOK, map[string]string{"message": "car approved"})
}

type rejectCarRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// RejectCar declines a pending listing with a reason for the owner.
func (h *Handler) RejectCar(w http.ResponseWriter, r *http.Request) {
	var req rejectCarRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	carID := chi.URLParam(r, "id")
	if err := h.cars.Reject(r.Context(), carID, req.Reason); err != nil {
		respondAppError(w, err)
		return
	}
	h.audit(r, "car.reject", "car", carID, audit.OutcomeSuccess)
	respondData(w, http.StatusOK, map[string]string{"message": "car rejected"})
}

// BookingReport aggregates bookings over a date window. The client
// renders the JSON; the server never produces documents.
func (h *Handler) BookingReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.admin.BookingReport(r.Context(), queryTime(r, "from"), queryTime(r, "to"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, report)
}

// PlatformStats returns headline platform counters.
func (h *Handler) PlatformStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, stats)
}

// AuditLog queries recorded admin actions.
func (h *Handler) AuditLog(w http.ResponseWriter, r *http.Request) {
	page, pageSize := h.pagination(r)
	q := r.URL.Query()
	filter := &models.AuditFilter{
		ActorID:    q.Get("actor_id"),
		Action:     q.Get("action"),
		TargetType: q.Get("target_type"),
		From:       queryTime(r, "from"),
		To:         queryTime(r, "to"),
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	}

	events, err := h.admin.AuditLog(r.Context(), filter)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, events)
}
