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
	"github.com/renterra/renterra/internal/emergency"
	"github.com/renterra/renterra/internal/models"
)

// ReportEmergency files a roadside incident against an active booking.
func (h *Handler) ReportEmergency(w http.ResponseWriter, r *http.Request) {
	var in emergency.ReportInput
	if !decodeAndValidate(w, r, &in) {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	e, err := h.emergencies.Report(r.Context(), claims.UserID, &in)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusCreated, e)
}

// ListEmergencies returns incidents visible to the caller.
func (h *Handler) ListEmergencies(w http.ResponseWriter, r *http.Request) {
	page, pageSize := h.pagination(r)
	q := r.URL.Query()
	filter := &models.EmergencyFilter{
		Status:   q.Get("status"),
		Type:     q.Get("type"),
		Priority: q.Get("priority"),
		Page:     page,
		PageSize: pageSize,
	}

	claims := auth.ClaimsFromContext(r.Context())
	emergencies, total, err := h.emergencies.List(r.Context(), claims.UserID, claims.Role, filter)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondPage(w, emergencies, total, page, pageSize)
}

// GetEmergency returns one incident visible to the caller.
func (h *Handler) GetEmergency(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	e, err := h.emergencies.Get(r.Context(), claims.UserID, claims.Role, chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, e)
}

type emergencyLocationRequest struct {
	Location      *models.Location `json:"location,omitempty"`
	LocationError string           `json:"location_error,omitempty" validate:"max=500"`
}

// UpdateEmergencyLocation refines an open incident's position. The
// reporter sends either an improved fix or the reason geolocation failed.
func (h *Handler) UpdateEmergencyLocation(w http.ResponseWriter, r *http.Request) {
	var req emergencyLocationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if req.Location == nil {
		if req.LocationError == "" {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "location or location_error is required", nil)
			return
		}
		if err := h.emergencies.ReportLocationError(r.Context(), claims.UserID, id, req.LocationError); err != nil {
			respondAppError(w, err)
			return
		}
		respondData(w, http.StatusOK, map[string]string{"message": "location error recorded"})
		return
	}

	e, err := h.emergencies.UpdateLocation(r.Context(), claims.UserID, id, req.Location)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, e)
}

type emergencyStatusRequest struct {
	Status          string `json:"status" validate:"required"`
	ResolutionNotes string `json:"resolution_notes,omitempty" validate:"max=2000"`
}

// UpdateEmergencyStatus moves an incident through its lifecycle. Admin only.
func (h *Handler) UpdateEmergencyStatus(w http.ResponseWriter, r *http.Request) {
	var req emergencyStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	e, err := h.emergencies.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status, req.ResolutionNotes)
	if err != nil {
		respondAppError(w, err)
		return
	}
	h.audit(r, "emergency.status."+req.Status, "emergency", e.ID, audit.OutcomeSuccess)
	respondData(w, http.StatusOK, e)
}
