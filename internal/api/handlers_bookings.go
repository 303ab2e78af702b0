// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/renterra/renterra/internal/auth"
	"github.com/renterra/renterra/internal/booking"
	"github.com/renterra/renterra/internal/models"
)

// CreateBooking requests a pending booking for the customer.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var in booking.RequestInput
	if !decodeAndValidate(w, r, &in) {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	b, err := h.bookings.Request(r.Context(), claims.UserID, &in)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusCreated, b)
}

// ListBookings returns the caller's bookings, scoped by role.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	page, pageSize := h.pagination(r)
	q := r.URL.Query()
	filter := &models.BookingFilter{
		CarID:    q.Get("car_id"),
		Status:   q.Get("status"),
		From:     queryTime(r, "from"),
		To:       queryTime(r, "to"),
		Page:     page,
		PageSize: pageSize,
	}

	claims := auth.ClaimsFromContext(r.Context())
	bookings, total, err := h.bookings.List(r.Context(), claims.UserID, claims.Role, filter)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondPage(w, bookings, total, page, pageSize)
}

// GetBooking returns one booking visible to the caller.
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	b, err := h.bookings.Get(r.Context(), claims.UserID, claims.Role, chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, b)
}

// ApproveBooking confirms a pending booking as the car's owner.
func (h *Handler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	b, err := h.bookings.Respond(r.Context(), claims.UserID, chi.URLParam(r, "id"), true)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, b)
}

// RejectBooking declines a pending booking as the car's owner.
func (h *Handler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	b, err := h.bookings.Respond(r.Context(), claims.UserID, chi.URLParam(r, "id"), false)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, b)
}

// CompleteBooking closes out a confirmed booking after the rental ends.
func (h *Handler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	b, err := h.bookings.Complete(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, b)
}

// CancelBooking cancels a booking as either party.
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	b, err := h.bookings.Cancel(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, b)
}

type extensionRequest struct {
	ExtraDays int `json:"extra_days" validate:"required,min=1,max=30"`
}

// RequestExtension asks the owner for extra rental days on a confirmed
// booking. The request rides on the owner's notification.
func (h *Handler) RequestExtension(w http.ResponseWriter, r *http.Request) {
	var req extensionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	n, err := h.bookings.RequestExtension(r.Context(), claims.UserID, chi.URLParam(r, "id"), req.ExtraDays)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusCreated, n)
}

// ApproveExtension grants a pending extension carried on the owner's
// notification, pushing out the booking's end date.
func (h *Handler) ApproveExtension(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if err := h.bookings.RespondToExtension(r.Context(), claims.UserID, chi.URLParam(r, "id"), true); err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"message": "extension approved"})
}

// RejectExtension declines a pending extension.
func (h *Handler) RejectExtension(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if err := h.bookings.RespondToExtension(r.Context(), claims.UserID, chi.URLParam(r, "id"), false); err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"message": "extension rejected"})
}
