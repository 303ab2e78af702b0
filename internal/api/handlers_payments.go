// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/renterra/renterra/internal/auth"
)

type paymentOrderRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
}

// CreatePaymentOrder opens a gateway order for a confirmed booking.
func (h *Handler) CreatePaymentOrder(w http.ResponseWriter, r *http.Request) {
	var req paymentOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	order, err := h.payments.CreateOrder(r.Context(), claims.UserID, req.BookingID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusCreated, order)
}

type paymentVerifyRequest struct {
	GatewayOrderID   string `json:"gateway_order_id" validate:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" validate:"required"`
	Signature        string `json:"signature" validate:"required"`
}

// VerifyPayment checks the gateway capture signature and settles the order.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentVerifyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	order, err := h.payments.VerifyPayment(r.Context(), claims.UserID, req.GatewayOrderID, req.GatewayPaymentID, req.Signature)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, order)
}

// ListBookingPayments returns a booking's payment orders.
func (h *Handler) ListBookingPayments(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	orders, err := h.payments.ListOrders(r.Context(), claims.UserID, claims.Role, chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, orders)
}
