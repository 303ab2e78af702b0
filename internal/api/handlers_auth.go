// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package api

import (
	"net/http"

	"github.com/renterra/renterra/internal/auth"
)

type signupRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=customer owner"`
	Phone    string `json:"phone,omitempty" validate:"max=20"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Phone   string `json:"phone,omitempty" validate:"max=20"`
	Address string `json:"address,omitempty" validate:"max=500"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// Signup registers a customer or owner account and returns a token.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, token, err := h.auth.Signup(r.Context(), req.Name, req.Email, req.Password, req.Role, req.Phone)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusCreated, authResponse{Token: token, User: user.Public()})
}

// Login authenticates and returns a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, authResponse{Token: token, User: user.Public()})
}

// Logout revokes the presented token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if err := h.auth.Logout(r.Context(), claims); err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Profile returns the caller's account.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	user, err := h.auth.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, user.Public())
}

// UpdateProfile updates the caller's name, phone and address. Email and
// role are immutable.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	user, err := h.auth.UpdateProfile(r.Context(), claims.UserID, req.Name, req.Phone, req.Address)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, user.Public())
}

// ChangePassword rotates the caller's password after verifying the
// current one.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	if err := h.auth.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"message": "password changed"})
}
