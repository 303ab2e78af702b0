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

// ListNotifications returns the caller's notification feed, newest first.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	page, pageSize := h.pagination(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	claims := auth.ClaimsFromContext(r.Context())
	items, total, err := h.notifications.List(r.Context(), claims.UserID, unreadOnly, page, pageSize)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondPage(w, items, total, page, pageSize)
}

// UnreadNotificationCount returns the caller's unread badge count.
func (h *Handler) UnreadNotificationCount(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	count, err := h.notifications.CountUnread(r.Context(), claims.UserID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]int{"unread": count})
}

// MarkNotificationRead marks one of the caller's notifications read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if err := h.notifications.MarkRead(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"message": "notification marked read"})
}

// MarkAllNotificationsRead clears the caller's unread backlog.
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	n, err := h.notifications.MarkAllRead(r.Context(), claims.UserID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]int64{"marked": n})
}

// DeleteNotification removes one of the caller's notifications.
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if err := h.notifications.Delete(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"message": "notification deleted"})
}
