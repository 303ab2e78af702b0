// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package api

import (
	"context"
	"net/http"
	"time"
)

// Liveness always answers once the process is serving.
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness answers only when the database is reachable.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "UPSTREAM_ERROR", "database unavailable", err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "ready"})
}
