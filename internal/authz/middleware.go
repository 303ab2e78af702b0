// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package authz

import (
	"net/http"

	"github.com/renterra/renterra/internal/auth"
	"github.com/renterra/renterra/internal/logging"
)

// Middleware enforces the role policy on every authenticated route. It runs
// after auth.Middleware.Authenticate, which guarantees claims are present.
func Middleware(enforcer *Enforcer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.ClaimsFromContext(r.Context())
			if claims == nil {
				auth.RespondDenied(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "authentication required")
				return
			}

			allowed, err := enforcer.Enforce(claims.Role, r.URL.Path, r.Method)
			if err != nil {
				logging.Error().Err(err).
					Str("role", claims.Role).
					Str("path", r.URL.Path).
					Msg("Authorization check failed")
				auth.RespondDenied(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
				return
			}
			if !allowed {
				logging.Debug().
					Str("role", claims.Role).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Msg("Request denied by policy")
				auth.RespondDenied(w, http.StatusForbidden, "AUTHORIZATION_ERROR", "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
