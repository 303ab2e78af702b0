// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/renterra/renterra/internal/models"
)

func setupTestMiddleware(t *testing.T) (*Middleware, *JWTManager) {
	t.Helper()
	jwtManager := testJWTManager(t, time.Hour)
	denylist := setupTestDenylist(t)
	return NewMiddleware(jwtManager, denylist, 5, time.Minute), jwtManager
}

func okHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			t.Error("claims missing from context")
		} else if wantUserID != "" && claims.UserID != wantUserID {
			t.Errorf("claims user = %q, want %q", claims.UserID, wantUserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateAcceptsValidBearer(t *testing.T) {
	m, jwtManager := setupTestMiddleware(t)

	token, err := jwtManager.GenerateToken(testUser(models.RoleCustomer))
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	m.Authenticate(okHandler(t, "u-1")).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthenticateRejects(t *testing.T) {
	m, jwtManager := setupTestMiddleware(t)

	revokedToken, err := jwtManager.GenerateToken(testUser(models.RoleCustomer))
	if err != nil {
		t.Fatal(err)
	}
	claims, err := jwtManager.ValidateToken(revokedToken)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.denylist.Revoke(claims.ID, claims.ExpiresAt.Time); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.token"},
		{"revoked token", "Bearer " + revokedToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			m.Authenticate(okHandler(t, "")).ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestLoginRateLimitThrottlesPerIP(t *testing.T) {
	m, _ := setupTestMiddleware(t)
	handler := m.LoginRateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 5; i++ {
		if code := send("10.0.0.1:4000"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, code)
		}
	}
	if code := send("10.0.0.1:4000"); code != http.StatusTooManyRequests {
		t.Errorf("burst exceeded: status = %d, want 429", code)
	}

	// A different client is unaffected.
	if code := send("10.0.0.2:4000"); code != http.StatusOK {
		t.Errorf("other IP: status = %d, want 200", code)
	}
}
