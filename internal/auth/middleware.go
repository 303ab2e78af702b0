// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package auth

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/renterra/renterra/internal/logging"
	"github.com/renterra/renterra/internal/metrics"
	"github.com/renterra/renterra/internal/models"
)

type contextKey string

// ClaimsContextKey is where Authenticate stores the verified claims.
const ClaimsContextKey contextKey = "claims"

// Middleware wires token validation and login throttling into the router.
type Middleware struct {
	jwtManager   *JWTManager
	denylist     *Denylist
	loginLimiter *ipLimiter
}

// NewMiddleware creates the auth middleware. loginReqs/loginWindow throttle
// credential-guessing on the login and signup endpoints per client IP.
func NewMiddleware(jwtManager *JWTManager, denylist *Denylist, loginReqs int, loginWindow time.Duration) *Middleware {
	return &Middleware{
		jwtManager:   jwtManager,
		denylist:     denylist,
		loginLimiter: newIPLimiter(loginReqs, loginWindow),
	}
}

// Authenticate verifies the Bearer token, rejects revoked tokens, and puts
// the claims on the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := extractBearerToken(r)
		if !ok {
			respondUnauthorized(w, "missing or malformed authorization header")
			return
		}

		claims, err := m.jwtManager.ValidateToken(tokenString)
		if err != nil {
			logging.Debug().Err(err).Msg("Token validation failed")
			respondUnauthorized(w, "invalid token")
			return
		}

		if m.denylist != nil && m.denylist.IsRevoked(claims.ID) {
			respondUnauthorized(w, "token revoked")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoginRateLimit throttles per client IP. Mounted only on the credential
// endpoints; general API throttling is handled by httprate at the router.
func (m *Middleware) LoginRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !m.loginLimiter.Allow(ip) {
			metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
			metrics.AuthLogins.WithLabelValues("rate_limited").Inc()
			RespondDenied(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	RespondDenied(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", message)
}

// RespondDenied writes the standard error envelope. The auth and authz
// middleware cannot use the api package's helpers without an import cycle.
func RespondDenied(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body, err := json.Marshal(&models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: code, Message: message},
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal error response")
		return
	}
	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("Failed to write error response")
	}
}

// ClaimsFromContext returns the claims set by Authenticate, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ClaimsContextKey).(*Claims)
	return claims
}

func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ipLimiter keeps a token-bucket limiter per client IP with idle eviction.
type ipLimiter struct {
	mu      sync.Mutex
	entries map[string]*ipLimiterEntry
	rate    rate.Limit
	burst   int
}

type ipLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func newIPLimiter(reqsPerWindow int, window time.Duration) *ipLimiter {
	if reqsPerWindow <= 0 {
		reqsPerWindow = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &ipLimiter{
		entries: make(map[string]*ipLimiterEntry),
		rate:    rate.Every(window / time.Duration(reqsPerWindow)),
		burst:   reqsPerWindow,
	}
}

func (l *ipLimiter) Allow(ip string) bool {
	l.mu.Lock()
	entry, ok := l.entries[ip]
	if !ok {
		entry = &ipLimiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.entries[ip] = entry
		l.evictStaleLocked()
	}
	entry.lastAccess = time.Now()
	limiter := entry.limiter
	l.mu.Unlock()

	return limiter.Allow()
}

// evictStaleLocked drops entries idle for over an hour. Called under mu on
// the new-entry path, which bounds map growth without a background goroutine.
func (l *ipLimiter) evictStaleLocked() {
	cutoff := time.Now().Add(-time.Hour)
	for ip, entry := range l.entries {
		if entry.lastAccess.Before(cutoff) {
			delete(l.entries, ip)
		}
	}
}
