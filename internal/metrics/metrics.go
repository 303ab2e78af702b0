// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Database query performance (DuckDB)
// - API endpoint latency and throughput
// - Booking and emergency lifecycle counters
// - Payment gateway circuit breaker
// - Notification dispatch and WebSocket connections
// - Cache efficiency

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBConnectionPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duckdb_connection_pool_size",
			Help: "Current number of database connections in use",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Auth Metrics
	AuthLogins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"}, // "success", "bad_credentials", "deactivated", "rate_limited"
	)

	AuthTokensRevoked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_tokens_revoked_total",
			Help: "Total number of tokens added to the denylist on logout",
		},
	)

	// Booking Lifecycle Metrics
	BookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_transitions_total",
			Help: "Total number of booking status transitions",
		},
		[]string{"from", "to"},
	)

	BookingTransitionRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_transition_rejections_total",
			Help: "Total number of rejected booking transitions",
		},
		[]string{"reason"}, // "invalid_edge", "wrong_actor"
	)

	BookingsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookings_active",
			Help: "Current number of bookings in pending or confirmed status",
		},
	)

	ExtensionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_extension_requests_total",
			Help: "Total number of extension requests by outcome",
		},
		[]string{"outcome"}, // "requested", "approved", "rejected"
	)

	// Emergency Metrics
	EmergenciesReported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emergencies_reported_total",
			Help: "Total number of emergency reports",
		},
		[]string{"type", "priority"},
	)

	EmergencyTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emergency_transitions_total",
			Help: "Total number of emergency status transitions",
		},
		[]string{"from", "to"},
	)

	EmergencyLocationUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emergency_location_updates_total",
			Help: "Total number of emergency location readings by outcome",
		},
		[]string{"outcome"}, // "accepted", "discarded"
	)

	EmergencyResolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "emergency_resolution_duration_seconds",
			Help:    "Time from report to resolution in seconds",
			Buckets: []float64{60, 300, 900, 1800, 3600, 7200, 14400, 86400},
		},
	)

	// Payment Metrics
	PaymentOrdersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_orders_created_total",
			Help: "Total number of gateway orders created",
		},
	)

	PaymentVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verifications_total",
			Help: "Total number of payment signature verifications",
		},
		[]string{"result"}, // "valid", "invalid"
	)

	PaymentGatewayDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "payment_gateway_call_duration_seconds",
			Help:    "Duration of payment gateway HTTP calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Notification Metrics
	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Total number of notifications persisted",
		},
		[]string{"type"},
	)

	NotificationsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_events_published_total",
			Help: "Total number of notification events published to the bus",
		},
	)

	NotificationsDispatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_events_dispatched_total",
			Help: "Total number of notification events pushed to WebSocket clients",
		},
	)

	NotificationsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_events_dropped_total",
			Help: "Total number of notification events dropped (no connected client)",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Audit Metrics
	AuditEventsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_events_written_total",
			Help: "Total number of audit events persisted",
		},
	)

	AuditEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_events_dropped_total",
			Help: "Total number of audit events dropped (buffer full)",
		},
	)
)

// RecordDBQuery records a database query's duration and outcome.
func RecordDBQuery(operation, table string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table, "query").Inc()
	}
}

// TrackActiveRequest adjusts the active request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordBookingTransition records a successful booking status change.
func RecordBookingTransition(from, to string) {
	BookingTransitions.WithLabelValues(from, to).Inc()
}

// RecordEmergencyTransition records a successful emergency status change.
func RecordEmergencyTransition(from, to string) {
	EmergencyTransitions.WithLabelValues(from, to).Inc()
}

// RecordCacheHit records a cache hit for the given cache type.
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss for the given cache type.
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}
