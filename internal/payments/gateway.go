// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

// Package payments integrates the external payment gateway: order
// creation over HTTPS behind a circuit breaker, and HMAC verification
// of capture callbacks.
package payments

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/renterra/renterra/internal/config"
	"github.com/renterra/renterra/internal/logging"
	"github.com/renterra/renterra/internal/metrics"
)

const breakerName = "payment-gateway"

// GatewayOrder is the gateway's view of a created order.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Receipt  string `json:"receipt,omitempty"`
}

// Gateway creates orders at the payment provider. Amounts are in the
// currency's minor unit (paise for INR).
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*GatewayOrder, error)
}

// Client is the HTTP gateway client. All calls go through a circuit
// breaker so a gateway outage fails fast instead of tying up request
// handlers for the full timeout.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*GatewayOrder]
}

// NewClient builds the gateway client from config.
func NewClient(cfg *config.GatewayConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("payment gateway circuit breaker state change")
		},
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker[*GatewayOrder](settings),
	}
}

// CreateOrder creates an order at the gateway through the breaker.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*GatewayOrder, error) {
	order, err := c.breaker.Execute(func() (*GatewayOrder, error) {
		return c.doCreateOrder(ctx, amountMinor, currency, receipt)
	})

	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
	}
	return order, err
}

func (c *Client) doCreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*GatewayOrder, error) {
	body, err := json.Marshal(map[string]interface{}{
		"amount":          amountMinor,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.PaymentGatewayDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("gateway order request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if readErr != nil {
			return nil, fmt.Errorf("gateway returned status %d (failed to read body)", resp.StatusCode)
		}
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(b))
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode gateway order: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("gateway order response missing id")
	}
	return &order, nil
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
