// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package models

import (
	"time"
)

// Payment order status values tracked against the gateway.
const (
	OrderCreated = "created"
	OrderPaid    = "paid"
	OrderFailed  = "failed"
)

// PaymentOrder tracks a gateway order created for a booking. One booking
// may accumulate several orders if earlier attempts fail; at most one ends
// up paid.
type PaymentOrder struct {
	ID               string    `json:"id"`
	BookingID        string    `json:"booking_id"`
	GatewayOrderID   string    `json:"gateway_order_id"`
	Amount           float64   `json:"amount"`
	Currency         string    `json:"currency"`
	Status           string    `json:"status"`
	GatewayPaymentID string    `json:"gateway_payment_id,omitempty"`
	Signature        string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
