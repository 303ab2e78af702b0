// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package payments

import "testing"

func TestVerifySignature(t *testing.T) {
	const secret = "gw_secret"
	sig := SignCapture("order_1", "pay_1", secret)

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		secret    string
		want      bool
	}{
		{"valid", "order_1", "pay_1", sig, secret, true},
		{"wrong order", "order_2", "pay_1", sig, secret, false},
		{"wrong payment", "order_1", "pay_2", sig, secret, false},
		{"wrong secret", "order_1", "pay_1", sig, "other", false},
		{"tampered signature", "order_1", "pay_1", sig + "00", secret, false},
		{"empty signature", "order_1", "pay_1", "", secret, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifySignature(tt.orderID, tt.paymentID, tt.signature, tt.secret); got != tt.want {
				t.Errorf("VerifySignature() = %v, want %v", got, tt.want)
			}
		})
	}
}
