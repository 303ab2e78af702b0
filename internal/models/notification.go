// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package models

import (
	"time"
)

// Notification types. The type drives client rendering and, for extension
// requests, marks the notification as an actionable record.
const (
	NotifyBookingRequested  = "booking_requested"
	NotifyBookingConfirmed  = "booking_confirmed"
	NotifyBookingRejected   = "booking_rejected"
	NotifyBookingCompleted  = "booking_completed"
	NotifyBookingCancelled  = "booking_cancelled"
	NotifyExtensionRequest  = "extension_request"
	NotifyExtensionApproved = "extension_approved"
	NotifyExtensionRejected = "extension_rejected"
	NotifyEmergencyReported = "emergency_reported"
	NotifyEmergencyUpdated  = "emergency_updated"
	NotifyPaymentReceived   = "payment_received"
	NotifyCarApproved       = "car_approved"
	NotifyCarRejected       = "car_rejected"
)

// Extension request status values, carried on the notification record.
const (
	ExtensionPending  = "pending"
	ExtensionApproved = "approved"
	ExtensionRejected = "rejected"
)

// Extension request bounds, in days.
const (
	MinExtensionDays = 1
	MaxExtensionDays = 7
)

// Notification represents an in-app message to a user.
//
// An extension request is a notification of type NotifyExtensionRequest
// addressed to the car owner, with ExtraDays, NewEndDate and
// ExtensionStatus populated. The booking itself is only mutated if the
// owner approves; until then the request lives entirely on this record.
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`

	// Related entity references, set when applicable.
	BookingID   string `json:"booking_id,omitempty"`
	CarID       string `json:"car_id,omitempty"`
	EmergencyID string `json:"emergency_id,omitempty"`

	// Extension request payload, set only for NotifyExtensionRequest.
	ExtraDays       int        `json:"extra_days,omitempty"`
	NewEndDate      *time.Time `json:"new_end_date,omitempty"`
	ExtensionStatus string     `json:"extension_status,omitempty"`
}

// NotificationFilter narrows notification list queries.
type NotificationFilter struct {
	RecipientID string
	UnreadOnly  bool
	Page        int
	PageSize    int
}
