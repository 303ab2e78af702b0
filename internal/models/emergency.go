// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package models

import (
	"time"
)

// Emergency status values. Transitions are forward-only and enforced by
// internal/emergency.Transition.
const (
	EmergencyPending      = "pending"
	EmergencyAcknowledged = "acknowledged"
	EmergencyInProgress   = "in_progress"
	EmergencyResolved     = "resolved"
	EmergencyCancelled    = "cancelled"
)

// Emergency types accepted by report validation.
var ValidEmergencyTypes = []string{"breakdown", "accident", "medical", "flat_tire", "lockout", "other"}

// Emergency priority levels.
var ValidEmergencyPriorities = []string{"low", "medium", "high", "critical"}

// Location is a geographic reading with its accuracy radius in meters.
// Smaller AccuracyM means a better fix.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	AccuracyM float64 `json:"accuracy_m"`
}

// Emergency represents a roadside incident reported against a booking.
//
// CarID, OwnerID and CustomerID are derived from the booking at report time.
// Location holds the best reading received so far: refinement replaces it
// only when a new reading's accuracy radius is smaller. LocationError is set
// when the reporting device could not produce a fix at all.
type Emergency struct {
	ID              string     `json:"id"`
	BookingID       string     `json:"booking_id"`
	CarID           string     `json:"car_id"`
	OwnerID         string     `json:"owner_id"`
	CustomerID      string     `json:"customer_id"`
	Type            string     `json:"type"`
	Priority        string     `json:"priority"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	Location        *Location  `json:"location,omitempty"`
	LocationError   string     `json:"location_error,omitempty"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsTerminal reports whether the emergency accepts no further transitions.
func (e *Emergency) IsTerminal() bool {
	return e.Status == EmergencyResolved || e.Status == EmergencyCancelled
}

// EmergencyFilter narrows emergency list queries.
type EmergencyFilter struct {
	Status     string
	Type       string
	Priority   string
	OwnerID    string
	CustomerID string
	Page       int
	PageSize   int
}
