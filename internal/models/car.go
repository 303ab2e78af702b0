// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package models

import (
	"fmt"
	"time"
)

// Car types accepted by listing validation.
var ValidCarTypes = []string{"sedan", "suv", "hatchback", "convertible", "pickup", "van", "luxury"}

// Transmission values accepted by listing validation.
var ValidTransmissions = []string{"manual", "automatic"}

// Fuel types accepted by listing validation.
var ValidFuelTypes = []string{"petrol", "diesel", "electric", "hybrid", "cng"}

// Car represents a rental listing.
//
// Lifecycle: an owner creates the car unapproved; an admin approves or
// rejects it. Only approved cars with Available=true appear in the public
// search. RejectionReason is set when an admin rejects the listing so the
// owner can fix and resubmit.
type Car struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	PricePerDay     float64   `json:"price_per_day"`
	Location        string    `json:"location"`
	Seats           int       `json:"seats"`
	Transmission    string    `json:"transmission"`
	FuelType        string    `json:"fuel_type"`
	ImageURLs       []string  `json:"image_urls,omitempty"`
	Description     string    `json:"description,omitempty"`
	Approved        bool      `json:"approved"`
	Available       bool      `json:"available"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CarFilter narrows the public car search.
type CarFilter struct {
	Type         string
	Location     string
	Transmission string
	FuelType     string
	MaxPrice     float64
	MinSeats     int
	Page         int
	PageSize     int
}

// CacheKey returns a stable key for the listing cache. Two filters that
// produce the same key must produce the same result set.
func (f *CarFilter) CacheKey() string {
	return fmt.Sprintf("cars:%s:%s:%s:%s:%d:%g:%d:%d",
		f.Type, f.Location, f.Transmission, f.FuelType,
		f.MinSeats, f.MaxPrice, f.Page, f.PageSize)
}
