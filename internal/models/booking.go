// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package models

import (
	"math"
	"time"
)

// Booking status values. The allowed transitions between them are enforced
// by internal/booking.Transition; nothing outside that function may change
// a booking's status.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
	BookingRejected  = "rejected"
)

// Payment status values for a booking.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment methods accepted at booking time.
var ValidPaymentMethods = []string{"card", "upi", "netbanking", "cash"}

// Booking represents a rental agreement between a customer and a car owner.
//
// OwnerID is denormalized from the car at creation time so owner-scoped
// queries and authorization checks do not join through cars.
type Booking struct {
	ID            string    `json:"id"`
	CarID         string    `json:"car_id"`
	CustomerID    string    `json:"customer_id"`
	OwnerID       string    `json:"owner_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	TotalPrice    float64   `json:"total_price"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Denormalized display fields, populated by list queries.
	CarName      string `json:"car_name,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	OwnerName    string `json:"owner_name,omitempty"`
}

// IsTerminal reports whether the booking can accept no further transitions.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingCompleted || b.Status == BookingCancelled || b.Status == BookingRejected
}

// Days returns the billable day count, always at least 1. Partial days
// round up.
func (b *Booking) Days() int {
	days := int(math.Ceil(b.EndDate.Sub(b.StartDate).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// PerDayRate derives the daily rate from the booking's own total, not the
// car's current price. Extensions bill at the rate the customer originally
// agreed to, even if the owner has since repriced the car.
func (b *Booking) PerDayRate() float64 {
	return b.TotalPrice / float64(b.Days())
}

// BookingFilter narrows booking list queries.
type BookingFilter struct {
	CustomerID string
	OwnerID    string
	CarID      string
	Status     string
	From       time.Time
	To         time.Time
	Page       int
	PageSize   int
}

// BookingReport aggregates bookings for the admin report endpoint. The
// client renders this JSON to PDF; the server never produces documents.
type BookingReport struct {
	GeneratedAt    time.Time          `json:"generated_at"`
	From           time.Time          `json:"from"`
	To             time.Time          `json:"to"`
	TotalBookings  int                `json:"total_bookings"`
	TotalRevenue   float64            `json:"total_revenue"`
	CountByStatus  map[string]int     `json:"count_by_status"`
	RevenueByOwner map[string]float64 `json:"revenue_by_owner"`
	Rows           []*Booking         `json:"rows"`
}
