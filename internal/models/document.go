// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package models

import (
	"time"
)

// Document types accepted for car paperwork.
var ValidDocumentTypes = []string{"registration", "pollution_certificate", "permit", "fitness_certificate", "other"}

// Document represents a filed piece of car paperwork. Expiry dates are
// recorded for display; nothing is enforced automatically.
type Document struct {
	ID         string     `json:"id"`
	CarID      string     `json:"car_id"`
	OwnerID    string     `json:"owner_id"`
	Type       string     `json:"type"`
	Number     string     `json:"number,omitempty"`
	FileURL    string     `json:"file_url,omitempty"`
	IssueDate  *time.Time `json:"issue_date,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Insurance represents a car's insurance policy record.
type Insurance struct {
	ID           string     `json:"id"`
	CarID        string     `json:"car_id"`
	OwnerID      string     `json:"owner_id"`
	PolicyNumber string     `json:"policy_number"`
	Provider     string     `json:"provider"`
	CoverageType string     `json:"coverage_type,omitempty"`
	FileURL      string     `json:"file_url,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Maintenance represents a service record for a car.
type Maintenance struct {
	ID          string     `json:"id"`
	CarID       string     `json:"car_id"`
	OwnerID     string     `json:"owner_id"`
	ServiceType string     `json:"service_type"`
	Description string     `json:"description,omitempty"`
	Cost        float64    `json:"cost"`
	ServiceDate *time.Time `json:"service_date,omitempty"`
	NextDueDate *time.Time `json:"next_due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
