// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package models

import (
	"time"
)

// Role constants define the standard roles in the system.
// These align with the Casbin policy definitions in internal/authz/policy.csv.
const (
	// RoleCustomer is the default role: browses cars, books, reports emergencies.
	RoleCustomer = "customer"

	// RoleOwner lists cars and manages bookings against them.
	RoleOwner = "owner"

	// RoleAdmin has full access: car approval, user management, reporting.
	RoleAdmin = "admin"
)

// ValidRoles contains all valid role names for validation.
var ValidRoles = []string{RoleCustomer, RoleOwner, RoleAdmin}

// IsValidRole checks if a role name is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// SignupRoles are the roles self-registration may request. Admin accounts
// are provisioned out of band, never via signup.
var SignupRoles = []string{RoleCustomer, RoleOwner}

// IsSignupRole checks whether a role may be chosen at signup.
func IsSignupRole(role string) bool {
	return role == RoleCustomer || role == RoleOwner
}

// User represents an account in the marketplace.
//
// PasswordHash is a bcrypt hash and is never serialized; handlers return
// the PublicUser projection instead. IsActive supports admin deactivation:
// deactivated users keep their data but cannot authenticate.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the wire representation of a user, with credentials and
// admin-only fields stripped.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the wire-safe projection of the user.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Phone:     u.Phone,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
	}
}
