// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package database

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/renterra/renterra/internal/logging"
	"github.com/renterra/renterra/internal/models"
)

// SeedDemo inserts a small demo dataset for development environments:
// one admin, one owner with two approved cars, one customer. Idempotent -
// skips when any user already exists.
func (db *DB) SeedDemo(ctx context.Context) error {
	count, err := db.CountUsers(ctx, "")
	if err != nil {
		return err
	}
	if count > 0 {
		logging.Debug().Msg("Skipping demo seed, users already exist")
		return nil
	}

	// Demo password for all seed accounts. Cost 4 keeps dev startup fast;
	// real accounts are hashed with the configured cost.
	hash, err := bcrypt.GenerateFromPassword([]byte("renterra-demo"), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	users := []*models.User{
		{Name: "Demo Admin", Email: "admin@renterra.local", Role: models.RoleAdmin},
		{Name: "Demo Owner", Email: "owner@renterra.local", Role: models.RoleOwner},
		{Name: "Demo Customer", Email: "customer@renterra.local", Role: models.RoleCustomer},
	}
	for _, u := range users {
		u.PasswordHash = string(hash)
		u.IsActive = true
		if err := db.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
	}

	ownerID := users[1].ID
	cars := []*models.Car{
		{
			OwnerID: ownerID, Name: "Maruti Swift", Type: "hatchback",
			PricePerDay: 1500, Location: "Pune", Seats: 5,
			Transmission: "manual", FuelType: "petrol", Available: true,
		},
		{
			OwnerID: ownerID, Name: "Toyota Fortuner", Type: "suv",
			PricePerDay: 4500, Location: "Mumbai", Seats: 7,
			Transmission: "automatic", FuelType: "diesel", Available: true,
		},
	}
	for _, c := range cars {
		if err := db.CreateCar(ctx, c); err != nil {
			return fmt.Errorf("failed to seed car %s: %w", c.Name, err)
		}
		if err := db.SetCarApproval(ctx, c.ID, true, ""); err != nil {
			return fmt.Errorf("failed to approve seeded car: %w", err)
		}
	}

	logging.Info().Int("users", len(users)).Int("cars", len(cars)).Msg("Seeded demo data")
	return nil
}
