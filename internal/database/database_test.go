// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package database

import (
	"context"
	"testing"
	"time"

	"github.com/renterra/renterra/internal/config"
	"github.com/renterra/renterra/internal/models"
)

// setupTestDB creates a new in-memory test database.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
	}
	db, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
	return db
}

func createTestUser(t *testing.T, db *DB, role string) *models.User {
	t.Helper()
	u := &models.User{
		Name:         "Test " + role,
		Email:        role + "-" + time.Now().Format("150405.000000000") + "@example.com",
		PasswordHash: "$2a$04$notarealhash",
		Role:         role,
		IsActive:     true,
	}
	if err := db.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

func createTestCar(t *testing.T, db *DB, ownerID string) *models.Car {
	t.Helper()
	c := &models.Car{
		OwnerID:      ownerID,
		Name:         "Test Car",
		Type:         "sedan",
		PricePerDay:  2000,
		Location:     "Pune",
		Seats:        5,
		Transmission: "manual",
		FuelType:     "petrol",
		Available:    true,
		ImageURLs:    []string{"https://img.example.com/1.jpg"},
	}
	if err := db.CreateCar(context.Background(), c); err != nil {
		t.Fatalf("Failed to create test car: %v", err)
	}
	return c
}

func createTestBooking(t *testing.T, db *DB, carID, customerID, ownerID, status string) *models.Booking {
	t.Helper()
	start := time.Now().UTC().AddDate(0, 0, 1).Truncate(time.Second)
	b := &models.Booking{
		CarID:         carID,
		CustomerID:    customerID,
		OwnerID:       ownerID,
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, 3),
		Status:        status,
		PaymentMethod: "card",
		PaymentStatus: models.PaymentPending,
		TotalPrice:    6000,
	}
	if err := db.CreateBooking(context.Background(), b, nil); err != nil {
		t.Fatalf("Failed to create test booking: %v", err)
	}
	return b
}

func TestNewInitializesSchema(t *testing.T) {
	db := setupTestDB(t)

	// Every table should be queryable immediately.
	tables := []string{"users", "cars", "bookings", "emergencies",
		"notifications", "payment_orders", "documents", "insurance",
		"maintenance", "audit_events", "schema_migrations"}
	for _, table := range tables {
		var count int
		err := db.conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		if err != nil {
			t.Errorf("table %s not queryable: %v", table, err)
		}
	}
}

func TestMigrationsApplied(t *testing.T) {
	db := setupTestDB(t)

	version, err := db.GetCurrentSchemaVersion()
	if err != nil {
		t.Fatalf("GetCurrentSchemaVersion failed: %v", err)
	}
	if version < 2 {
		t.Errorf("schema version = %d, want >= 2", version)
	}

	history, err := db.GetMigrationHistory()
	if err != nil {
		t.Fatalf("GetMigrationHistory failed: %v", err)
	}
	if len(history) != version {
		t.Errorf("history length %d does not match version %d", len(history), version)
	}
}

func TestPing(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestSeedDemoIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.SeedDemo(ctx); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if err := db.SeedDemo(ctx); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	count, err := db.CountUsers(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("user count = %d after double seed, want 3", count)
	}
}
