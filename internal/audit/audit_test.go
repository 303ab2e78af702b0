// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package audit

import (
	"context"
	"testing"
	"time"

	"github.com/renterra/renterra/internal/config"
	"github.com/renterra/renterra/internal/database"
	"github.com/renterra/renterra/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB"})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})
	return NewStore(db)
}

func TestStoreSaveAndQuery(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	events := []*models.AuditEvent{
		{
			ActorID: "u-1", ActorRole: models.RoleAdmin, Action: "car.approve",
			TargetType: "car", TargetID: "c-1", Outcome: OutcomeSuccess,
			Metadata:  map[string]string{"reason": ""},
			CreatedAt: time.Now().UTC(),
		},
		{
			ActorID: "u-2", ActorRole: models.RoleOwner, Action: "booking.approve",
			TargetType: "booking", TargetID: "b-1", Outcome: OutcomeDenied,
			CreatedAt: time.Now().UTC(),
		},
	}
	if err := store.Save(ctx, events); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Query(ctx, &models.AuditFilter{ActorID: "u-1"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 1 || got[0].Action != "car.approve" {
		t.Errorf("query by actor = %+v, want the car.approve event", got)
	}

	got, err = store.Query(ctx, &models.AuditFilter{TargetType: "booking"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Outcome != OutcomeDenied {
		t.Errorf("query by target type = %+v", got)
	}

	got, err = store.Query(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("unfiltered query = %d events, want 2", len(got))
	}
}

func TestStoreDeleteBefore(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	old := &models.AuditEvent{
		ActorID: "u-1", ActorRole: models.RoleAdmin, Action: "login",
		TargetType: "user", TargetID: "u-1", Outcome: OutcomeSuccess,
		CreatedAt: time.Now().UTC().AddDate(0, 0, -100),
	}
	fresh := &models.AuditEvent{
		ActorID: "u-1", ActorRole: models.RoleAdmin, Action: "login",
		TargetType: "user", TargetID: "u-1", Outcome: OutcomeSuccess,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.Save(ctx, []*models.AuditEvent{old, fresh}); err != nil {
		t.Fatal(err)
	}

	deleted, err := store.DeleteBefore(ctx, time.Now().UTC().AddDate(0, 0, -90))
	if err != nil {
		t.Fatalf("DeleteBefore failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	got, _ := store.Query(ctx, nil)
	if len(got) != 1 {
		t.Errorf("remaining = %d, want 1", len(got))
	}
}

func TestLoggerFlushesOnClose(t *testing.T) {
	store := setupTestStore(t)
	logger := NewLogger(store, &config.AuditConfig{
		Enabled:       true,
		FlushInterval: time.Hour, // only Close flushes in this test
	})

	logger.Record("u-1", models.RoleCustomer, "booking.create", "booking", "b-1", OutcomeSuccess)
	logger.Record("u-1", models.RoleCustomer, "booking.cancel", "booking", "b-1", OutcomeSuccess)

	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	got, err := store.Query(context.Background(), &models.AuditFilter{ActorID: "u-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("persisted = %d events, want 2", len(got))
	}
}

func TestLoggerDisabledDropsSilently(t *testing.T) {
	store := setupTestStore(t)
	logger := NewLogger(store, &config.AuditConfig{Enabled: false})

	logger.Record("u-1", models.RoleCustomer, "booking.create", "booking", "b-1", OutcomeSuccess)
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	got, _ := store.Query(context.Background(), nil)
	if len(got) != 0 {
		t.Errorf("disabled logger persisted %d events, want 0", len(got))
	}
}
