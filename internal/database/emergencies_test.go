// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/renterra/renterra/internal/models"
)

func createTestEmergency(t *testing.T, db *DB, loc *models.Location) (*models.Emergency, *models.User, *models.User) {
	t.Helper()
	ctx := context.Background()

	owner := createTestUser(t, db, models.RoleOwner)
	customer := createTestUser(t, db, models.RoleCustomer)
	car := createTestCar(t, db, owner.ID)
	b := createTestBooking(t, db, car.ID, customer.ID, owner.ID, models.BookingConfirmed)

	e := &models.Emergency{
		BookingID:   b.ID,
		CarID:       car.ID,
		OwnerID:     owner.ID,
		CustomerID:  customer.ID,
		Type:        "breakdown",
		Priority:    "high",
		Description: "Engine will not start",
		Status:      models.EmergencyPending,
		Location:    loc,
	}
	if err := db.CreateEmergency(ctx, e, []*models.Notification{{
		RecipientID: owner.ID,
		Type:        models.NotifyEmergencyReported,
		Title:       "Emergency reported",
		Message:     "Breakdown reported on your car",
		EmergencyID: "",
	}}); err != nil {
		t.Fatalf("CreateEmergency failed: %v", err)
	}
	return e, owner, customer
}

func TestCreateEmergencyWithNotifications(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	e, owner, _ := createTestEmergency(t, db, &models.Location{Latitude: 18.52, Longitude: 73.85, AccuracyM: 50})

	got, err := db.GetEmergency(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.EmergencyPending || got.Location == nil {
		t.Errorf("got %+v, want pending with location", got)
	}
	if got.Location.AccuracyM != 50 {
		t.Errorf("accuracy = %g, want 50", got.Location.AccuracyM)
	}

	_, total, err := db.ListNotifications(ctx, &models.NotificationFilter{RecipientID: owner.ID})
	if err != nil {
		t.Fatal(err)
	}
	// booking helper writes none; the emergency wrote one for the owner
	if total != 1 {
		t.Errorf("owner notifications = %d, want 1", total)
	}
}

func TestUpdateEmergencyLocationBestAccuracyWins(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	e, _, _ := createTestEmergency(t, db, &models.Location{Latitude: 18.52, Longitude: 73.85, AccuracyM: 100})

	// Worse accuracy is discarded.
	accepted, err := db.UpdateEmergencyLocation(ctx, e.ID, &models.Location{Latitude: 18.6, Longitude: 73.9, AccuracyM: 500})
	if err != nil {
		t.Fatal(err)
	}
	if accepted {
		t.Error("worse accuracy reading must be discarded")
	}
	got, _ := db.GetEmergency(ctx, e.ID)
	if got.Location.AccuracyM != 100 {
		t.Errorf("accuracy = %g, want 100 (unchanged)", got.Location.AccuracyM)
	}

	// Better accuracy replaces the fix.
	accepted, err = db.UpdateEmergencyLocation(ctx, e.ID, &models.Location{Latitude: 18.53, Longitude: 73.86, AccuracyM: 10})
	if err != nil {
		t.Fatal(err)
	}
	if !accepted {
		t.Error("better accuracy reading must be accepted")
	}
	got, _ = db.GetEmergency(ctx, e.ID)
	if got.Location.AccuracyM != 10 || got.Location.Latitude != 18.53 {
		t.Errorf("location not refined: %+v", got.Location)
	}

	// Equal accuracy does not rewrite the fix.
	accepted, _ = db.UpdateEmergencyLocation(ctx, e.ID, &models.Location{Latitude: 19, Longitude: 74, AccuracyM: 10})
	if accepted {
		t.Error("equal accuracy reading must be discarded")
	}
}

func TestUpdateEmergencyLocationFirstFix(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	e, _, _ := createTestEmergency(t, db, nil)

	accepted, err := db.UpdateEmergencyLocation(ctx, e.ID, &models.Location{Latitude: 18.5, Longitude: 73.8, AccuracyM: 2000})
	if err != nil {
		t.Fatal(err)
	}
	if !accepted {
		t.Error("first reading must always be accepted")
	}
}

func TestTransitionEmergencyStatusGuardAndResolvedAt(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	e, _, customer := createTestEmergency(t, db, nil)

	err := db.TransitionEmergencyStatus(ctx, e.ID, models.EmergencyPending, models.EmergencyAcknowledged, "", nil)
	if err != nil {
		t.Fatalf("acknowledge failed: %v", err)
	}

	// Guard: pending -> in_progress now fails, it is acknowledged.
	err = db.TransitionEmergencyStatus(ctx, e.ID, models.EmergencyPending, models.EmergencyInProgress, "", nil)
	if !errors.Is(err, ErrEmergencyConflict) {
		t.Errorf("expected ErrEmergencyConflict, got %v", err)
	}

	err = db.TransitionEmergencyStatus(ctx, e.ID, models.EmergencyAcknowledged, models.EmergencyResolved,
		"Towed to service center", []*models.Notification{{
			RecipientID: customer.ID,
			Type:        models.NotifyEmergencyUpdated,
			Title:       "Emergency resolved",
			Message:     "Towed to service center",
			EmergencyID: e.ID,
		}})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	got, _ := db.GetEmergency(ctx, e.ID)
	if got.ResolvedAt == nil {
		t.Error("resolved_at must be set on resolve")
	}
	if got.ResolutionNotes != "Towed to service center" {
		t.Errorf("resolution notes = %q", got.ResolutionNotes)
	}

	// Location updates are rejected once terminal.
	accepted, _ := db.UpdateEmergencyLocation(ctx, e.ID, &models.Location{Latitude: 1, Longitude: 1, AccuracyM: 1})
	if accepted {
		t.Error("terminal emergency must not accept location updates")
	}
}

func TestListEmergenciesFilters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	e1, _, _ := createTestEmergency(t, db, nil)
	createTestEmergency(t, db, nil)

	if err := db.TransitionEmergencyStatus(ctx, e1.ID, models.EmergencyPending, models.EmergencyInProgress, "", nil); err != nil {
		t.Fatal(err)
	}

	_, total, err := db.ListEmergencies(ctx, &models.EmergencyFilter{Status: models.EmergencyPending})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("pending total = %d, want 1", total)
	}

	_, total, err = db.ListEmergencies(ctx, &models.EmergencyFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("all total = %d, want 2", total)
	}
}
