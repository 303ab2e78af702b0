// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package notification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/renterra/renterra/internal/apperrors"
	"github.com/renterra/renterra/internal/config"
	"github.com/renterra/renterra/internal/database"
	"github.com/renterra/renterra/internal/models"
)

func setupService(t *testing.T) (*Service, *database.DB, *models.User, *models.User) {
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

	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	stamp := time.Now().Format("150405.000000000")

	alice := &models.User{
		Name: "Alice", Email: fmt.Sprintf("alice-%s@example.com", stamp),
		PasswordHash: string(hash), Role: models.RoleCustomer, IsActive: true,
	}
	bob := &models.User{
		Name: "Bob", Email: fmt.Sprintf("bob-%s@example.com", stamp),
		PasswordHash: string(hash), Role: models.RoleCustomer, IsActive: true,
	}
	for _, u := range []*models.User{alice, bob} {
		if err := db.CreateUser(ctx, u); err != nil {
			t.Fatal(err)
		}
	}
	return NewService(db), db, alice, bob
}

func notify(t *testing.T, db *database.DB, recipientID, title string) *models.Notification {
	t.Helper()
	n := &models.Notification{
		RecipientID: recipientID,
		Type:        models.NotifyBookingConfirmed,
		Title:       title,
		Message:     "test message",
	}
	if err := db.CreateNotification(context.Background(), n); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestFeedIsRecipientScoped(t *testing.T) {
	svc, db, alice, bob := setupService(t)
	ctx := context.Background()

	notify(t, db, alice.ID, "for alice")
	notify(t, db, alice.ID, "also for alice")
	theirs := notify(t, db, bob.ID, "for bob")

	list, total, err := svc.List(ctx, alice.ID, false, 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("total = %d len = %d, want 2/2", total, len(list))
	}
	for _, n := range list {
		if n.RecipientID != alice.ID {
			t.Errorf("leaked notification %s for %s", n.ID, n.RecipientID)
		}
	}

	if unread, err := svc.CountUnread(ctx, alice.ID); err != nil || unread != 2 {
		t.Errorf("unread = %d err = %v, want 2", unread, err)
	}

	// Acting on another user's notification reads as not-found.
	if err := svc.MarkRead(ctx, alice.ID, theirs.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("cross-recipient mark read: %v", err)
	}
	if err := svc.Delete(ctx, alice.ID, theirs.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("cross-recipient delete: %v", err)
	}
}

func TestMarkReadAndDelete(t *testing.T) {
	svc, db, alice, _ := setupService(t)
	ctx := context.Background()

	first := notify(t, db, alice.ID, "first")
	notify(t, db, alice.ID, "second")
	notify(t, db, alice.ID, "third")

	if err := svc.MarkRead(ctx, alice.ID, first.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if unread, _ := svc.CountUnread(ctx, alice.ID); unread != 2 {
		t.Errorf("unread = %d, want 2", unread)
	}

	unreadOnly, total, err := svc.List(ctx, alice.ID, true, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(unreadOnly) != 2 {
		t.Errorf("unread-only total = %d len = %d, want 2/2", total, len(unreadOnly))
	}

	flipped, err := svc.MarkAllRead(ctx, alice.ID)
	if err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if flipped != 2 {
		t.Errorf("flipped = %d, want 2", flipped)
	}
	if unread, _ := svc.CountUnread(ctx, alice.ID); unread != 0 {
		t.Errorf("unread = %d, want 0", unread)
	}

	if err := svc.Delete(ctx, alice.ID, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, total, _ := svc.List(ctx, alice.ID, false, 0, 0); total != 2 {
		t.Errorf("total after delete = %d, want 2", total)
	}
}
