// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package auth

import (
	"testing"
	"time"
)

func setupTestDenylist(t *testing.T) *Denylist {
	t.Helper()
	d, err := NewDenylist("")
	if err != nil {
		t.Fatalf("NewDenylist failed: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close denylist: %v", err)
		}
	})
	return d
}

func TestDenylistRevokeAndCheck(t *testing.T) {
	d := setupTestDenylist(t)

	if d.IsRevoked("jti-1") {
		t.Error("unknown jti must not be revoked")
	}

	if err := d.Revoke("jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if !d.IsRevoked("jti-1") {
		t.Error("revoked jti must report revoked")
	}
	if d.IsRevoked("jti-2") {
		t.Error("revocation must not leak to other jtis")
	}
}

func TestDenylistExpiredTokenNoOp(t *testing.T) {
	d := setupTestDenylist(t)

	if err := d.Revoke("jti-old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke of expired token failed: %v", err)
	}
	if d.IsRevoked("jti-old") {
		t.Error("already-expired token needs no denylist entry")
	}
}
