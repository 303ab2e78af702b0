// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndCompare(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not be the plaintext")
	}

	if err := h.Compare(hash, "correct horse battery staple"); err != nil {
		t.Errorf("matching password rejected: %v", err)
	}
	if err := h.Compare(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("wrong password: got %v, want ErrPasswordMismatch", err)
	}
}

func TestPasswordCompareMalformedHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	err := h.Compare("not-a-bcrypt-hash", "anything")
	if err == nil || errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("malformed hash: got %v, want a non-mismatch error", err)
	}
}

func TestNewPasswordHasherClampsCost(t *testing.T) {
	h := NewPasswordHasher(99)
	if h.cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want default for out-of-range input", h.cost)
	}
}
