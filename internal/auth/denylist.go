// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/renterra/renterra/internal/logging"
	"github.com/renterra/renterra/internal/metrics"
)

const denylistKeyPrefix = "revoked:"

// Denylist records revoked token IDs (jti claims) in BadgerDB so logout
// survives restarts. Entries carry a TTL equal to the token's remaining
// lifetime; Badger garbage-collects them once the token would have expired
// anyway.
type Denylist struct {
	db *badger.DB
}

// NewDenylist opens the denylist store at path. An empty path opens an
// in-memory store, used by tests and by deployments that accept losing
// revocations on restart.
func NewDenylist(path string) (*Denylist, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open denylist store: %w", err)
	}
	return &Denylist{db: db}, nil
}

// Revoke marks a token ID as revoked until expiresAt. Revoking an already
// expired token is a no-op.
func (d *Denylist) Revoke(jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	err := d.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(denylistKeyPrefix+jti), []byte{1}).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	metrics.AuthTokensRevoked.Inc()
	logging.Debug().Str("jti", jti).Msg("Token revoked")
	return nil
}

// IsRevoked reports whether a token ID has been revoked. Store errors are
// treated as revoked: failing closed is the safe answer for auth.
func (d *Denylist) IsRevoked(jti string) bool {
	err := d.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(denylistKeyPrefix + jti))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false
	}
	if err != nil {
		logging.Error().Err(err).Str("jti", jti).Msg("Denylist lookup failed, treating token as revoked")
		return true
	}
	return true
}

// Close releases the underlying store.
// RunGC reclaims space from the badger value log. Returns badger's
// ErrNoRewrite when there was nothing to collect.
func (d *Denylist) RunGC() error {
	return d.db.RunValueLogGC(0.5)
}

func (d *Denylist) Close() error {
	return d.db.Close()
}
