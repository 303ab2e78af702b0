// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package supervisor

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/renterra/renterra/internal/auth"
	"github.com/renterra/renterra/internal/logging"
)

const defaultGCInterval = 10 * time.Minute

// DenylistGCService periodically compacts the token denylist's badger
// value log. Revoked-token entries expire with their tokens, so the log
// accumulates garbage under normal operation.
type DenylistGCService struct {
	denylist *auth.Denylist
	interval time.Duration
}

// NewDenylistGCService wraps the denylist's GC as a supervised service.
func NewDenylistGCService(denylist *auth.Denylist, interval time.Duration) *DenylistGCService {
	if interval <= 0 {
		interval = defaultGCInterval
	}
	return &DenylistGCService{denylist: denylist, interval: interval}
}

// Serve implements suture.Service.
func (s *DenylistGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := s.denylist.RunGC()
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				logging.Warn().Err(err).Msg("Denylist value log GC failed")
			}
		}
	}
}

// String identifies the service in suture's event log.
func (s *DenylistGCService) String() string {
	return "denylist-gc"
}
