// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

// Package emergency implements the roadside emergency pipeline: reporting,
// forward-only status progression, and best-accuracy location refinement.
package emergency

import (
	"github.com/renterra/renterra/internal/apperrors"
	"github.com/renterra/renterra/internal/models"
)

// rank orders the forward progression. Cancellation sits outside the rank
// order and is reachable from any non-terminal status.
var rank = map[string]int{
	models.EmergencyPending:      0,
	models.EmergencyAcknowledged: 1,
	models.EmergencyInProgress:   2,
	models.EmergencyResolved:     3,
}

// ValidateTransition checks a requested emergency status change. Forward
// moves may skip intermediate statuses but never go backward; resolved and
// cancelled accept nothing further.
func ValidateTransition(current, next string) error {
	if current == models.EmergencyResolved || current == models.EmergencyCancelled {
		return apperrors.Statef("emergency is already %s", current)
	}

	if next == models.EmergencyCancelled {
		return nil
	}

	nextRank, ok := rank[next]
	if !ok {
		return apperrors.Validationf("unknown emergency status %q", next)
	}
	if nextRank <= rank[current] {
		return apperrors.Statef("cannot move emergency from %s back to %s", current, next)
	}
	return nil
}
