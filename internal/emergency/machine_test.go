// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package emergency

import (
	"errors"
	"testing"

	"github.com/renterra/renterra/internal/apperrors"
	"github.com/renterra/renterra/internal/models"
)

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		wantErr error
	}{
		{"forward one step", models.EmergencyPending, models.EmergencyAcknowledged, nil},
		{"forward skip to in_progress", models.EmergencyPending, models.EmergencyInProgress, nil},
		{"forward skip to resolved", models.EmergencyPending, models.EmergencyResolved, nil},
		{"acknowledged to resolved", models.EmergencyAcknowledged, models.EmergencyResolved, nil},
		{"in_progress to resolved", models.EmergencyInProgress, models.EmergencyResolved, nil},
		{"cancel from pending", models.EmergencyPending, models.EmergencyCancelled, nil},
		{"cancel from in_progress", models.EmergencyInProgress, models.EmergencyCancelled, nil},

		{"backward to pending", models.EmergencyAcknowledged, models.EmergencyPending, apperrors.ErrState},
		{"backward from in_progress", models.EmergencyInProgress, models.EmergencyAcknowledged, apperrors.ErrState},
		{"same status", models.EmergencyAcknowledged, models.EmergencyAcknowledged, apperrors.ErrState},
		{"resolved is terminal", models.EmergencyResolved, models.EmergencyCancelled, apperrors.ErrState},
		{"cancelled is terminal", models.EmergencyCancelled, models.EmergencyAcknowledged, apperrors.ErrState},
		{"unknown target", models.EmergencyPending, "escalated", apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.current, tt.next)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTransition(%s, %s) = %v, want nil", tt.current, tt.next, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTransition(%s, %s) = %v, want %v", tt.current, tt.next, err, tt.wantErr)
			}
		})
	}
}
