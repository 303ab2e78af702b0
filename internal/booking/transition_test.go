// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package booking

import (
	"errors"
	"testing"

	"github.com/renterra/renterra/internal/apperrors"
	"github.com/renterra/renterra/internal/models"
)

func TestTransitionEdges(t *testing.T) {
	tests := []struct {
		name    string
		current string
		event   Event
		actor   Actor
		want    string
		wantErr error
	}{
		{"owner approves pending", models.BookingPending, EventApprove, ActorOwner, models.BookingConfirmed, nil},
		{"owner rejects pending", models.BookingPending, EventReject, ActorOwner, models.BookingRejected, nil},
		{"owner completes confirmed", models.BookingConfirmed, EventComplete, ActorOwner, models.BookingCompleted, nil},
		{"customer cancels pending", models.BookingPending, EventCancel, ActorCustomer, models.BookingCancelled, nil},
		{"owner cancels pending", models.BookingPending, EventCancel, ActorOwner, models.BookingCancelled, nil},
		{"customer cancels confirmed", models.BookingConfirmed, EventCancel, ActorCustomer, models.BookingCancelled, nil},
		{"owner cancels confirmed", models.BookingConfirmed, EventCancel, ActorOwner, models.BookingCancelled, nil},

		{"customer cannot approve", models.BookingPending, EventApprove, ActorCustomer, "", apperrors.ErrForbidden},
		{"customer cannot reject", models.BookingPending, EventReject, ActorCustomer, "", apperrors.ErrForbidden},
		{"customer cannot complete", models.BookingConfirmed, EventComplete, ActorCustomer, "", apperrors.ErrForbidden},

		{"cannot approve confirmed", models.BookingConfirmed, EventApprove, ActorOwner, "", apperrors.ErrState},
		{"cannot reject confirmed", models.BookingConfirmed, EventReject, ActorOwner, "", apperrors.ErrState},
		{"cannot complete pending", models.BookingPending, EventComplete, ActorOwner, "", apperrors.ErrState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.current, tt.event, tt.actor)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Transition = %q, want %q", got, tt.want)
			}
		})
	}
}

// Terminal statuses accept no event from any actor, and no edge re-enters
// pending.
func TestTransitionTerminalStates(t *testing.T) {
	terminals := []string{models.BookingCompleted, models.BookingCancelled, models.BookingRejected}
	events := []Event{EventApprove, EventReject, EventComplete, EventCancel}
	actors := []Actor{ActorCustomer, ActorOwner}

	for _, status := range terminals {
		for _, event := range events {
			for _, actor := range actors {
				if _, err := Transition(status, event, actor); !errors.Is(err, apperrors.ErrState) {
					t.Errorf("Transition(%s, %s, %s) = %v, want ErrState", status, event, actor, err)
				}
			}
		}
	}
}

func TestTransitionNeverReturnsPending(t *testing.T) {
	statuses := []string{models.BookingPending, models.BookingConfirmed, models.BookingCompleted,
		models.BookingCancelled, models.BookingRejected}
	events := []Event{EventApprove, EventReject, EventComplete, EventCancel}
	actors := []Actor{ActorCustomer, ActorOwner}

	for _, status := range statuses {
		for _, event := range events {
			for _, actor := range actors {
				next, err := Transition(status, event, actor)
				if err == nil && next == models.BookingPending {
					t.Errorf("Transition(%s, %s, %s) re-entered pending", status, event, actor)
				}
			}
		}
	}
}

func TestTransitionUnknownEvent(t *testing.T) {
	if _, err := Transition(models.BookingPending, Event("archive"), ActorOwner); !errors.Is(err, apperrors.ErrState) {
		t.Errorf("unknown event: got %v, want ErrState", err)
	}
}
