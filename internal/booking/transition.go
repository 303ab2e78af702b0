// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

// Package booking implements the rental booking lifecycle. All status
// changes flow through a single pure transition function; the service
// wraps it with ownership checks, persistence, and notifications.
package booking

import (
	"github.com/renterra/renterra/internal/apperrors"
	"github.com/renterra/renterra/internal/models"
)

// Event is a lifecycle action requested by an actor.
type Event string

const (
	EventApprove  Event = "approve"
	EventReject   Event = "reject"
	EventComplete Event = "complete"
	EventCancel   Event = "cancel"
)

// Actor identifies the caller's relationship to the booking. Ownership
// itself (is this user the car's owner, is this the booking's customer) is
// established by the service before calling Transition.
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorOwner    Actor = "owner"
)

// edge is one permitted move through the lifecycle.
type edge struct {
	from   string
	to     string
	actors []Actor
}

var edges = map[Event][]edge{
	EventApprove:  {{models.BookingPending, models.BookingConfirmed, []Actor{ActorOwner}}},
	EventReject:   {{models.BookingPending, models.BookingRejected, []Actor{ActorOwner}}},
	EventComplete: {{models.BookingConfirmed, models.BookingCompleted, []Actor{ActorOwner}}},
	EventCancel: {
		{models.BookingPending, models.BookingCancelled, []Actor{ActorCustomer, ActorOwner}},
		{models.BookingConfirmed, models.BookingCancelled, []Actor{ActorCustomer, ActorOwner}},
	},
}

// Transition returns the status that results from applying event to current
// on behalf of actor. Invalid edges return a state error; valid edges
// requested by the wrong actor return an authorization error. The caller's
// record is never touched here, so a failed transition changes nothing.
func Transition(current string, event Event, actor Actor) (string, error) {
	candidates, ok := edges[event]
	if !ok {
		return "", apperrors.Statef("unknown booking event %q", event)
	}

	for _, e := range candidates {
		if e.from != current {
			continue
		}
		for _, a := range e.actors {
			if a == actor {
				return e.to, nil
			}
		}
		return "", apperrors.Forbiddenf("%s may not %s a booking", actor, event)
	}

	return "", apperrors.Statef("cannot %s a booking in status %q", event, current)
}
