// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package models

import (
	"time"
)

// Audit outcome values.
const (
	AuditOutcomeSuccess = "success"
	AuditOutcomeDenied  = "denied"
	AuditOutcomeError   = "error"
)

// AuditEvent is a persistent record of a sensitive mutation: car approval,
// user deactivation, emergency status change, role-gated admin actions.
type AuditEvent struct {
	ID         int64             `json:"id"`
	ActorID    string            `json:"actor_id"`
	ActorRole  string            `json:"actor_role"`
	Action     string            `json:"action"`
	TargetType string            `json:"target_type"`
	TargetID   string            `json:"target_id"`
	Outcome    string            `json:"outcome"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// AuditFilter narrows audit log queries.
type AuditFilter struct {
	ActorID    string
	Action     string
	TargetType string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}
