// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

// Package audit records who did what to which resource. Writes go through
// an async buffered logger into DuckDB; admins query the trail through the
// reporting API.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/renterra/renterra/internal/database"
	"github.com/renterra/renterra/internal/models"
)

// Store persists audit events in the audit_events table.
type Store struct {
	conn *sql.DB
}

// NewStore creates a store over the shared database handle.
func NewStore(db *database.DB) *Store {
	return &Store{conn: db.Conn()}
}

// Save inserts a batch of events in one transaction.
func (s *Store) Save(ctx context.Context, events []*models.AuditEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin audit transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, event := range events {
		metadata := "{}"
		if len(event.Metadata) > 0 {
			data, err := json.Marshal(event.Metadata)
			if err != nil {
				return fmt.Errorf("failed to marshal audit metadata: %w", err)
			}
			metadata = string(data)
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO audit_events (actor_id, actor_role, action, target_type, target_id, outcome, metadata, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			event.ActorID, event.ActorRole, event.Action, event.TargetType,
			event.TargetID, event.Outcome, metadata, event.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert audit event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit events: %w", err)
	}
	return nil
}

// Query returns events matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter *models.AuditFilter) ([]*models.AuditEvent, error) {
	if filter == nil {
		filter = &models.AuditFilter{}
	}

	query := `SELECT id, actor_id, actor_role, action, target_type, target_id, outcome, metadata, created_at
		FROM audit_events WHERE 1=1`
	var args []interface{}

	if filter.ActorID != "" {
		query += ` AND actor_id = ?`
		args = append(args, filter.ActorID)
	}
	if filter.Action != "" {
		query += ` AND action = ?`
		args = append(args, filter.Action)
	}
	if filter.TargetType != "" {
		query += ` AND target_type = ?`
		args = append(args, filter.TargetType)
	}
	if !filter.From.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		query += ` AND created_at < ?`
		args = append(args, filter.To)
	}

	query += ` ORDER BY created_at DESC, id DESC`
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*models.AuditEvent
	for rows.Next() {
		event := &models.AuditEvent{}
		var metadata string
		err := rows.Scan(&event.ID, &event.ActorID, &event.ActorRole, &event.Action,
			&event.TargetType, &event.TargetID, &event.Outcome, &metadata, &event.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		if metadata != "" && metadata != "{}" {
			if err := json.Unmarshal([]byte(metadata), &event.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit metadata: %w", err)
			}
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// DeleteBefore removes events older than cutoff, returning the count.
func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM audit_events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old audit events: %w", err)
	}
	return res.RowsAffected()
}
