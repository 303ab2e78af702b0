// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package audit

import (
	"context"
	"sync"
	"time"

	"github.com/renterra/renterra/internal/config"
	"github.com/renterra/renterra/internal/logging"
	"github.com/renterra/renterra/internal/metrics"
	"github.com/renterra/renterra/internal/models"
)

// Event outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeDenied  = "denied"
	OutcomeError   = "error"
)

const (
	eventBufferSize = 1024
	maxBatchSize    = 128
)

// Logger buffers audit events and flushes them to the store in batches.
// Log never blocks the request path: when the buffer is full the event is
// dropped and counted.
type Logger struct {
	cfg    *config.AuditConfig
	store  *Store
	events chan *models.AuditEvent
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewLogger starts the async writer. Call Close to flush and stop it.
func NewLogger(store *Store, cfg *config.AuditConfig) *Logger {
	l := &Logger{
		cfg:    cfg,
		store:  store,
		events: make(chan *models.AuditEvent, eventBufferSize),
		stop:   make(chan struct{}),
	}

	l.wg.Add(1)
	go l.writeLoop()

	if cfg.Enabled && cfg.RetentionDays > 0 {
		l.wg.Add(1)
		go l.cleanupLoop()
	}

	return l
}

// Log queues an event for persistence.
func (l *Logger) Log(event *models.AuditEvent) {
	if !l.cfg.Enabled {
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	select {
	case l.events <- event:
	default:
		metrics.AuditEventsDropped.Inc()
		logging.Warn().Str("action", event.Action).Msg("Audit buffer full, dropping event")
	}
}

// Record is a convenience wrapper for the common case.
func (l *Logger) Record(actorID, actorRole, action, targetType, targetID, outcome string) {
	l.Log(&models.AuditEvent{
		ActorID:    actorID,
		ActorRole:  actorRole,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Outcome:    outcome,
	})
}

// Close flushes pending events and stops the background goroutines.
func (l *Logger) Close() error {
	close(l.stop)
	l.wg.Wait()
	return nil
}

func (l *Logger) writeLoop() {
	defer l.wg.Done()

	interval := l.cfg.FlushInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	batch := make([]*models.AuditEvent, 0, maxBatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := l.store.Save(ctx, batch); err != nil {
			logging.Error().Err(err).Int("events", len(batch)).Msg("Failed to save audit batch")
		} else {
			metrics.AuditEventsWritten.Add(float64(len(batch)))
		}
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case event := <-l.events:
			batch = append(batch, event)
			if len(batch) >= maxBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-l.stop:
			// Drain whatever is still queued.
			for {
				select {
				case event := <-l.events:
					batch = append(batch, event)
					if len(batch) >= maxBatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

func (l *Logger) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().UTC().AddDate(0, 0, -l.cfg.RetentionDays)
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			deleted, err := l.store.DeleteBefore(ctx, cutoff)
			cancel()
			if err != nil {
				logging.Error().Err(err).Msg("Audit retention cleanup failed")
			} else if deleted > 0 {
				logging.Info().Int64("deleted", deleted).Msg("Audit retention cleanup done")
			}
		case <-l.stop:
			return
		}
	}
}
