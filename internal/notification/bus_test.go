// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/renterra/renterra/internal/models"
)

type captureSink struct {
	mu       sync.Mutex
	accept   bool
	received []sinkDelivery
	notify   chan struct{}
}

type sinkDelivery struct {
	recipientID string
	payload     []byte
}

func newCaptureSink(accept bool) *captureSink {
	return &captureSink{accept: accept, notify: make(chan struct{}, 16)}
}

func (s *captureSink) Send(recipientID string, payload []byte) bool {
	s.mu.Lock()
	s.received = append(s.received, sinkDelivery{recipientID, payload})
	s.mu.Unlock()
	s.notify <- struct{}{}
	return s.accept
}

func (s *captureSink) deliveries() []sinkDelivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sinkDelivery(nil), s.received...)
}

func TestDispatcherDeliversToSink(t *testing.T) {
	bus := NewBus(0)
	t.Cleanup(func() { _ = bus.Close() })

	sink := newCaptureSink(true)
	dispatcher := NewDispatcher(bus, sink)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() { done <- dispatcher.Serve(ctx) }()

	// Give the subscriber a moment to attach before publishing.
	time.Sleep(50 * time.Millisecond)

	bus.Publish(&models.Notification{
		ID:          "n-1",
		RecipientID: "user-42",
		Type:        models.NotifyBookingConfirmed,
		Title:       "Booking confirmed",
	})

	select {
	case <-sink.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("notification never reached the sink")
	}

	got := sink.deliveries()
	if len(got) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(got))
	}
	if got[0].recipientID != "user-42" {
		t.Errorf("recipient = %q, want user-42", got[0].recipientID)
	}

	var n models.Notification
	if err := json.Unmarshal(got[0].payload, &n); err != nil {
		t.Fatalf("payload is not a notification: %v", err)
	}
	if n.ID != "n-1" || n.Type != models.NotifyBookingConfirmed {
		t.Errorf("payload round-trip mismatch: %+v", n)
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop on cancel")
	}
}

func TestDispatcherKeepsRunningWhenSinkDeclines(t *testing.T) {
	bus := NewBus(0)
	t.Cleanup(func() { _ = bus.Close() })

	// No connected client for this recipient: the sink declines and the
	// event is dropped, but the dispatcher keeps consuming.
	sink := newCaptureSink(false)
	dispatcher := NewDispatcher(bus, sink)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = dispatcher.Serve(ctx) }()
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 3; i++ {
		bus.Publish(&models.Notification{ID: "n", RecipientID: "nobody", Type: models.NotifyBookingRequested})
	}
	for i := 0; i < 3; i++ {
		select {
		case <-sink.notify:
		case <-time.After(2 * time.Second):
			t.Fatalf("delivery %d never attempted", i)
		}
	}
	if len(sink.deliveries()) != 3 {
		t.Errorf("deliveries = %d, want 3", len(sink.deliveries()))
	}
}
