// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/renterra/renterra/internal/auth"
)

type fakeServer struct {
	startErr error
	stopped  chan struct{}
	shutdown atomic.Bool
}

func newFakeServer(startErr error) *fakeServer {
	return &fakeServer{startErr: startErr, stopped: make(chan struct{})}
}

func (s *fakeServer) ListenAndServe() error {
	if s.startErr != nil {
		return s.startErr
	}
	<-s.stopped
	return nil
}

func (s *fakeServer) Shutdown(ctx context.Context) error {
	s.shutdown.Store(true)
	close(s.stopped)
	return nil
}

func TestHTTPServerServiceGracefulShutdown(t *testing.T) {
	srv := newFakeServer(nil)
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if !srv.shutdown.Load() {
		t.Fatal("Shutdown was never called")
	}
}

func TestHTTPServerServiceStartupFailure(t *testing.T) {
	boom := errors.New("address already in use")
	svc := NewHTTPServerService(newFakeServer(boom), time.Second)

	err := svc.Serve(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Serve returned %v, want wrapped startup error", err)
	}
}

func TestDenylistGCServiceStopsOnCancel(t *testing.T) {
	denylist, err := auth.NewDenylist("")
	if err != nil {
		t.Fatalf("failed to open denylist: %v", err)
	}
	t.Cleanup(func() { denylist.Close() })

	svc := NewDenylistGCService(denylist, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Serve returned %v, want context.DeadlineExceeded", err)
	}
}
