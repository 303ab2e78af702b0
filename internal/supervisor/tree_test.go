// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type signalService struct {
	started atomic.Bool
}

func (s *signalService) Serve(ctx context.Context) error {
	s.started.Store(true)
	<-ctx.Done()
	return ctx.Err()
}

func (s *signalService) String() string { return "signal-service" }

func TestTreeRunsServicesInEveryLayer(t *testing.T) {
	tree := NewTree(testLogger(), DefaultTreeConfig())

	data := &signalService{}
	messaging := &signalService{}
	api := &signalService{}
	tree.AddDataService(data)
	tree.AddMessagingService(messaging)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for !(data.started.Load() && messaging.started.Load() && api.started.Load()) {
		if time.Now().After(deadline) {
			t.Fatal("services did not start")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Fatalf("tree stopped with %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop after cancel")
	}

	report, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport: %v", err)
	}
	if len(report) != 0 {
		t.Fatalf("unstopped services: %v", report)
	}
}

func TestTreeRestartsCrashedService(t *testing.T) {
	cfg := DefaultTreeConfig()
	cfg.FailureBackoff = 10 * time.Millisecond
	tree := NewTree(testLogger(), cfg)

	var runs atomic.Int32
	crashing := serviceFunc(func(ctx context.Context) error {
		if runs.Add(1) == 1 {
			return errors.New("transient failure")
		}
		<-ctx.Done()
		return ctx.Err()
	})
	tree.AddMessagingService(crashing)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("service restarted %d times, want 2", runs.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	<-errCh
}

type serviceFunc func(ctx context.Context) error

func (f serviceFunc) Serve(ctx context.Context) error { return f(ctx) }
func (f serviceFunc) String() string                  { return "service-func" }
