// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package websocket

import (
	"context"
	"testing"
	"time"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func startHub(t *testing.T) (*Hub, context.CancelFunc, chan error) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Serve(ctx) }()
	t.Cleanup(cancel)
	return hub, cancel, done
}

func TestSendIsAddressedPerUser(t *testing.T) {
	hub, _, _ := startHub(t)

	alice := NewClient(hub, nil, "alice")
	bob := NewClient(hub, nil, "bob")
	hub.Register <- alice
	hub.Register <- bob
	waitFor(t, "clients to register", func() bool { return hub.ClientCount() == 2 })

	if !hub.Send("alice", []byte(`{"type":"booking_confirmed"}`)) {
		t.Fatal("send to connected user reported undelivered")
	}

	select {
	case payload := <-alice.send:
		if string(payload) != `{"type":"booking_confirmed"}` {
			t.Errorf("alice got %q", payload)
		}
	default:
		t.Error("alice's connection got nothing")
	}
	select {
	case payload := <-bob.send:
		t.Errorf("bob got someone else's event: %q", payload)
	default:
	}

	if hub.Send("nobody", []byte("x")) {
		t.Error("send to offline user reported delivered")
	}
}

func TestSendFansOutToAllUserConnections(t *testing.T) {
	hub, _, _ := startHub(t)

	phone := NewClient(hub, nil, "alice")
	laptop := NewClient(hub, nil, "alice")
	hub.Register <- phone
	hub.Register <- laptop
	waitFor(t, "clients to register", func() bool { return hub.ClientCount() == 2 })

	if !hub.Send("alice", []byte("hello")) {
		t.Fatal("send reported undelivered")
	}
	for _, c := range []*Client{phone, laptop} {
		select {
		case <-c.send:
		default:
			t.Error("one of alice's connections got nothing")
		}
	}
}

func TestSendReportsUndeliveredWhenBufferFull(t *testing.T) {
	hub, _, _ := startHub(t)

	client := NewClient(hub, nil, "alice")
	hub.Register <- client
	waitFor(t, "client to register", func() bool { return hub.ClientCount() == 1 })

	for i := 0; i < sendBufferSize; i++ {
		if !hub.Send("alice", []byte("fill")) {
			t.Fatalf("send %d failed before buffer was full", i)
		}
	}
	if hub.Send("alice", []byte("overflow")) {
		t.Error("send into a full buffer reported delivered")
	}
}

func TestUnregisterRemovesUserRouting(t *testing.T) {
	hub, _, _ := startHub(t)

	client := NewClient(hub, nil, "alice")
	hub.Register <- client
	waitFor(t, "client to register", func() bool { return hub.UserConnected("alice") })

	hub.Unregister <- client
	waitFor(t, "client to unregister", func() bool { return !hub.UserConnected("alice") })

	if hub.Send("alice", []byte("late")) {
		t.Error("send after disconnect reported delivered")
	}
	if _, ok := <-client.send; ok {
		t.Error("send channel not closed on unregister")
	}
}

func TestServeClosesClientsOnCancel(t *testing.T) {
	hub, cancel, done := startHub(t)

	client := NewClient(hub, nil, "alice")
	hub.Register <- client
	waitFor(t, "client to register", func() bool { return hub.ClientCount() == 1 })

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return on cancel")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("clients after shutdown = %d, want 0", hub.ClientCount())
	}
}
