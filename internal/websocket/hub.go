// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

// Package websocket pushes committed notifications to connected clients.
//
// Unlike a broadcast hub, delivery here is addressed: every connection
// belongs to an authenticated user, and an event for one recipient is
// written only to that user's connections. Push is best effort; the
// notification row in the database is the source of truth and clients
// reconcile over the REST feed.
package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/renterra/renterra/internal/logging"
	"github.com/renterra/renterra/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown
	// path (e.g. SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation
	// during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Hub maintains the set of active clients indexed by user.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	byUser  map[string]map[*Client]bool

	Register   chan *Client
	Unregister chan *Client
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		byUser:     make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Serve runs the hub's lifecycle loop until the context is canceled.
// Designed for suture supervision: on cancellation all clients are
// closed and ctx.Err() is returned so a supervisor can restart the hub
// without leaving orphaned connections.
//
// Uses priority-based selection: context cancellation is checked before
// lifecycle events so shutdown is never starved by a busy Register
// channel.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.add(client)
		case client := <-h.Unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	set := h.byUser[client.userID]
	if set == nil {
		set = make(map[*Client]bool)
		h.byUser[client.userID] = set
	}
	set[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Str("user_id", client.userID).Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		if set := h.byUser[client.userID]; set != nil {
			delete(set, client)
			if len(set) == 0 {
				delete(h.byUser, client.userID)
			}
		}
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Str("user_id", client.userID).Int("total_clients", total).Msg("websocket client disconnected")
}

// Send writes an event payload to every connection the recipient holds.
// It reports whether at least one connection accepted the write; a
// false return means the event was dropped (the recipient was offline
// or all connections were backed up).
func (h *Hub) Send(recipientID string, payload []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := false
	for client := range h.byUser[recipientID] {
		select {
		case client.send <- payload:
			delivered = true
			metrics.WSMessagesSent.Inc()
		default:
			metrics.WSErrors.WithLabelValues("send_buffer_full").Inc()
		}
	}
	return delivered
}

// ClientCount returns the number of active connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// UserConnected reports whether the user has at least one connection.
func (h *Hub) UserConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID]) > 0
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	closed := h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(shutdownReason(ctx))).
		Int("clients_closed", closed).
		Msg("websocket hub stopped")
}

// closeAllClients closes connections in client ID order so shutdown
// behavior is consistent across runs.
func (h *Hub) closeAllClients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
		if set := h.byUser[client.userID]; set != nil {
			delete(set, client)
			if len(set) == 0 {
				delete(h.byUser, client.userID)
			}
		}
	}
	metrics.WSConnections.Set(0)
	return len(clients)
}

func shutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}
