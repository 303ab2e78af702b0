// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package notification

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/renterra/renterra/internal/logging"
	"github.com/renterra/renterra/internal/metrics"
	"github.com/renterra/renterra/internal/models"
)

// Topic carries committed notifications from the domain services to the
// WebSocket dispatcher.
const Topic = "notifications"

const recipientMetadataKey = "recipient_id"

// Bus is the in-process notification event bus. Domain services publish
// to it after their transaction commits; delivery is best effort and
// never affects the transaction outcome.
type Bus struct {
	pubsub *gochannel.GoChannel
}

const defaultBufferSize = 256

// NewBus creates the in-process Pub/Sub bus. bufferSize bounds the
// per-subscriber channel; zero or negative picks the default.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: int64(bufferSize),
		}, busLogger{}),
	}
}

// Publish sends a committed notification onto the bus. Marshal or
// publish failures are logged and swallowed: the notification row is
// already durable and the client will see it on its next poll.
func (b *Bus) Publish(n *models.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		logging.Error().Err(err).Str("notification_id", n.ID).Msg("failed to marshal notification event")
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(recipientMetadataKey, n.RecipientID)

	if err := b.pubsub.Publish(Topic, msg); err != nil {
		logging.Error().Err(err).Str("notification_id", n.ID).Msg("failed to publish notification event")
		return
	}
	metrics.NotificationsPublished.Inc()
}

// Subscribe returns the bus's message stream for the given topic.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Close shuts the bus down. Pending messages are dropped.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// Sink receives notification events for one user. Implemented by the
// WebSocket hub; Send reports whether any connected client took it.
type Sink interface {
	Send(recipientID string, payload []byte) bool
}

// Dispatcher moves events from the bus to the sink. It runs as a
// supervised service.
type Dispatcher struct {
	bus  *Bus
	sink Sink
}

// NewDispatcher wires the bus to its delivery sink.
func NewDispatcher(bus *Bus, sink Sink) *Dispatcher {
	return &Dispatcher{bus: bus, sink: sink}
}

// Serve consumes the notification topic until the context is canceled.
func (d *Dispatcher) Serve(ctx context.Context) error {
	msgs, err := d.bus.Subscribe(ctx, Topic)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return ctx.Err()
			}
			if d.sink.Send(msg.Metadata.Get(recipientMetadataKey), msg.Payload) {
				metrics.NotificationsDispatched.Inc()
			} else {
				metrics.NotificationsDropped.Inc()
			}
			msg.Ack()
		}
	}
}

// busLogger adapts the zerolog-backed logging package to watermill.
type busLogger struct {
	fields watermill.LogFields
}

func (l busLogger) Error(msg string, err error, fields watermill.LogFields) {
	event := logging.Error().Err(err)
	addFields(event, l.fields, fields)
	event.Msg(msg)
}

func (l busLogger) Info(msg string, fields watermill.LogFields) {
	event := logging.Debug()
	addFields(event, l.fields, fields)
	event.Msg(msg)
}

func (l busLogger) Debug(msg string, fields watermill.LogFields) {
	event := logging.Debug()
	addFields(event, l.fields, fields)
	event.Msg(msg)
}

func (l busLogger) Trace(msg string, fields watermill.LogFields) {
	l.Debug(msg, fields)
}

func (l busLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return busLogger{fields: l.fields.Add(fields)}
}

func addFields(event *zerolog.Event, sets ...watermill.LogFields) {
	for _, fields := range sets {
		for k, v := range fields {
			event.Interface(k, v)
		}
	}
}
