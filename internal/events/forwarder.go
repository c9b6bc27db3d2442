// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package events

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/pricemap/internal/logging"
	"github.com/tomtom215/pricemap/internal/metrics"
)

// Broadcaster receives every event; websocket.Hub implements it.
type Broadcaster interface {
	Broadcast(messageType string, data []byte)
}

// Forwarder relays bus events to a Broadcaster. It is a suture service: Serve
// returns an error when the subscription ends so the supervisor resubscribes.
type Forwarder struct {
	bus    *Bus
	target Broadcaster
}

// NewForwarder creates a forwarder from bus to target.
func NewForwarder(bus *Bus, target Broadcaster) *Forwarder {
	return &Forwarder{bus: bus, target: target}
}

// Serve implements suture.Service.
func (f *Forwarder) Serve(ctx context.Context) error {
	msgs, err := f.bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	logging.Info().Str("backend", f.bus.Backend()).Msg("Event forwarder subscribed")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.New("event subscription closed")
			}
			f.handle(msg)
		}
	}
}

// String implements fmt.Stringer for the supervisor.
func (f *Forwarder) String() string { return "events-forwarder" }

func (f *Forwarder) handle(msg *message.Message) {
	// Undecodable messages are acked and dropped; redelivery cannot fix them.
	defer msg.Ack()

	e, err := Unmarshal(msg.Payload)
	if err != nil {
		logging.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping malformed event")
		return
	}
	f.target.Broadcast(string(e.Type), msg.Payload)
	metrics.RecordEventForwarded(string(e.Type))
	logging.Debug().
		Str("event_type", string(e.Type)).
		Str("property_id", e.PropertyID).
		Msg("Event forwarded")
}
