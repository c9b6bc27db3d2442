// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/pricemap/internal/logging"
	"github.com/tomtom215/pricemap/internal/metrics"
)

// Backends.
const (
	BackendMemory = "memory"
	BackendNATS   = "nats"
)

// ErrBusClosed is returned by Publish and Subscribe after Close.
var ErrBusClosed = errors.New("event bus is closed")

// Config configures the bus.
type Config struct {
	Backend string
	Topic   string
	// BreakerTimeout is how long the breaker stays open before probing again.
	BreakerTimeout time.Duration
	// BreakerFailures is the number of consecutive publish failures that trip it.
	BreakerFailures uint32
	NATS            NATSConfig
}

// Bus publishes and subscribes to property events on one topic.
type Bus struct {
	backend    string
	topic      string
	publisher  message.Publisher
	subscriber message.Subscriber
	breaker    *gobreaker.CircuitBreaker[interface{}]
	closers    []func() error

	mu     sync.RWMutex
	closed bool
}

// NewBus builds the transport selected by cfg.Backend.
func NewBus(ctx context.Context, cfg Config) (*Bus, error) {
	if cfg.Topic == "" {
		return nil, fmt.Errorf("event topic is required")
	}
	logger := watermill.NewSlogLogger(logging.NewSlogLoggerWithComponent("watermill"))

	b := &Bus{
		backend: cfg.Backend,
		topic:   cfg.Topic,
		breaker: newBreaker("events-publish", cfg.BreakerFailures, cfg.BreakerTimeout),
	}

	switch cfg.Backend {
	case BackendMemory, "":
		b.backend = BackendMemory
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, logger)
		b.publisher = ch
		b.subscriber = ch
		b.closers = []func() error{ch.Close}

	case BackendNATS:
		if err := ensureStream(ctx, cfg.NATS, cfg.Topic); err != nil {
			return nil, err
		}
		pub, err := newNATSPublisher(cfg.NATS, logger)
		if err != nil {
			return nil, err
		}
		sub, err := newNATSSubscriber(cfg.NATS, logger)
		if err != nil {
			_ = pub.Close()
			return nil, err
		}
		b.publisher = pub
		b.subscriber = sub
		b.closers = []func() error{pub.Close, sub.Close}

	default:
		return nil, fmt.Errorf("unknown event backend %q", cfg.Backend)
	}

	logging.Info().Str("backend", b.backend).Str("topic", b.topic).Msg("Event bus ready")
	return b, nil
}

// Backend reports the transport in use.
func (b *Bus) Backend() string { return b.backend }

// BreakerState reports the publish circuit breaker state (closed, half-open, open).
func (b *Bus) BreakerState() string { return b.breaker.State().String() }

// Publish sends e through the circuit breaker.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	data, err := Marshal(e)
	if err != nil {
		return err
	}
	msg := message.NewMessage(e.ID, data)
	msg.Metadata.Set("event_type", string(e.Type))
	msg.Metadata.Set("property_id", e.PropertyID)
	if b.backend == BackendNATS {
		// JetStream deduplicates on the event id.
		msg.Metadata.Set(natsgo.MsgIdHdr, e.ID)
	}
	msg.SetContext(ctx)

	_, err = b.breaker.Execute(func() (interface{}, error) {
		return nil, b.publisher.Publish(b.topic, msg)
	})
	metrics.RecordEventPublish(string(e.Type), err)
	if err != nil {
		return fmt.Errorf("publish %s for %s: %w", e.Type, e.PropertyID, err)
	}
	return nil
}

// Subscribe returns the message stream for the bus topic. Handlers must Ack
// every message.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrBusClosed
	}
	return b.subscriber.Subscribe(ctx, b.topic)
}

// Close releases the transport. It is safe to call more than once.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	for _, c := range b.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
