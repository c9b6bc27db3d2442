// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/pricemap/internal/models"
)

type recordingBroadcaster struct {
	mu   sync.Mutex
	got  []string
	seen chan struct{}
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{seen: make(chan struct{}, 16)}
}

func (r *recordingBroadcaster) Broadcast(messageType string, _ []byte) {
	r.mu.Lock()
	r.got = append(r.got, messageType)
	r.mu.Unlock()
	select {
	case r.seen <- struct{}{}:
	default:
	}
}

func (r *recordingBroadcaster) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}

func newMemoryBus(t *testing.T) *Bus {
	t.Helper()
	bus, err := NewBus(context.Background(), Config{Backend: BackendMemory, Topic: "test.properties"})
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

func TestNewBus_Errors(t *testing.T) {
	t.Parallel()
	if _, err := NewBus(context.Background(), Config{Backend: BackendMemory}); err == nil {
		t.Error("expected error for empty topic")
	}
	if _, err := NewBus(context.Background(), Config{Backend: "kafka", Topic: "t"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestBus_PublishSubscribe(t *testing.T) {
	t.Parallel()
	bus := newMemoryBus(t)
	if bus.Backend() != BackendMemory {
		t.Errorf("Backend() = %q", bus.Backend())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	msgs, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	e := NewPropertyEvent(PropertyCreated, &models.Property{ID: "p1"})
	if err := bus.Publish(ctx, e); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case msg := <-msgs:
		msg.Ack()
		if msg.UUID != e.ID || msg.Metadata.Get("event_type") != string(PropertyCreated) {
			t.Errorf("message = %s %v", msg.UUID, msg.Metadata)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestBus_RejectsInvalidEvent(t *testing.T) {
	t.Parallel()
	bus := newMemoryBus(t)
	if err := bus.Publish(context.Background(), Event{Type: PropertyUpdated}); err == nil {
		t.Error("expected validation error")
	}
}

func TestBus_Closed(t *testing.T) {
	t.Parallel()
	bus := newMemoryBus(t)
	if err := bus.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	err := bus.Publish(context.Background(), NewRemovedEvent("p1", ReasonAdmin))
	if !errors.Is(err, ErrBusClosed) {
		t.Errorf("Publish after close = %v, want ErrBusClosed", err)
	}
	if _, err := bus.Subscribe(context.Background()); !errors.Is(err, ErrBusClosed) {
		t.Errorf("Subscribe after close = %v, want ErrBusClosed", err)
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, ...*message.Message) error { return errors.New("broker down") }
func (failingPublisher) Close() error                              { return nil }

func TestBus_BreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()
	bus := &Bus{
		backend:   BackendMemory,
		topic:     "t",
		publisher: failingPublisher{},
		breaker:   newBreaker("test-breaker", 2, time.Minute),
	}

	e := NewRemovedEvent("p1", ReasonAdmin)
	for i := 0; i < 2; i++ {
		if err := bus.Publish(context.Background(), e); err == nil {
			t.Fatal("expected publish error")
		}
	}
	if got := bus.BreakerState(); got != "open" {
		t.Errorf("BreakerState() = %q, want open", got)
	}
}

func TestForwarder_RelaysEvents(t *testing.T) {
	t.Parallel()
	bus := newMemoryBus(t)
	target := newRecordingBroadcaster()
	fwd := NewForwarder(bus, target)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fwd.Serve(ctx) }()

	// The GoChannel backend drops messages published before a subscriber exists.
	published := false
	deadline := time.Now().Add(2 * time.Second)
	for !published && time.Now().Before(deadline) {
		if err := bus.Publish(ctx, NewRemovedEvent("p1", ReasonEliminated)); err != nil {
			t.Fatalf("Publish: %v", err)
		}
		select {
		case <-target.seen:
			published = true
		case <-time.After(50 * time.Millisecond):
		}
	}
	if !published {
		t.Fatal("forwarder never relayed an event")
	}
	if got := target.types(); got[0] != string(PropertyRemoved) {
		t.Errorf("broadcast types = %v", got)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("forwarder did not stop")
	}
	if fwd.String() != "events-forwarder" {
		t.Errorf("String() = %q", fwd.String())
	}
}
