// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package websocket

import (
	"context"
	"errors"
	"testing"
	"time"
)

func startHub(t *testing.T, sendBuffer int) (*Hub, context.CancelFunc, <-chan error) {
	t.Helper()
	hub := NewHub(sendBuffer)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()
	t.Cleanup(cancel)
	return hub, cancel, done
}

func testClient(hub *Hub) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, hub.sendBuffer)}
}

func receive(t *testing.T, c *Client) (Message, bool) {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		return msg, ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}, false
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	t.Parallel()
	hub, _, _ := startHub(t, 8)

	a, b := testClient(hub), testClient(hub)
	hub.Register <- a
	hub.Register <- b

	hub.BroadcastJSON("property_updated", map[string]string{"id": "p1"})

	for _, c := range []*Client{a, b} {
		msg, ok := receive(t, c)
		if !ok {
			t.Fatal("client channel closed")
		}
		if msg.Type != "property_updated" || string(msg.Data) != `{"id":"p1"}` {
			t.Errorf("message = %s %s", msg.Type, msg.Data)
		}
	}
	if n := hub.GetClientCount(); n != 2 {
		t.Errorf("GetClientCount = %d, want 2", n)
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	t.Parallel()
	hub, _, _ := startHub(t, 8)

	c := testClient(hub)
	hub.Register <- c
	hub.Unregister <- c

	if _, ok := receive(t, c); ok {
		t.Error("send channel still open after unregister")
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	t.Parallel()
	hub, _, _ := startHub(t, 1)

	slow := testClient(hub)
	hub.Register <- slow

	hub.Broadcast("property_created", []byte(`{}`))
	hub.Broadcast("property_created", []byte(`{}`))

	deadline := time.Now().Add(time.Second)
	for hub.GetClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client was not dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	t.Parallel()
	hub, cancel, done := startHub(t, 8)

	c := testClient(hub)
	hub.Register <- c
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	if _, ok := <-c.send; ok {
		t.Error("client channel open after shutdown")
	}
	if hub.GetClientCount() != 0 {
		t.Error("clients remain after shutdown")
	}
}

func TestHub_String(t *testing.T) {
	t.Parallel()
	if got := NewHub(0).String(); got != "websocket-hub" {
		t.Errorf("String() = %q", got)
	}
}
