// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

/*
Package events carries committed property changes to interested parties.

Writers (vote coordinator, submission service, admin removal) publish an Event
after their transaction commits. The Bus is a thin layer over Watermill with two
transports:

  - memory: Watermill's GoChannel pub/sub, for single-instance deployments
  - nats: NATS JetStream through watermill-nats, optionally against an
    embedded nats-server so no external broker is needed

Publishing goes through a gobreaker circuit breaker. Events are notifications,
not the source of truth: a failed publish is logged and counted but never fails
the write that produced it.

The Forwarder subscribes to the bus and relays every event to the websocket hub.
*/
package events
