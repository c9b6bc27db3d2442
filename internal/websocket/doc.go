// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

/*
Package websocket pushes live property changes to connected map clients.

A Hub owns the set of connected clients; each Client runs a read pump and a
write pump. The hub is fed by the events forwarder, so every server instance
relays every committed change to its own clients:

	events.Bus -> events.Forwarder -> Hub -> Client (x N)

Message types sent to clients:

  - property_created: a listing was submitted
  - property_updated: a vote changed a listing's reliability or review count
  - property_removed: a listing was eliminated or deleted by an admin
  - pong: reply to a client "ping"

Frames are JSON objects of the form {"type": "...", "data": {...}}.

The hub is run under the supervisor tree through RunWithContext and closes every
client when its context ends.
*/
package websocket
