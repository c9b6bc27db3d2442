// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

// Package supervisor runs the long-lived parts of the server under a suture
// supervisor tree.
//
// The tree has three layers, each its own supervisor so a crash loop in one
// does not take the others down:
//
//	pricemap
//	├── data-layer       BadgerDB value log GC
//	├── messaging-layer  embedded NATS server, event forwarder, websocket hub
//	└── api-layer        HTTP server
//
// Supervisor events are logged through sutureslog.
package supervisor
