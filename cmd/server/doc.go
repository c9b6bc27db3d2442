// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

// Package main is the Pricemap API server.
//
// Pricemap is a crowd-sourced real estate price map. Users submit listings and
// vote on whether a listed price is lower than, equal to or higher than the
// market. Disputes lower a listing's reliability score; a dispute against a
// listing that is already at the elimination threshold removes it.
//
// # Startup
//
//  1. Configuration: defaults, optional config.yaml, environment (koanf)
//  2. Store: BadgerDB (default) or MongoDB replica set
//  3. Events: in-memory watermill channel, or NATS JetStream (optionally embedded)
//  4. Services: vote coordinator, listing, submission, users
//  5. Auth: JWT sessions, Google OpenID Connect login, casbin authorization
//  6. Supervisor tree: store GC, event forwarder, websocket hub, HTTP server
//
// SIGINT and SIGTERM stop the tree; in-flight requests get SERVER_SHUTDOWN_TIMEOUT
// to finish before the store is closed.
//
// # Example
//
//	export STORE_BACKEND=badger BADGER_PATH=/data/pricemap
//	export GOOGLE_AUTH_ENABLED=true GOOGLE_CLIENT_ID=... GOOGLE_CLIENT_SECRET=...
//	export JWT_SECRET=$(openssl rand -base64 48)
//	./pricemap
//
// @title Pricemap API
// @version 1.0
// @description Crowd-sourced real estate price map: listings, votes and reliability.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/pricemap/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @BasePath /
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT issued by the Google login, sent as the access_token cookie or a Bearer header.
package main
