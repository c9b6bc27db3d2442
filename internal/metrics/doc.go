// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

/*
Package metrics provides Prometheus metrics collection and export.

The package provides metrics for:
  - HTTP request latency and throughput
  - Vote operations by type and outcome, reliability distribution, eliminations
  - Store transaction retries and exhausted conflicts
  - Listing queries
  - Event bus publishes and circuit breaker state
  - WebSocket connection counts
  - Logins

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:3000/metrics

All collectors are registered on the default registry through promauto, so
importing the package is enough to expose them.
*/
package metrics
