// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

/*
Package middleware provides the infrastructure middleware shared by every
route: request ids, access logging and Prometheus instrumentation.

All middleware has the chi signature func(http.Handler) http.Handler. Response
writers are wrapped with chi's WrapResponseWriter so websocket upgrades
(http.Hijacker) keep working underneath.

The usual order is:

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)

Metrics are labelled with the chi route pattern, not the raw path, so
/api/v1/vote/{propertyId} is one series regardless of how many properties
exist.
*/
package middleware
