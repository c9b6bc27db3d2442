// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

/*
Package api is the HTTP surface of Pricemap, built on chi.

Route groups:

	/api/health                    store, event bus and websocket status
	/metrics                       Prometheus exposition
	/swagger/*                     OpenAPI document and UI
	/api/v1/auth/...               Google login, callback, logout
	/api/v1/properties...          listing queries, GeoJSON, submission, admin removal
	/api/v1/vote/{propertyId}      own vote lookup, add, remove
	/api/v1/users/me...            profile, own votes, preferences
	/api/v1/ws                     live property updates

Every JSON response except the GeoJSON feed uses the envelope

	{"success": bool, "data": ..., "error": {"code", "message", "details"}, "meta": {"timestamp", "request_id"}}

Domain errors are mapped in one place (writeServiceError): not found 404,
duplicate vote 409, validation 400, storage contention 503 with Retry-After,
anything else 500 without internal detail.
*/
package api
