// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

/*
Package validation validates request structs with go-playground/validator v10.

A single validator instance is shared process-wide; it caches struct metadata
and is safe for concurrent use. Field names in errors are the JSON names the
client sent, not Go field names.

Custom tags:

  - lonlat: a [2]float64 of longitude in [-180,180] and latitude in [-90,90]
  - notfuture: an integer year that is not after the current year

Request types may implement Messenger to replace the generic messages with
their own wording per JSON field:

	func (r *SubmitRequest) ValidationMessages() map[string]string {
	    return map[string]string{"price": "Price must be a positive number"}
	}

Failures are returned as *RequestValidationError, which the API layer renders
as a VALIDATION_FAILED response with one detail per field.
*/
package validation
