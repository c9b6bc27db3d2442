// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

/*
Package authz decides what an authenticated caller may do, using Casbin RBAC.

Subjects are roles (user, admin), objects are request paths matched with
keyMatch2, and actions are derived from the HTTP method:

	GET, HEAD, OPTIONS  -> read
	POST, PUT, PATCH    -> write
	DELETE              -> delete

The admin role inherits every user permission and may additionally delete
properties. The model and default policy are embedded; both can be replaced
from files.
*/
package authz
