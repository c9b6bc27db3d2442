// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

/*
Package auth establishes who the caller is.

Users sign in with Google through an OpenID Connect relying party
(github.com/zitadel/oidc/v3). After the code exchange the user is upserted and
a session token is issued: an HS256 JWT whose subject is the user id, carrying
email and role. The token travels as the access_token cookie (HttpOnly,
SameSite=Lax) or as an Authorization Bearer header.

Middleware resolves the token into a Subject stored in the request context.
Downstream code only ever sees Subject.UserID, the opaque voter id.
*/
package auth
