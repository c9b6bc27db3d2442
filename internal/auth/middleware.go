// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pricemap/internal/logging"
	"github.com/tomtom215/pricemap/internal/models"
	"github.com/tomtom215/pricemap/internal/users"
)

// ErrorWriter renders an error response. The API layer supplies one so auth
// failures use the same envelope as every other error.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, code, message string)

// UserLookup loads the account behind a token.
type UserLookup interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

// Middleware authenticates requests from the session cookie or a Bearer token.
type Middleware struct {
	tokens     *TokenManager
	cookieName string
	users      UserLookup
	writeError ErrorWriter
}

// NewMiddleware creates authentication middleware. users may be nil, in which
// case token claims are trusted without checking account status.
func NewMiddleware(tokens *TokenManager, cookieName string, users UserLookup, writeError ErrorWriter) *Middleware {
	if writeError == nil {
		writeError = plainError
	}
	return &Middleware{tokens: tokens, cookieName: cookieName, users: users, writeError: writeError}
}

// Authenticate attaches the Subject when the request carries a valid token.
// Requests without one pass through anonymously.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := m.tokenFromRequest(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := m.tokens.Verify(raw)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Ignoring invalid session token")
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subjectFromClaims(claims))))
	})
}

// RequireAuth rejects anonymous callers with 401 and inactive accounts with
// 403. It must run after Authenticate.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := SubjectFromContext(r.Context())
		if subject == nil {
			m.writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		if m.users == nil {
			next.ServeHTTP(w, r)
			return
		}

		u, err := m.users.Get(r.Context(), subject.UserID)
		switch {
		case errors.Is(err, users.ErrNotFound):
			m.writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		case err != nil:
			logging.Ctx(r.Context()).Error().Err(err).Str("user_id", subject.UserID).Msg("Failed to load user")
			m.writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			return
		case !u.Active():
			m.writeError(w, r, http.StatusForbidden, "FORBIDDEN", "Account is "+string(u.Status))
			return
		}

		// The stored role wins over the one baked into the token.
		current := &Subject{UserID: u.ID, Email: u.Email, Role: u.Role}
		next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), current)))
	})
}

func (m *Middleware) tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(m.cookieName); err == nil {
		return c.Value
	}
	return ""
}

func plainError(w http.ResponseWriter, _ *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   map[string]string{"code": code, "message": message},
	})
}
