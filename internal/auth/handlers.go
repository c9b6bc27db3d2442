// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/pricemap/internal/logging"
	"github.com/tomtom215/pricemap/internal/metrics"
	"github.com/tomtom215/pricemap/internal/models"
	"github.com/tomtom215/pricemap/internal/users"
)

const providerGoogle = "google"

// Provisioner turns an identity provider profile into a local user.
type Provisioner interface {
	UpsertFromGoogle(ctx context.Context, prof users.GoogleProfile) (*models.User, error)
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Handlers serves the login, callback and logout endpoints.
type Handlers struct {
	provider    IdentityProvider
	users       Provisioner
	tokens      *TokenManager
	cookie      CookieConfig
	frontendURL string
	writeError  ErrorWriter
}

// NewHandlers creates the login handlers. provider may be nil when Google
// login is disabled; Login and Callback then answer 503.
func NewHandlers(provider IdentityProvider, u Provisioner, tokens *TokenManager, cookie CookieConfig, frontendURL string, writeError ErrorWriter) *Handlers {
	if writeError == nil {
		writeError = plainError
	}
	return &Handlers{
		provider:    provider,
		users:       u,
		tokens:      tokens,
		cookie:      cookie,
		frontendURL: frontendURL,
		writeError:  writeError,
	}
}

// Login redirects the browser to Google.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Google login is not configured")
		return
	}
	target, err := h.provider.AuthURL()
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to start login")
		h.writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Callback completes the Google login, issues the session cookie and
// redirects to the frontend.
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Google login is not configured")
		return
	}
	ctx := r.Context()
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		metrics.RecordLogin(providerGoogle, false)
		logging.Ctx(ctx).Info().Str("error", e).Msg("Google login declined")
		h.writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Login was not completed")
		return
	}

	profile, err := h.provider.Exchange(ctx, q.Get("code"), q.Get("state"))
	if err != nil {
		metrics.RecordLogin(providerGoogle, false)
		if errors.Is(err, ErrInvalidState) {
			h.writeError(w, r, http.StatusBadRequest, "INVALID_STATE", "Login state is invalid or expired")
			return
		}
		logging.Ctx(ctx).Warn().Err(err).Msg("Google code exchange failed")
		h.writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication failed")
		return
	}

	u, err := h.users.UpsertFromGoogle(ctx, profile)
	switch {
	case errors.Is(err, users.ErrInactive):
		metrics.RecordLogin(providerGoogle, false)
		h.writeError(w, r, http.StatusForbidden, "FORBIDDEN", "Account is not active")
		return
	case errors.Is(err, users.ErrInvalidProfile):
		metrics.RecordLogin(providerGoogle, false)
		h.writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Google account has no usable email")
		return
	case err != nil:
		metrics.RecordLogin(providerGoogle, false)
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to provision user")
		h.writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	token, expires, err := h.tokens.Issue(u)
	if err != nil {
		metrics.RecordLogin(providerGoogle, false)
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to issue session token")
		h.writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	h.setCookie(w, token, expires)
	metrics.RecordLogin(providerGoogle, true)
	http.Redirect(w, r, h.frontendURL, http.StatusFound)
}

// Logout clears the session cookie.
func (h *Handlers) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) setCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
