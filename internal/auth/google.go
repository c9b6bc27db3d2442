// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/zitadel/oidc/v3/pkg/client/rp"
	"github.com/zitadel/oidc/v3/pkg/oidc"

	"github.com/tomtom215/pricemap/internal/users"
)

// GoogleIssuer is Google's OpenID Connect issuer.
const GoogleIssuer = "https://accounts.google.com"

var (
	// ErrInvalidState means the callback state is unknown, reused or expired.
	ErrInvalidState = errors.New("invalid or expired login state")
	// ErrExchangeFailed means the authorization code could not be redeemed.
	ErrExchangeFailed = errors.New("token exchange failed")
)

// IdentityProvider runs the authorization code flow against an external
// identity provider.
type IdentityProvider interface {
	// AuthURL starts a login and returns where to send the browser.
	AuthURL() (string, error)
	// Exchange completes the login started with state.
	Exchange(ctx context.Context, code, state string) (users.GoogleProfile, error)
}

// GoogleConfig configures the relying party.
type GoogleConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	HTTPClient   *http.Client
	StateTTL     time.Duration
}

func (c *GoogleConfig) setDefaults() {
	if c.IssuerURL == "" {
		c.IssuerURL = GoogleIssuer
	}
	if len(c.Scopes) == 0 {
		c.Scopes = []string{oidc.ScopeOpenID, oidc.ScopeProfile, oidc.ScopeEmail}
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.StateTTL <= 0 {
		c.StateTTL = 10 * time.Minute
	}
}

// GoogleLogin is the Google relying party. Each login gets a one-time state
// and a PKCE verifier kept in memory until the callback.
type GoogleLogin struct {
	rp     rp.RelyingParty
	states *stateStore
}

// NewGoogleLogin performs OIDC discovery against the issuer.
func NewGoogleLogin(ctx context.Context, cfg GoogleConfig) (*GoogleLogin, error) {
	cfg.setDefaults()
	if cfg.ClientID == "" || cfg.RedirectURL == "" {
		return nil, fmt.Errorf("client id and redirect url are required")
	}
	relyingParty, err := rp.NewRelyingPartyOIDC(ctx,
		cfg.IssuerURL,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.RedirectURL,
		cfg.Scopes,
		rp.WithHTTPClient(cfg.HTTPClient),
		rp.WithVerifierOpts(rp.WithIssuedAtOffset(5*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("create relying party: %w", err)
	}
	return &GoogleLogin{rp: relyingParty, states: newStateStore(cfg.StateTTL)}, nil
}

// AuthURL implements IdentityProvider.
func (g *GoogleLogin) AuthURL() (string, error) {
	state, err := randomToken()
	if err != nil {
		return "", err
	}
	verifier, err := randomToken()
	if err != nil {
		return "", err
	}
	g.states.put(state, verifier)
	return rp.AuthURL(state, g.rp, rp.WithCodeChallenge(oidc.NewSHACodeChallenge(verifier))), nil
}

// Exchange implements IdentityProvider.
func (g *GoogleLogin) Exchange(ctx context.Context, code, state string) (users.GoogleProfile, error) {
	verifier, ok := g.states.take(state)
	if !ok {
		return users.GoogleProfile{}, ErrInvalidState
	}
	tokens, err := rp.CodeExchange[*oidc.IDTokenClaims](ctx, code, g.rp, rp.WithCodeVerifier(verifier))
	if err != nil {
		return users.GoogleProfile{}, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	claims := tokens.IDTokenClaims
	if claims == nil {
		return users.GoogleProfile{}, fmt.Errorf("%w: no id token", ErrExchangeFailed)
	}
	return users.GoogleProfile{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: bool(claims.EmailVerified),
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// maxPendingLogins bounds the state table against callback-less floods.
const maxPendingLogins = 10000

type pendingLogin struct {
	verifier string
	expires  time.Time
}

type stateStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	pending map[string]pendingLogin
	now     func() time.Time
}

func newStateStore(ttl time.Duration) *stateStore {
	return &stateStore{ttl: ttl, pending: make(map[string]pendingLogin), now: time.Now}
}

func (s *stateStore) put(state, verifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, p := range s.pending {
		if now.After(p.expires) {
			delete(s.pending, k)
		}
	}
	if len(s.pending) >= maxPendingLogins {
		for k := range s.pending {
			delete(s.pending, k)
			break
		}
	}
	s.pending[state] = pendingLogin{verifier: verifier, expires: now.Add(s.ttl)}
}

// take returns the verifier for state and forgets it.
func (s *stateStore) take(state string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[state]
	if !ok {
		return "", false
	}
	delete(s.pending, state)
	if s.now().After(p.expires) {
		return "", false
	}
	return p.verifier, true
}

func (s *stateStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
