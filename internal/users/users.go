// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

// Package users manages accounts created through Google sign-in.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/pricemap/internal/logging"
	"github.com/tomtom215/pricemap/internal/models"
	"github.com/tomtom215/pricemap/internal/store"
	"github.com/tomtom215/pricemap/internal/validation"
)

var (
	// ErrNotFound means no such user.
	ErrNotFound = errors.New("user not found")
	// ErrInactive means the account is suspended or banned.
	ErrInactive = errors.New("user account is not active")
	// ErrInvalidProfile means the identity provider returned no usable identity.
	ErrInvalidProfile = errors.New("invalid identity profile")
)

// Store is the persistence the service needs.
type Store interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	SaveUser(ctx context.Context, u *models.User) error
	ListVotesByVoter(ctx context.Context, voterID string) ([]models.UserVote, error)
}

// GoogleProfile is what the OIDC userinfo/id token says about a user.
type GoogleProfile struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// PreferencesRequest is a partial preferences update; empty fields are left alone.
type PreferencesRequest struct {
	Currency          string `json:"currency,omitempty" validate:"omitempty,oneof=EUR USD GBP"`
	MeasurementSystem string `json:"measurementSystem,omitempty" validate:"omitempty,oneof=metric imperial"`
}

// Service manages users.
type Service struct {
	store  Store
	admins map[string]bool
	now    func() time.Time
}

// NewService creates a Service. Users signing in with one of adminEmails get
// the admin role.
func NewService(s Store, adminEmails []string) *Service {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = true
		}
	}
	return &Service{store: s, admins: admins, now: func() time.Time { return time.Now().UTC() }}
}

// UpsertFromGoogle finds the user by Google id, then by email, or registers a
// new one, and records the login. Profiles without a verified email are
// refused with ErrInvalidProfile, inactive accounts with ErrInactive.
func (s *Service) UpsertFromGoogle(ctx context.Context, prof GoogleProfile) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(prof.Email))
	if prof.Subject == "" || email == "" {
		return nil, fmt.Errorf("%w: subject and email are required", ErrInvalidProfile)
	}
	// The email links identities and grants admin, so only a verified one counts.
	if !prof.EmailVerified {
		logging.Ctx(ctx).Warn().Str("google_id", prof.Subject).Msg("Login with unverified email refused")
		return nil, fmt.Errorf("%w: email is not verified", ErrInvalidProfile)
	}

	u, err := s.store.GetUserByGoogleID(ctx, prof.Subject)
	if errors.Is(err, store.ErrUserNotFound) {
		u, err = s.store.GetUserByEmail(ctx, email)
	}
	isNew := false
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		isNew = true
		u = &models.User{
			ID:          uuid.NewString(),
			Role:        models.RoleUser,
			Status:      models.UserActive,
			Preferences: models.DefaultPreferences(),
			CreatedAt:   s.now(),
		}
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !u.Active() {
		logging.Ctx(ctx).Warn().Str("user_id", u.ID).Str("status", string(u.Status)).Msg("Inactive user attempted login")
		return nil, ErrInactive
	}

	u.GoogleID = prof.Subject
	u.Email = email
	if prof.Name != "" {
		u.DisplayName = prof.Name
	}
	if prof.Picture != "" {
		u.ProfilePicture = prof.Picture
	}
	if s.admins[email] {
		u.Role = models.RoleAdmin
	}
	u.LastLogin = s.now()

	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	logging.Ctx(ctx).Info().
		Str("user_id", u.ID).
		Bool("new_user", isNew).
		Str("role", u.Role).
		Msg("User signed in")
	return u, nil
}

// Get returns the user with id.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdatePreferences applies req to the user's preferences. Validation
// failures are returned as *validation.RequestValidationError.
func (s *Service) UpdatePreferences(ctx context.Context, id string, req PreferencesRequest) (*models.User, error) {
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Currency != "" {
		u.Preferences.Currency = models.Currency(req.Currency)
	}
	if req.MeasurementSystem != "" {
		u.Preferences.MeasurementSystem = models.MeasurementSystem(req.MeasurementSystem)
	}
	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}
	return u, nil
}

// Votes lists the properties the user has voted on.
func (s *Service) Votes(ctx context.Context, id string) ([]models.UserVote, error) {
	votes, err := s.store.ListVotesByVoter(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	return votes, nil
}
