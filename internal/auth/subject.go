// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package auth

import (
	"context"

	"github.com/tomtom215/pricemap/internal/models"
)

// Subject is the authenticated caller.
type Subject struct {
	UserID string
	Email  string
	Role   string
}

// IsAdmin reports whether the caller holds the admin role.
func (s *Subject) IsAdmin() bool { return s != nil && s.Role == models.RoleAdmin }

type subjectKey struct{}

// WithSubject returns a context carrying s.
func WithSubject(ctx context.Context, s *Subject) context.Context {
	return context.WithValue(ctx, subjectKey{}, s)
}

// SubjectFromContext returns the caller, or nil for anonymous requests.
func SubjectFromContext(ctx context.Context) *Subject {
	s, _ := ctx.Value(subjectKey{}).(*Subject)
	return s
}

func subjectFromClaims(c *Claims) *Subject {
	return &Subject{UserID: c.Subject, Email: c.Email, Role: c.Role}
}
