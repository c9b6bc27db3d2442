// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/pricemap/internal/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokens(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testSecret, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return m
}

func TestNewTokenManager_Rejects(t *testing.T) {
	t.Parallel()
	if _, err := NewTokenManager("", time.Hour); err == nil {
		t.Error("empty secret accepted")
	}
	if _, err := NewTokenManager(testSecret, 0); err == nil {
		t.Error("zero ttl accepted")
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()
	m := newTestTokens(t)
	u := &models.User{ID: "u1", Email: "a@example.com", Role: models.RoleAdmin}

	token, exp, err := m.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if d := time.Until(exp); d < 29*24*time.Hour {
		t.Errorf("expiry in %v, want about 30 days", d)
	}
	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "u1" || claims.Email != "a@example.com" || claims.Role != models.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestVerify_Rejects(t *testing.T) {
	t.Parallel()
	m := newTestTokens(t)
	u := &models.User{ID: "u1", Role: models.RoleUser}
	good, _, err := m.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other, err := NewTokenManager(strings.Repeat("x", 32), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	foreign, _, _ := other.Issue(u)

	expired := newTestTokens(t)
	expired.now = func() time.Time { return time.Now().Add(-31 * 24 * time.Hour) }
	stale, _, _ := expired.Issue(u)

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer, Subject: "u1"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"tampered", good[:len(good)-2] + "xx"},
		{"wrong secret", foreign},
		{"expired", stale},
		{"alg none", none},
		{"no subject", noSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := m.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
