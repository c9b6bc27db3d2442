// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package authz

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnforcer_EmbeddedPolicy(t *testing.T) {
	t.Parallel()
	e, err := NewEnforcer(EnforcerConfig{})
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}

	tests := []struct {
		role, object, action string
		want                 bool
	}{
		{"user", "/api/v1/properties", ActionWrite, true},
		{"user", "/api/v1/vote/abc", ActionWrite, true},
		{"user", "/api/v1/vote/abc", ActionDelete, true},
		{"user", "/api/v1/users/me/preferences", ActionWrite, true},
		{"user", "/api/v1/properties/abc", ActionDelete, false},
		{"admin", "/api/v1/properties/abc", ActionDelete, true},
		{"admin", "/api/v1/vote/abc", ActionWrite, true},
		{"", "/api/v1/vote/abc", ActionWrite, false},
		{"guest", "/api/v1/properties", ActionWrite, false},
		{"user", "/api/v1/vote/abc/extra", ActionWrite, false},
	}
	for _, tt := range tests {
		got, err := e.Enforce(tt.role, tt.object, tt.action)
		if err != nil {
			t.Fatalf("Enforce: %v", err)
		}
		if got != tt.want {
			t.Errorf("Enforce(%q, %q, %q) = %v, want %v", tt.role, tt.object, tt.action, got, tt.want)
		}
	}
}

func TestEnforcer_PolicyFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "policy.csv")
	if err := os.WriteFile(path, []byte("p, user, /api/v1/properties/:id, delete\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	e, err := NewEnforcer(EnforcerConfig{PolicyPath: path})
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	if ok, _ := e.Enforce("user", "/api/v1/properties/x", ActionDelete); !ok {
		t.Error("file policy not applied")
	}
	if ok, _ := e.Enforce("user", "/api/v1/properties", ActionWrite); ok {
		t.Error("embedded policy leaked into file policy")
	}

	if _, err := NewEnforcer(EnforcerConfig{PolicyPath: filepath.Join(t.TempDir(), "missing.csv")}); err == nil {
		t.Error("missing policy file accepted")
	}
}

func TestMethodToAction(t *testing.T) {
	t.Parallel()
	for method, want := range map[string]string{
		"GET": ActionRead, "HEAD": ActionRead, "OPTIONS": ActionRead,
		"POST": ActionWrite, "PUT": ActionWrite, "PATCH": ActionWrite,
		"DELETE": ActionDelete,
	} {
		if got := methodToAction(method); got != want {
			t.Errorf("methodToAction(%s) = %s, want %s", method, got, want)
		}
	}
}
