// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/pricemap/internal/auth"
)

func TestAuthorizeRequest(t *testing.T) {
	t.Parallel()
	e, err := NewEnforcer(EnforcerConfig{})
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	mw := NewMiddleware(e, nil)
	h := mw.AuthorizeRequest(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name    string
		subject *auth.Subject
		method  string
		path    string
		want    int
	}{
		{"anonymous", nil, http.MethodDelete, "/api/v1/properties/p1", http.StatusUnauthorized},
		{"user delete", &auth.Subject{UserID: "u", Role: "user"}, http.MethodDelete, "/api/v1/properties/p1", http.StatusForbidden},
		{"admin delete", &auth.Subject{UserID: "a", Role: "admin"}, http.MethodDelete, "/api/v1/properties/p1", http.StatusNoContent},
		{"user vote", &auth.Subject{UserID: "u", Role: "user"}, http.MethodPost, "/api/v1/vote/p1", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.subject != nil {
				req = req.WithContext(auth.WithSubject(req.Context(), tt.subject))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
