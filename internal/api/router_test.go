// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pricemap/internal/auth"
	"github.com/tomtom215/pricemap/internal/authz"
	"github.com/tomtom215/pricemap/internal/listing"
	"github.com/tomtom215/pricemap/internal/models"
	"github.com/tomtom215/pricemap/internal/reliability"
	"github.com/tomtom215/pricemap/internal/store"
	"github.com/tomtom215/pricemap/internal/submission"
	"github.com/tomtom215/pricemap/internal/users"
	"github.com/tomtom215/pricemap/internal/vote"
	"github.com/tomtom215/pricemap/internal/websocket"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testServer struct {
	handler http.Handler
	store   *store.BadgerStore
	tokens  *auth.TokenManager
	user    string
	admin   string
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *APIMeta `json:"meta"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s, err := store.OpenBadger(store.BadgerConfig{
		InMemory: true,
		Retry:    store.RetryPolicy{MaxAttempts: 20, Backoff: time.Millisecond},
	})
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	tokens, err := auth.NewTokenManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	enforcer, err := authz.NewEnforcer(authz.EnforcerConfig{})
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}

	userSvc := users.NewService(s, []string{"admin@example.com"})
	ctx := context.Background()
	u, err := userSvc.UpsertFromGoogle(ctx, users.GoogleProfile{EmailVerified: true, Subject: "g-user", Email: "user@example.com", Name: "User"})
	if err != nil {
		t.Fatalf("UpsertFromGoogle: %v", err)
	}
	a, err := userSvc.UpsertFromGoogle(ctx, users.GoogleProfile{EmailVerified: true, Subject: "g-admin", Email: "admin@example.com", Name: "Admin"})
	if err != nil {
		t.Fatalf("UpsertFromGoogle: %v", err)
	}

	hub := websocket.NewHub(8)
	deps := Dependencies{
		Votes:          vote.NewCoordinator(s, reliability.Default(), nil),
		Listings:       listing.NewService(s),
		Submissions:    submission.NewService(s, nil),
		Users:          userSvc,
		Store:          s,
		Hub:            hub,
		AuthHandlers:   auth.NewHandlers(nil, userSvc, tokens, auth.CookieConfig{Name: "access_token"}, "http://localhost:5173", WriteError),
		AuthMiddleware: auth.NewMiddleware(tokens, "access_token", userSvc, WriteError),
		Authorizer:     authz.NewMiddleware(enforcer, WriteError),
		Edge:           EdgeConfig{CORSOrigins: []string{"http://localhost:5173"}},
		Version:        "test",
	}
	return &testServer{
		handler: NewRouter(deps).Handler(),
		store:   s,
		tokens:  tokens,
		user:    u.ID,
		admin:   a.ID,
	}
}

func (ts *testServer) token(t *testing.T, id string) string {
	t.Helper()
	u, err := ts.store.GetUser(context.Background(), id)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	tok, _, err := ts.tokens.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return tok
}

// do sends a request as userID ("" for anonymous) and decodes the envelope.
func (ts *testServer) do(t *testing.T, method, path, userID string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token(t, userID))
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env envelope
	if ct := rec.Header().Get("Content-Type"); ct == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, env
}

func (ts *testServer) seed(t *testing.T, p models.Property) {
	t.Helper()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if err := ts.store.CreateProperty(context.Background(), &p); err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}
}

func validSubmission() map[string]interface{} {
	return map[string]interface{}{
		"geometry":  map[string]interface{}{"type": "Point", "coordinates": []float64{2.35, 48.85}},
		"price":     250000,
		"type":      "Apartment",
		"size":      50,
		"rooms":     2,
		"yearBuilt": 1990,
		"status":    "Buy",
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	rec, env := ts.do(t, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var hs HealthStatus
	if err := json.Unmarshal(env.Data, &hs); err != nil {
		t.Fatal(err)
	}
	if hs.Status != "ok" || hs.Store.Backend != "badger" || hs.WebSocket == nil || hs.Version != "test" {
		t.Errorf("health = %+v", hs)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
	if env.Meta == nil || env.Meta.RequestID == "" {
		t.Error("meta.request_id missing")
	}
}

func TestListProperties(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/properties", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if string(env.Data) != `{"minPrice":0,"maxPrice":0,"data":[]}` {
		t.Errorf("empty listing = %s", env.Data)
	}

	ts.seed(t, models.Property{ID: "a", Price: 100, Type: models.PropertyTypeHouse, Status: models.StatusBuy, Rooms: 3, Reliability: 100})
	ts.seed(t, models.Property{ID: "b", Price: 300, Type: models.PropertyTypeApartment, Status: models.StatusBuy, Rooms: 1, Reliability: 100})
	ts.seed(t, models.Property{ID: "c", Price: 900, Type: models.PropertyTypeApartment, Status: models.StatusRent, Rooms: 5, Reliability: 100})

	rec, env = ts.do(t, http.MethodGet, "/api/v1/properties?status=Buy&rooms=3%2B", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var res listing.Result
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Data) != 1 || res.Data[0].ID != "a" || res.MinPrice != 100 || res.MaxPrice != 100 {
		t.Errorf("result = %+v", res)
	}

	rec, env = ts.do(t, http.MethodGet, "/api/v1/properties?status=Sold", "", nil)
	if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != ErrCodeValidationFailed {
		t.Errorf("bad filter: status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestPropertiesGeoJSON(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.seed(t, models.Property{ID: "a", Geometry: models.NewGeoPoint(2.35, 48.85), Price: 100, Type: models.PropertyTypeHouse, Status: models.StatusBuy, Rooms: 3, Reliability: 100})

	rec, _ := ts.do(t, http.MethodGet, "/api/v1/properties/geojson", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/geo+json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var fc models.FeatureCollection
	if err := json.Unmarshal(rec.Body.Bytes(), &fc); err != nil {
		t.Fatal(err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 1 || fc.Features[0].Properties.ID != "a" {
		t.Errorf("feature collection = %+v", fc)
	}
}

func TestGetProperty(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.seed(t, models.Property{ID: "a", Price: 100, Reliability: 100})

	rec, env := ts.do(t, http.MethodGet, "/api/v1/properties/a", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var p models.Property
	if err := json.Unmarshal(env.Data, &p); err != nil || p.ID != "a" {
		t.Errorf("property = %+v, err = %v", p, err)
	}

	rec, env = ts.do(t, http.MethodGet, "/api/v1/properties/missing", "", nil)
	if rec.Code != http.StatusNotFound || env.Error.Code != ErrCodeNotFound || env.Error.Message != msgPropertyNotFound {
		t.Errorf("missing: status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestCreateProperty(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/properties", "", validSubmission())
	if rec.Code != http.StatusUnauthorized || env.Error.Code != ErrCodeUnauthorized {
		t.Fatalf("anonymous: status = %d, error = %+v", rec.Code, env.Error)
	}

	rec, env = ts.do(t, http.MethodPost, "/api/v1/properties", ts.user, validSubmission())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var p models.Property
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatal(err)
	}
	if p.Reliability != reliability.Max || p.ReviewCount != 0 || p.PricePerSquareMeter != 5000 || p.SubmittedBy != ts.user {
		t.Errorf("created = %+v", p)
	}

	bad := validSubmission()
	bad["price"] = -1
	bad["status"] = "Sold"
	rec, env = ts.do(t, http.MethodPost, "/api/v1/properties", ts.user, bad)
	if rec.Code != http.StatusBadRequest || env.Error.Code != ErrCodeValidationFailed {
		t.Fatalf("invalid: status = %d, error = %+v", rec.Code, env.Error)
	}
	if env.Error.Details["price"] != "Price must be a positive number" || env.Error.Details["status"] == "" {
		t.Errorf("details = %v", env.Error.Details)
	}

	rec, env = ts.do(t, http.MethodPost, "/api/v1/properties", ts.user, `{"price":`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != ErrCodeBadRequest {
		t.Errorf("malformed: status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestVoteFlow(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.seed(t, models.Property{ID: "p", Price: 100, Reliability: 100})
	path := "/api/v1/vote/p"

	rec, env := ts.do(t, http.MethodGet, path, ts.user, nil)
	if rec.Code != http.StatusOK || string(env.Data) != `{"vote":null}` {
		t.Fatalf("no vote yet: status = %d, data = %s", rec.Code, env.Data)
	}

	rec, env = ts.do(t, http.MethodPost, path, ts.user, map[string]string{"voteType": "lower"})
	if rec.Code != http.StatusOK {
		t.Fatalf("add: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var vr voteResponse
	if err := json.Unmarshal(env.Data, &vr); err != nil {
		t.Fatal(err)
	}
	if vr.Eliminated || vr.Property == nil || vr.Property.Reliability != 98 || vr.Property.ReviewCount != 1 {
		t.Errorf("add response = %+v", vr)
	}

	rec, env = ts.do(t, http.MethodPost, path, ts.user, map[string]string{"voteType": "equal"})
	if rec.Code != http.StatusConflict || env.Error.Code != ErrCodeConflict || env.Error.Message != msgDuplicateVote {
		t.Errorf("duplicate: status = %d, error = %+v", rec.Code, env.Error)
	}

	rec, env = ts.do(t, http.MethodGet, path, ts.user, nil)
	var lookup struct {
		Vote *models.Vote `json:"vote"`
	}
	if err := json.Unmarshal(env.Data, &lookup); err != nil || lookup.Vote == nil || lookup.Vote.VoteType != models.VoteLower {
		t.Errorf("lookup = %s (status %d)", env.Data, rec.Code)
	}

	rec, env = ts.do(t, http.MethodDelete, path, ts.user, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: status = %d", rec.Code)
	}
	vr = voteResponse{}
	if err := json.Unmarshal(env.Data, &vr); err != nil {
		t.Fatal(err)
	}
	if vr.Property == nil || vr.Property.Reliability != 100 || vr.Property.ReviewCount != 0 {
		t.Errorf("remove response = %+v", vr)
	}

	rec, env = ts.do(t, http.MethodDelete, path, ts.user, nil)
	if rec.Code != http.StatusNotFound || env.Error.Message != msgVoteNotFound {
		t.Errorf("second remove: status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestVote_Errors(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.seed(t, models.Property{ID: "p", Reliability: 100})

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   interface{}
		status int
		code   string
	}{
		{"anonymous", http.MethodPost, "/api/v1/vote/p", "", map[string]string{"voteType": "equal"}, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"bad type", http.MethodPost, "/api/v1/vote/p", "user", map[string]string{"voteType": "maybe"}, http.StatusBadRequest, ErrCodeValidationFailed},
		{"unknown field", http.MethodPost, "/api/v1/vote/p", "user", map[string]string{"vote": "equal"}, http.StatusBadRequest, ErrCodeBadRequest},
		{"missing property", http.MethodPost, "/api/v1/vote/nope", "user", map[string]string{"voteType": "equal"}, http.StatusNotFound, ErrCodeNotFound},
		{"lookup missing property", http.MethodGet, "/api/v1/vote/nope", "user", nil, http.StatusNotFound, ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := ""
			if tt.user != "" {
				user = ts.user
			}
			rec, env := ts.do(t, tt.method, tt.path, user, tt.body)
			if rec.Code != tt.status || env.Error == nil || env.Error.Code != tt.code {
				t.Errorf("status = %d, error = %+v, want %d %s", rec.Code, env.Error, tt.status, tt.code)
			}
		})
	}
}

func TestVote_Elimination(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.seed(t, models.Property{ID: "weak", Reliability: 2})

	rec, env := ts.do(t, http.MethodPost, "/api/v1/vote/weak", ts.user, map[string]string{"voteType": "higher"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if string(env.Data) != `{"propertyId":"weak","eliminated":true}` {
		t.Errorf("data = %s", env.Data)
	}
	if rec, _ := ts.do(t, http.MethodGet, "/api/v1/properties/weak", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("eliminated property still served: %d", rec.Code)
	}
}

func TestDeleteProperty_AdminOnly(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.seed(t, models.Property{ID: "p", Reliability: 100})

	rec, env := ts.do(t, http.MethodDelete, "/api/v1/properties/p", ts.user, nil)
	if rec.Code != http.StatusForbidden || env.Error.Code != ErrCodeForbidden {
		t.Fatalf("user: status = %d, error = %+v", rec.Code, env.Error)
	}

	rec, _ = ts.do(t, http.MethodDelete, "/api/v1/properties/p", ts.admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	rec, _ = ts.do(t, http.MethodDelete, "/api/v1/properties/p", ts.admin, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d", rec.Code)
	}
}

func TestUsersMe(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.seed(t, models.Property{ID: "p", Reliability: 100})
	if rec, _ := ts.do(t, http.MethodPost, "/api/v1/vote/p", ts.user, map[string]string{"voteType": "equal"}); rec.Code != http.StatusOK {
		t.Fatalf("vote: %d", rec.Code)
	}

	rec, env := ts.do(t, http.MethodGet, "/api/v1/users/me", ts.user, nil)
	var u models.User
	if err := json.Unmarshal(env.Data, &u); err != nil || rec.Code != http.StatusOK || u.Email != "user@example.com" {
		t.Fatalf("me = %+v, status = %d, err = %v", u, rec.Code, err)
	}
	if bytes.Contains(env.Data, []byte("g-user")) {
		t.Error("google id leaked in profile")
	}

	rec, env = ts.do(t, http.MethodGet, "/api/v1/users/me/votes", ts.user, nil)
	var votes []models.UserVote
	if err := json.Unmarshal(env.Data, &votes); err != nil || len(votes) != 1 || votes[0].PropertyID != "p" {
		t.Errorf("votes = %+v, status = %d", votes, rec.Code)
	}

	rec, env = ts.do(t, http.MethodPatch, "/api/v1/users/me/preferences", ts.user, map[string]string{"currency": "USD"})
	u = models.User{}
	if err := json.Unmarshal(env.Data, &u); err != nil || u.Preferences.Currency != models.CurrencyUSD {
		t.Errorf("preferences = %+v, status = %d", u.Preferences, rec.Code)
	}

	rec, env = ts.do(t, http.MethodPatch, "/api/v1/users/me/preferences", ts.user, map[string]string{"currency": "JPY"})
	if rec.Code != http.StatusBadRequest || env.Error.Code != ErrCodeValidationFailed {
		t.Errorf("invalid currency: status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestAuthRoutes(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/auth/google", "", nil)
	if rec.Code != http.StatusServiceUnavailable || env.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("login without provider: status = %d, error = %+v", rec.Code, env.Error)
	}
	rec, _ = ts.do(t, http.MethodPost, "/api/v1/auth/logout", "", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("logout: status = %d", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	rec, env := ts.do(t, http.MethodGet, "/api/v1/nothing-here", "", nil)
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/vote/p", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("credentials not allowed")
	}
}
