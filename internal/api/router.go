// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/pricemap/internal/auth"
	"github.com/tomtom215/pricemap/internal/authz"
	"github.com/tomtom215/pricemap/internal/listing"
	"github.com/tomtom215/pricemap/internal/middleware"
	"github.com/tomtom215/pricemap/internal/models"
	"github.com/tomtom215/pricemap/internal/submission"
	"github.com/tomtom215/pricemap/internal/users"
	"github.com/tomtom215/pricemap/internal/vote"
	"github.com/tomtom215/pricemap/internal/websocket"
)

// VoteService is the vote coordinator.
type VoteService interface {
	AddVote(ctx context.Context, voterID, propertyID string, vt models.VoteType) (vote.Outcome, error)
	RemoveVote(ctx context.Context, voterID, propertyID string) (vote.Outcome, error)
	GetUserVote(ctx context.Context, voterID, propertyID string) (*models.Vote, error)
}

// ListingService is the property read model.
type ListingService interface {
	Query(ctx context.Context, f models.ListingFilter) (listing.Result, error)
	GeoJSON(ctx context.Context, f models.ListingFilter) (models.FeatureCollection, error)
	Get(ctx context.Context, id string) (*models.Property, error)
}

// SubmissionService creates and removes listings.
type SubmissionService interface {
	Submit(ctx context.Context, userID string, req submission.Request) (*models.Property, error)
	Remove(ctx context.Context, adminID, propertyID string) error
}

// UserService serves the caller's account.
type UserService interface {
	Get(ctx context.Context, id string) (*models.User, error)
	UpdatePreferences(ctx context.Context, id string, req users.PreferencesRequest) (*models.User, error)
	Votes(ctx context.Context, id string) ([]models.UserVote, error)
}

// StoreHealth is the store as seen by the health check.
type StoreHealth interface {
	Backend() string
	Ping(ctx context.Context) error
}

// BusHealth is the event bus as seen by the health check.
type BusHealth interface {
	Backend() string
	BreakerState() string
}

// Dependencies wires the router. Bus and Hub are optional.
type Dependencies struct {
	Votes       VoteService
	Listings    ListingService
	Submissions SubmissionService
	Users       UserService
	Store       StoreHealth
	Bus         BusHealth
	Hub         *websocket.Hub

	AuthHandlers   *auth.Handlers
	AuthMiddleware *auth.Middleware
	Authorizer     *authz.Middleware

	Edge             EdgeConfig
	WSMaxMessageSize int
	Version          string
}

// Router builds the HTTP handler tree.
type Router struct {
	deps    Dependencies
	started time.Time
}

// NewRouter creates a Router.
func NewRouter(deps Dependencies) *Router {
	return &Router{deps: deps, started: time.Now()}
}

// Handler returns the chi mux with every route registered.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsHandler(rt.deps.Edge.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.With(securityHeaders).Get("/api/health", rt.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
	))

	edge := rt.deps.Edge
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(securityHeaders)
		r.Use(middleware.PrometheusMetrics)
		r.Use(rt.deps.AuthMiddleware.Authenticate)

		r.Route("/auth", func(r chi.Router) {
			r.Use(rateLimit(edge.Auth, edge.Window))
			r.Get("/google", rt.deps.AuthHandlers.Login)
			r.Get("/google/callback", rt.deps.AuthHandlers.Callback)
			r.Post("/logout", rt.deps.AuthHandlers.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(rateLimit(edge.Reads, edge.Window))
			r.Use(chimiddleware.Compress(5, "application/json", "application/geo+json"))
			r.Get("/properties", rt.ListProperties)
			r.Get("/properties/geojson", rt.PropertiesGeoJSON)
			r.Get("/properties/{propertyId}", rt.GetProperty)
		})

		r.Group(func(r chi.Router) {
			r.Use(rt.deps.AuthMiddleware.RequireAuth)
			r.Use(rt.deps.Authorizer.AuthorizeRequest)
			r.Use(limitBody)

			r.With(rateLimit(edge.Writes, edge.Window)).Post("/properties", rt.CreateProperty)
			r.With(rateLimit(edge.Writes, edge.Window)).Delete("/properties/{propertyId}", rt.DeleteProperty)

			r.Route("/vote/{propertyId}", func(r chi.Router) {
				r.Get("/", rt.GetVote)
				r.With(rateLimit(edge.Votes, edge.Window)).Post("/", rt.AddVote)
				r.With(rateLimit(edge.Votes, edge.Window)).Delete("/", rt.RemoveVote)
			})

			r.Get("/users/me", rt.Me)
			r.Get("/users/me/votes", rt.MyVotes)
			r.Patch("/users/me/preferences", rt.UpdatePreferences)
		})

		if rt.deps.Hub != nil {
			r.Get("/ws", websocket.Handler(rt.deps.Hub, edge.CORSOrigins, rt.deps.WSMaxMessageSize))
		}
	})

	return r
}
