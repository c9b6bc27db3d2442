// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/pricemap/docs" // swagger document
	"github.com/tomtom215/pricemap/internal/api"
	"github.com/tomtom215/pricemap/internal/auth"
	"github.com/tomtom215/pricemap/internal/authz"
	"github.com/tomtom215/pricemap/internal/config"
	"github.com/tomtom215/pricemap/internal/events"
	"github.com/tomtom215/pricemap/internal/listing"
	"github.com/tomtom215/pricemap/internal/logging"
	"github.com/tomtom215/pricemap/internal/reliability"
	"github.com/tomtom215/pricemap/internal/submission"
	"github.com/tomtom215/pricemap/internal/supervisor"
	"github.com/tomtom215/pricemap/internal/supervisor/services"
	"github.com/tomtom215/pricemap/internal/users"
	"github.com/tomtom215/pricemap/internal/vote"
	"github.com/tomtom215/pricemap/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("store", cfg.Store.Backend).
		Str("events", cfg.Events.Backend).
		Bool("google_login", cfg.Auth.Google.Enabled).
		Msg("Starting Pricemap")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		logging.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
	logging.Info().Msg("Server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	st, gc, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	bus, closeBus, err := openBus(ctx, cfg.Events)
	if err != nil {
		return err
	}

	var hub *websocket.Hub
	if cfg.WebSocket.Enabled {
		hub = websocket.NewHub(cfg.WebSocket.SendBuffer)
	}

	calc := reliability.New(cfg.Reliability.Step, cfg.Reliability.EliminationThreshold)
	userSvc := users.NewService(st, cfg.Auth.AdminEmails)

	tokens, err := newTokenManager(cfg.Auth)
	if err != nil {
		closeBus()
		return err
	}
	provider, err := newIdentityProvider(ctx, cfg.Auth.Google)
	if err != nil {
		closeBus()
		return err
	}
	enforcer, err := authz.NewEnforcer(authz.EnforcerConfig{})
	if err != nil {
		closeBus()
		return err
	}

	router := api.NewRouter(api.Dependencies{
		Votes:       vote.NewCoordinator(st, calc, bus),
		Listings:    listing.NewService(st),
		Submissions: submission.NewService(st, bus),
		Users:       userSvc,
		Store:       st,
		Bus:         bus,
		Hub:         hub,
		AuthHandlers: auth.NewHandlers(provider, userSvc, tokens,
			auth.CookieConfig{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure},
			cfg.Auth.FrontendURL, api.WriteError),
		AuthMiddleware: auth.NewMiddleware(tokens, cfg.Auth.CookieName, userSvc, api.WriteError),
		Authorizer:     authz.NewMiddleware(enforcer, api.WriteError),
		Edge: api.EdgeConfig{
			CORSOrigins: cfg.Security.CORSOrigins,
			Reads:       cfg.Security.RateLimitReads,
			Votes:       cfg.Security.RateLimitVotes,
			Writes:      cfg.Security.RateLimitWrites,
			Auth:        cfg.Security.RateLimitAuth,
			Window:      cfg.Security.RateLimitWindow,
		},
		WSMaxMessageSize: cfg.WebSocket.MaxMessageSize,
		Version:          version,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	tree := supervisor.NewTree(logging.NewSlogLoggerWithComponent("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if gc != nil {
		tree.AddDataService(gc)
	}
	if hub != nil {
		tree.AddMessagingService(hub)
		tree.AddMessagingService(events.NewForwarder(bus, hub))
	}
	tree.AddMessagingService(services.NewShutdownService("event-bus", closeBus))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
	err = tree.Serve(ctx)

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop in time")
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
