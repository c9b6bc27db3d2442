// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/pricemap/internal/auth"
	"github.com/tomtom215/pricemap/internal/config"
	"github.com/tomtom215/pricemap/internal/events"
	"github.com/tomtom215/pricemap/internal/logging"
	"github.com/tomtom215/pricemap/internal/store"
)

// openStore opens the configured backend. The returned service runs
// maintenance under the data layer and is nil when the backend needs none.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, suture.Service, error) {
	retry := store.RetryPolicy{MaxAttempts: cfg.MaxTxRetries, Backoff: cfg.RetryBackoff}

	switch cfg.Backend {
	case config.StoreMongo:
		s, err := store.OpenMongo(ctx, store.MongoConfig{
			URI:            cfg.Mongo.URI,
			Database:       cfg.Mongo.Database,
			ConnectTimeout: cfg.Mongo.ConnectTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil

	case config.StoreBadger, "":
		s, err := store.OpenBadger(store.BadgerConfig{
			Path:       cfg.Badger.Path,
			InMemory:   cfg.Badger.InMemory,
			SyncWrites: cfg.Badger.SyncWrites,
			GCInterval: cfg.Badger.GCInterval,
			Retry:      retry,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// openBus starts the embedded NATS server when configured and connects the
// event bus. The returned func closes the bus and then the server, once.
func openBus(ctx context.Context, cfg config.EventsConfig) (*events.Bus, func(), error) {
	natsCfg := events.NATSConfig{
		URL:           cfg.NATS.URL,
		StreamName:    cfg.NATS.StreamName,
		DurableName:   cfg.NATS.DurableName,
		MaxReconnects: cfg.NATS.MaxReconnects,
		ReconnectWait: cfg.NATS.ReconnectWait,
		AckWait:       cfg.NATS.AckWait,
	}

	var srv *events.EmbeddedServer
	if cfg.Backend == config.EventsNATS && cfg.NATS.Embedded {
		var err error
		srv, err = events.NewEmbeddedServer(events.ServerConfig{
			Host:     cfg.NATS.Host,
			Port:     cfg.NATS.Port,
			StoreDir: cfg.NATS.StoreDir,
		})
		if err != nil {
			return nil, nil, err
		}
		natsCfg.URL = srv.ClientURL()
		logging.Info().Str("url", natsCfg.URL).Msg("Embedded NATS server started")
	}

	bus, err := events.NewBus(ctx, events.Config{
		Backend:         cfg.Backend,
		Topic:           cfg.Topic,
		BreakerTimeout:  cfg.BreakerTimeout,
		BreakerFailures: cfg.BreakerFails,
		NATS:            natsCfg,
	})
	if err != nil {
		if srv != nil {
			srv.Shutdown()
		}
		return nil, nil, err
	}

	var once sync.Once
	closeAll := func() {
		once.Do(func() {
			if err := bus.Close(); err != nil {
				logging.Warn().Err(err).Msg("Error closing event bus")
			}
			if srv != nil {
				srv.Shutdown()
			}
		})
	}
	return bus, closeAll, nil
}

// newTokenManager signs sessions with the configured secret. Without one (only
// allowed while Google login is off) a random per-process secret is used, so
// sessions do not survive a restart.
func newTokenManager(cfg config.AuthConfig) (*auth.TokenManager, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		secret = base64.RawURLEncoding.EncodeToString(buf)
		logging.Warn().Msg("JWT_SECRET is not set, using an ephemeral secret; sessions end on restart")
	}
	return auth.NewTokenManager(secret, cfg.SessionTTL)
}

// newIdentityProvider returns nil when Google login is disabled, so the login
// route answers 503.
func newIdentityProvider(ctx context.Context, cfg config.GoogleConfig) (auth.IdentityProvider, error) {
	if !cfg.Enabled {
		logging.Info().Msg("Google login disabled")
		return nil, nil
	}
	login, err := auth.NewGoogleLogin(ctx, auth.GoogleConfig{
		IssuerURL:    cfg.IssuerURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       cfg.Scopes,
	})
	if err != nil {
		return nil, fmt.Errorf("google login: %w", err)
	}
	return login, nil
}
