// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// minJWTSecretLength is the shortest HS256 secret accepted.
const minJWTSecretLength = 32

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateReliability(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case StoreBadger:
		if !c.Store.Badger.InMemory && c.Store.Badger.Path == "" {
			return fmt.Errorf("BADGER_PATH is required unless BADGER_IN_MEMORY=true")
		}
	case StoreMongo:
		if c.Store.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_BACKEND=mongo")
		}
		if c.Store.Mongo.Database == "" {
			return fmt.Errorf("MONGO_DATABASE is required when STORE_BACKEND=mongo")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreBadger, StoreMongo, c.Store.Backend)
	}
	if c.Store.MaxTxRetries < 1 {
		return fmt.Errorf("STORE_MAX_TX_RETRIES must be at least 1, got %d", c.Store.MaxTxRetries)
	}
	if c.Store.RetryBackoff < 0 {
		return fmt.Errorf("STORE_RETRY_BACKOFF must not be negative")
	}
	return nil
}

func (c *Config) validateReliability() error {
	if c.Reliability.Step <= 0 || c.Reliability.Step > 100 {
		return fmt.Errorf("RELIABILITY_STEP must be in (0, 100], got %v", c.Reliability.Step)
	}
	if c.Reliability.EliminationThreshold < 0 || c.Reliability.EliminationThreshold >= 100 {
		return fmt.Errorf("RELIABILITY_ELIMINATION_THRESHOLD must be in [0, 100), got %v", c.Reliability.EliminationThreshold)
	}
	return nil
}

func (c *Config) validateAuth() error {
	if c.Auth.CookieName == "" {
		return fmt.Errorf("auth.cookie_name must not be empty")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if !c.Auth.Google.Enabled {
		return nil
	}
	if len(c.Auth.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters when Google login is enabled", minJWTSecretLength)
	}
	if c.Auth.Google.ClientID == "" || c.Auth.Google.ClientSecret == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required when GOOGLE_AUTH_ENABLED=true")
	}
	if err := validateAbsoluteURL("GOOGLE_REDIRECT_URL", c.Auth.Google.RedirectURL); err != nil {
		return err
	}
	return validateAbsoluteURL("FRONTEND_URL", c.Auth.FrontendURL)
}

func (c *Config) validateSecurity() error {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			// Credentialed requests cannot use a wildcard origin.
			return fmt.Errorf("CORS_ORIGINS must list explicit origins, the session cookie is credentialed")
		}
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("security.rate_limit_window must be positive")
	}
	return nil
}

func (c *Config) validateEvents() error {
	switch c.Events.Backend {
	case EventsMemory:
	case EventsNATS:
		if !c.Events.NATS.Embedded && c.Events.NATS.URL == "" {
			return fmt.Errorf("NATS_URL is required when EVENTS_BACKEND=nats and NATS_EMBEDDED=false")
		}
		if c.Events.NATS.StreamName == "" {
			return fmt.Errorf("NATS_STREAM_NAME must not be empty")
		}
	default:
		return fmt.Errorf("EVENTS_BACKEND must be %q or %q, got %q", EventsMemory, EventsNATS, c.Events.Backend)
	}
	if c.Events.Topic == "" {
		return fmt.Errorf("EVENTS_TOPIC must not be empty")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}

func validateAbsoluteURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
	}
	return nil
}
