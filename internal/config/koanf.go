// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/pricemap/config.yaml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Store: StoreConfig{
			Backend:      StoreBadger,
			MaxTxRetries: 10,
			RetryBackoff: 5 * time.Millisecond,
			Badger: BadgerConfig{
				Path:       "/data/pricemap",
				GCInterval: 10 * time.Minute,
			},
			Mongo: MongoConfig{
				URI:            "mongodb://localhost:27017/?replicaSet=rs0",
				Database:       "pricemap",
				ConnectTimeout: 10 * time.Second,
			},
		},
		Reliability: ReliabilityConfig{
			Step:                 2,
			EliminationThreshold: 2,
		},
		Auth: AuthConfig{
			SessionTTL:  30 * 24 * time.Hour,
			CookieName:  "access_token",
			FrontendURL: "http://localhost:5173",
			Google: GoogleConfig{
				IssuerURL:   "https://accounts.google.com",
				RedirectURL: "http://localhost:3000/api/v1/auth/google/callback",
				Scopes:      []string{"openid", "email", "profile"},
			},
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"http://localhost:5173"},
			RateLimitReads:  300,
			RateLimitVotes:  30,
			RateLimitWrites: 10,
			RateLimitAuth:   10,
			RateLimitWindow: time.Minute,
		},
		Events: EventsConfig{
			Backend:        EventsMemory,
			Topic:          "pricemap.properties",
			BreakerTimeout: 30 * time.Second,
			BreakerFails:   5,
			NATS: NATSConfig{
				URL:           "nats://127.0.0.1:4222",
				Host:          "127.0.0.1",
				Port:          4222,
				StoreDir:      "/data/nats",
				StreamName:    "PRICEMAP",
				DurableName:   "pricemap-ws",
				MaxReconnects: -1,
				ReconnectWait: 2 * time.Second,
				AckWait:       30 * time.Second,
			},
		},
		WebSocket: WebSocketConfig{
			Enabled:        true,
			MaxMessageSize: 512,
			SendBuffer:     256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the optional file and the environment,
// then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as a single string.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"auth.admin_emails",
	"auth.google.scopes",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to config paths.
var envMappings = map[string]string{
	"http_host":        "server.host",
	"http_port":        "server.port",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"store_backend":        "store.backend",
	"store_max_tx_retries": "store.max_tx_retries",
	"store_retry_backoff":  "store.retry_backoff",
	"badger_path":          "store.badger.path",
	"badger_in_memory":     "store.badger.in_memory",
	"badger_sync_writes":   "store.badger.sync_writes",
	"badger_gc_interval":   "store.badger.gc_interval",
	"mongo_uri":            "store.mongo.uri",
	"mongo_database":       "store.mongo.database",

	"reliability_step":                  "reliability.step",
	"reliability_elimination_threshold": "reliability.elimination_threshold",

	"jwt_secret":           "auth.jwt_secret",
	"session_ttl":          "auth.session_ttl",
	"cookie_secure":        "auth.cookie_secure",
	"admin_emails":         "auth.admin_emails",
	"frontend_url":         "auth.frontend_url",
	"google_auth_enabled":  "auth.google.enabled",
	"google_client_id":     "auth.google.client_id",
	"google_client_secret": "auth.google.client_secret",
	"google_redirect_url":  "auth.google.redirect_url",

	"cors_origins":      "security.cors_origins",
	"rate_limit_reads":  "security.rate_limit_reads",
	"rate_limit_votes":  "security.rate_limit_votes",
	"rate_limit_writes": "security.rate_limit_writes",
	"rate_limit_auth":   "security.rate_limit_auth",

	"events_backend":   "events.backend",
	"events_topic":     "events.topic",
	"nats_url":         "events.nats.url",
	"nats_embedded":    "events.nats.embedded",
	"nats_port":        "events.nats.port",
	"nats_store_dir":   "events.nats.store_dir",
	"nats_stream_name": "events.nats.stream_name",

	"websocket_enabled": "websocket.enabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps known variables and drops everything else, so unrelated
// environment never leaks into the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
