// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package config

import "time"

// Config is the full process configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Store       StoreConfig       `koanf:"store"`
	Reliability ReliabilityConfig `koanf:"reliability"`
	Auth        AuthConfig        `koanf:"auth"`
	Security    SecurityConfig    `koanf:"security"`
	Events      EventsConfig      `koanf:"events"`
	WebSocket   WebSocketConfig   `koanf:"websocket"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development or production
}

// Store backends.
const (
	StoreBadger = "badger"
	StoreMongo  = "mongo"
)

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	Backend      string        `koanf:"backend"`
	MaxTxRetries int           `koanf:"max_tx_retries"`
	RetryBackoff time.Duration `koanf:"retry_backoff"`
	Badger       BadgerConfig  `koanf:"badger"`
	Mongo        MongoConfig   `koanf:"mongo"`
}

// BadgerConfig configures the embedded store.
type BadgerConfig struct {
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	SyncWrites bool          `koanf:"sync_writes"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

// MongoConfig configures the MongoDB store. Transactions need a replica set.
type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// ReliabilityConfig tunes the reliability rule.
type ReliabilityConfig struct {
	Step                 float64 `koanf:"step"`
	EliminationThreshold float64 `koanf:"elimination_threshold"`
}

// AuthConfig configures sessions and Google login.
type AuthConfig struct {
	JWTSecret    string        `koanf:"jwt_secret"`
	SessionTTL   time.Duration `koanf:"session_ttl"`
	CookieName   string        `koanf:"cookie_name"`
	CookieSecure bool          `koanf:"cookie_secure"`
	AdminEmails  []string      `koanf:"admin_emails"`
	FrontendURL  string        `koanf:"frontend_url"`
	Google       GoogleConfig  `koanf:"google"`
}

// GoogleConfig configures the OpenID Connect relying party.
type GoogleConfig struct {
	Enabled      bool     `koanf:"enabled"`
	IssuerURL    string   `koanf:"issuer_url"`
	ClientID     string   `koanf:"client_id"`
	ClientSecret string   `koanf:"client_secret"`
	RedirectURL  string   `koanf:"redirect_url"`
	Scopes       []string `koanf:"scopes"`
}

// SecurityConfig holds edge protections.
type SecurityConfig struct {
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReads  int           `koanf:"rate_limit_reads"`
	RateLimitVotes  int           `koanf:"rate_limit_votes"`
	RateLimitWrites int           `koanf:"rate_limit_writes"`
	RateLimitAuth   int           `koanf:"rate_limit_auth"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// Event bus backends.
const (
	EventsMemory = "memory"
	EventsNATS   = "nats"
)

// EventsConfig selects the event bus transport.
type EventsConfig struct {
	Backend        string        `koanf:"backend"`
	Topic          string        `koanf:"topic"`
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
	BreakerFails   uint32        `koanf:"breaker_failures"`
	NATS           NATSConfig    `koanf:"nats"`
}

// NATSConfig configures the JetStream transport and the optional embedded server.
type NATSConfig struct {
	URL           string        `koanf:"url"`
	Embedded      bool          `koanf:"embedded"`
	Host          string        `koanf:"host"`
	Port          int           `koanf:"port"`
	StoreDir      string        `koanf:"store_dir"`
	StreamName    string        `koanf:"stream_name"`
	DurableName   string        `koanf:"durable_name"`
	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`
	AckWait       time.Duration `koanf:"ack_wait"`
}

// WebSocketConfig tunes the live update hub.
type WebSocketConfig struct {
	Enabled        bool `koanf:"enabled"`
	MaxMessageSize int  `koanf:"max_message_size"`
	SendBuffer     int  `koanf:"send_buffer"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}
