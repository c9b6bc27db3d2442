// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Vote Metrics
	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricemap_votes_total",
			Help: "Total number of vote operations by outcome",
		},
		[]string{"operation", "vote_type", "outcome"}, // operation: add|remove; outcome: ok|duplicate|not_found|conflict|error|eliminated
	)

	ReliabilityScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricemap_reliability_score",
			Help:    "Reliability score of a property after a committed vote",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	PropertiesEliminated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricemap_properties_eliminated_total",
			Help: "Total number of properties removed by the elimination rule",
		},
	)

	PropertiesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricemap_properties_created_total",
			Help: "Total number of submitted properties",
		},
	)

	// Store Metrics
	StoreTxRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricemap_store_tx_retries_total",
			Help: "Total number of transaction attempts retried after a write conflict",
		},
		[]string{"backend"},
	)

	StoreTxConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricemap_store_tx_conflicts_total",
			Help: "Total number of transactions that exhausted their conflict retries",
		},
		[]string{"backend"},
	)

	// Listing Metrics
	ListingQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricemap_listing_query_duration_seconds",
			Help:    "Duration of filtered listing queries",
			Buckets: prometheus.DefBuckets,
		},
	)

	ListingQueryResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricemap_listing_query_results",
			Help:    "Number of properties returned by a listing query",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricemap_events_published_total",
			Help: "Total number of domain events handed to the event bus",
		},
		[]string{"event_type", "outcome"},
	)

	EventsForwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricemap_events_forwarded_total",
			Help: "Total number of domain events forwarded to websocket clients",
		},
		[]string{"event_type"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Auth Metrics
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricemap_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"provider", "outcome"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordVote records the outcome of a vote operation. The reliability histogram
// only observes committed votes.
func RecordVote(operation, voteType, outcome string, reliability float64) {
	VotesTotal.WithLabelValues(operation, voteType, outcome).Inc()
	if outcome == "ok" {
		ReliabilityScore.Observe(reliability)
	}
}

// RecordElimination records a property removed by the elimination rule.
func RecordElimination() {
	PropertiesEliminated.Inc()
}

// RecordTxRetry records one retried transaction attempt.
func RecordTxRetry(backend string) {
	StoreTxRetries.WithLabelValues(backend).Inc()
}

// RecordTxConflict records a transaction that gave up after its retries.
func RecordTxConflict(backend string) {
	StoreTxConflicts.WithLabelValues(backend).Inc()
}

// RecordListingQuery records a listing query's latency and result size.
func RecordListingQuery(duration time.Duration, results int) {
	ListingQueryDuration.Observe(duration.Seconds())
	ListingQueryResults.Observe(float64(results))
}

// RecordEventPublish records an event publish attempt.
func RecordEventPublish(eventType string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	EventsPublished.WithLabelValues(eventType, outcome).Inc()
}

// RecordEventForwarded records an event delivered to the websocket hub.
func RecordEventForwarded(eventType string) {
	EventsForwarded.WithLabelValues(eventType).Inc()
}

// SetCircuitBreakerState publishes a breaker state (0=closed, 1=half-open, 2=open).
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordLogin records a login attempt.
func RecordLogin(provider string, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	LoginsTotal.WithLabelValues(provider, outcome).Inc()
}
