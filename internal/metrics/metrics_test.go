// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/properties", "200"))

	RecordAPIRequest("GET", "/api/v1/properties", "200", 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/properties", "200"))
	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestRecordVote(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		voteType  string
		outcome   string
	}{
		{"committed add", "add", "lower", "ok"},
		{"duplicate add", "add", "equal", "duplicate"},
		{"eliminating add", "add", "higher", "eliminated"},
		{"missing remove", "remove", "", "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := VotesTotal.WithLabelValues(tt.operation, tt.voteType, tt.outcome)
			before := testutil.ToFloat64(c)
			RecordVote(tt.operation, tt.voteType, tt.outcome, 50)
			if got := testutil.ToFloat64(c); got != before+1 {
				t.Errorf("votes_total = %v, want %v", got, before+1)
			}
		})
	}
}

func TestRecordEventPublish(t *testing.T) {
	ok := EventsPublished.WithLabelValues("property_updated", "ok")
	failed := EventsPublished.WithLabelValues("property_updated", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordEventPublish("property_updated", nil)
	RecordEventPublish("property_updated", errors.New("broker down"))

	if got := testutil.ToFloat64(ok); got != okBefore+1 {
		t.Errorf("ok publishes = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(failed); got != failedBefore+1 {
		t.Errorf("failed publishes = %v, want %v", got, failedBefore+1)
	}
}

func TestRecordTxRetryAndConflict(t *testing.T) {
	retries := StoreTxRetries.WithLabelValues("badger")
	conflicts := StoreTxConflicts.WithLabelValues("badger")
	r0, c0 := testutil.ToFloat64(retries), testutil.ToFloat64(conflicts)

	RecordTxRetry("badger")
	RecordTxRetry("badger")
	RecordTxConflict("badger")

	if got := testutil.ToFloat64(retries); got != r0+2 {
		t.Errorf("retries = %v, want %v", got, r0+2)
	}
	if got := testutil.ToFloat64(conflicts); got != c0+1 {
		t.Errorf("conflicts = %v, want %v", got, c0+1)
	}
}

func TestSetCircuitBreakerState(t *testing.T) {
	SetCircuitBreakerState("event-bus", 2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("event-bus")); got != 2 {
		t.Errorf("breaker state = %v, want 2", got)
	}
}
