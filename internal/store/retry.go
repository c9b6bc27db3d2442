// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/pricemap/internal/logging"
	"github.com/tomtom215/pricemap/internal/metrics"
)

// RetryPolicy bounds optimistic transaction retries.
type RetryPolicy struct {
	MaxAttempts int
	// Backoff is multiplied by the attempt number before the next try.
	Backoff time.Duration
}

// DefaultRetryPolicy is used when a backend is opened without one.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 10, Backoff: 5 * time.Millisecond}
}

// withRetry runs op until it succeeds, fails with a non-retryable error, the
// context ends, or MaxAttempts is reached.
func withRetry(ctx context.Context, backend string, policy RetryPolicy, op func() error, retryable func(error) bool) error {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op()
		if err == nil || !retryable(err) {
			return err
		}

		if attempt >= policy.MaxAttempts {
			metrics.RecordTxConflict(backend)
			logging.Warn().
				Str("backend", backend).
				Int("attempts", attempt).
				Err(err).
				Msg("Transaction retries exhausted")
			return fmt.Errorf("%w after %d attempts: %v", ErrTxConflict, attempt, err)
		}
		metrics.RecordTxRetry(backend)

		if policy.Backoff > 0 {
			timer := time.NewTimer(policy.Backoff * time.Duration(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
}
