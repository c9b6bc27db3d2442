// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package vote

import (
	"errors"
	"fmt"

	"github.com/tomtom215/pricemap/internal/store"
)

// Error kinds returned by the Coordinator. Callers match them with errors.Is.
var (
	// ErrNotFound means the property or the caller's vote does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateVote means the caller already voted on the property.
	ErrDuplicateVote = errors.New("user already voted for this property")
	// ErrValidation means the request was malformed; no store access happened.
	ErrValidation = errors.New("validation failed")
	// ErrTransactionConflict means concurrent writers kept winning and retries
	// ran out. Nothing was committed; the caller may retry.
	ErrTransactionConflict = errors.New("transaction conflict")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// mapStoreError translates store sentinels into the coordinator's taxonomy.
func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrPropertyNotFound), errors.Is(err, store.ErrVoteNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, store.ErrVoteExists):
		return fmt.Errorf("%w: %w", ErrDuplicateVote, err)
	case errors.Is(err, store.ErrTxConflict):
		return fmt.Errorf("%w: %w", ErrTransactionConflict, err)
	default:
		return err
	}
}

// outcomeLabel is the metrics label for an operation's result.
func outcomeLabel(err error, eliminated bool) string {
	switch {
	case err == nil && eliminated:
		return "eliminated"
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicateVote):
		return "duplicate"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrTransactionConflict):
		return "conflict"
	default:
		return "error"
	}
}
