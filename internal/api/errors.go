// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/pricemap/internal/listing"
	"github.com/tomtom215/pricemap/internal/logging"
	"github.com/tomtom215/pricemap/internal/store"
	"github.com/tomtom215/pricemap/internal/submission"
	"github.com/tomtom215/pricemap/internal/users"
	"github.com/tomtom215/pricemap/internal/validation"
	"github.com/tomtom215/pricemap/internal/vote"
)

// Messages of the mapped errors.
const (
	msgDuplicateVote    = "User already voted for this property"
	msgPropertyNotFound = "Property not found"
	msgVoteNotFound     = "Vote not found"
	msgUserNotFound     = "User not found"
	msgBusy             = "The listing is busy, please retry"
	msgInternal         = "Internal server error"
)

// writeServiceError maps a domain error onto a status and envelope.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, "Validation failed", verr.Details())
	case errors.Is(err, vote.ErrValidation), errors.Is(err, listing.ErrInvalidFilter):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, err.Error(), nil)
	case errors.Is(err, vote.ErrDuplicateVote):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, msgDuplicateVote, nil)
	case errors.Is(err, store.ErrVoteNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, msgVoteNotFound, nil)
	case errors.Is(err, vote.ErrNotFound), errors.Is(err, listing.ErrNotFound), errors.Is(err, submission.ErrNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, msgPropertyNotFound, nil)
	case errors.Is(err, users.ErrNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, msgUserNotFound, nil)
	case errors.Is(err, vote.ErrTransactionConflict), errors.Is(err, store.ErrTxConflict):
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Write contention exhausted retries")
		w.Header().Set("Retry-After", "1")
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, msgBusy, nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, msgInternal, nil)
	}
}
