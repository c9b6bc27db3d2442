// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package vote

import (
	"errors"
	"testing"

	"github.com/tomtom215/pricemap/internal/store"
)

func TestMapStoreError(t *testing.T) {
	t.Parallel()
	other := errors.New("disk on fire")
	tests := []struct {
		in   error
		want error
	}{
		{store.ErrPropertyNotFound, ErrNotFound},
		{store.ErrVoteNotFound, ErrNotFound},
		{store.ErrVoteExists, ErrDuplicateVote},
		{store.ErrTxConflict, ErrTransactionConflict},
		{other, other},
	}
	for _, tt := range tests {
		got := mapStoreError(tt.in)
		if !errors.Is(got, tt.want) {
			t.Errorf("mapStoreError(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if !errors.Is(got, tt.in) {
			t.Errorf("mapStoreError(%v) lost the cause", tt.in)
		}
	}
	if mapStoreError(nil) != nil {
		t.Error("mapStoreError(nil) != nil")
	}
}

func TestOutcomeLabel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err        error
		eliminated bool
		want       string
	}{
		{nil, false, "ok"},
		{nil, true, "eliminated"},
		{mapStoreError(store.ErrVoteExists), false, "duplicate"},
		{mapStoreError(store.ErrPropertyNotFound), false, "not_found"},
		{mapStoreError(store.ErrTxConflict), false, "conflict"},
		{validationError("x"), false, "invalid"},
		{errors.New("boom"), false, "error"},
	}
	for _, tt := range tests {
		if got := outcomeLabel(tt.err, tt.eliminated); got != tt.want {
			t.Errorf("outcomeLabel(%v, %v) = %q, want %q", tt.err, tt.eliminated, got, tt.want)
		}
	}
}
