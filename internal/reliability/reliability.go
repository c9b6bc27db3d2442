// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

// Package reliability scores how much the crowd trusts a listing's price.
//
// Disputes (lower/higher votes) push the score down by a fixed step, confirmations
// (equal votes) push it up, and withdrawing a vote applies the opposite push. The
// score is clamped to [Min, Max], so a bound absorbs further pushes in its direction.
package reliability

import "github.com/tomtom215/pricemap/internal/models"

const (
	// Min is the lowest reliability score.
	Min = 0.0
	// Max is the highest reliability score and the score of a new listing.
	Max = 100.0

	// DefaultStep is how far one vote moves the score.
	DefaultStep = 2.0
	// DefaultEliminationThreshold is the score at or below which one more
	// dispute removes the listing.
	DefaultEliminationThreshold = 2.0
)

// Calculator applies the flat-step rule.
type Calculator struct {
	Step                 float64
	EliminationThreshold float64
}

// New returns a calculator. Non-positive values fall back to the defaults;
// a negative threshold is kept as zero.
func New(step, threshold float64) Calculator {
	if step <= 0 {
		step = DefaultStep
	}
	if threshold < 0 {
		threshold = 0
	}
	return Calculator{Step: step, EliminationThreshold: threshold}
}

// Default returns a calculator with DefaultStep and DefaultEliminationThreshold.
func Default() Calculator {
	return Calculator{Step: DefaultStep, EliminationThreshold: DefaultEliminationThreshold}
}

// Next returns the score after adding (removal=false) or withdrawing (removal=true)
// a vote of type vt. A removal does not undo clamping: an equal vote added at
// Max leaves Max, and withdrawing it yields Max-Step.
func (c Calculator) Next(current float64, vt models.VoteType, removal bool) float64 {
	delta := c.Step
	if vt.Directional() {
		delta = -delta
	}
	if removal {
		delta = -delta
	}
	return Clamp(current + delta)
}

// Eliminates reports whether adding vt to a listing currently scored at current
// removes the listing instead of recording the vote.
func (c Calculator) Eliminates(current float64, vt models.VoteType) bool {
	return vt.Directional() && current <= c.EliminationThreshold
}

// Clamp bounds v to [Min, Max].
func Clamp(v float64) float64 {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}

// Next applies the default calculator.
func Next(current float64, vt models.VoteType, removal bool) float64 {
	return Default().Next(current, vt, removal)
}
