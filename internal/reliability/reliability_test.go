// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package reliability

import (
	"math/rand"
	"testing"

	"github.com/tomtom215/pricemap/internal/models"
)

func TestNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		current float64
		vt      models.VoteType
		removal bool
		want    float64
	}{
		{"lower add", 100, models.VoteLower, false, 98},
		{"higher add", 50, models.VoteHigher, false, 48},
		{"equal add", 50, models.VoteEqual, false, 52},
		{"equal add clamps at max", 100, models.VoteEqual, false, 100},
		{"lower remove", 98, models.VoteLower, true, 100},
		{"higher remove clamps", 99, models.VoteHigher, true, 100},
		{"equal remove", 100, models.VoteEqual, true, 98},
		{"lower add clamps at min", 1, models.VoteLower, false, 0},
		{"equal remove clamps at min", 0, models.VoteEqual, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Next(tt.current, tt.vt, tt.removal); got != tt.want {
				t.Errorf("Next(%v, %s, %v) = %v, want %v", tt.current, tt.vt, tt.removal, got, tt.want)
			}
		})
	}
}

// Add then remove restores the score only when the add was not clamped.
// TestNextClampAtBoundIsNotUndone covers the clamped case.
func TestNextRoundTripAwayFromBounds(t *testing.T) {
	t.Parallel()

	c := Default()
	for _, vt := range []models.VoteType{models.VoteLower, models.VoteEqual, models.VoteHigher} {
		for _, start := range []float64{10, 50, 90} {
			after := c.Next(c.Next(start, vt, false), vt, true)
			if after != start {
				t.Errorf("%s round trip from %v = %v", vt, start, after)
			}
		}
	}
}

func TestNextClampAtBoundIsNotUndone(t *testing.T) {
	t.Parallel()

	c := Default()
	tests := []struct {
		name  string
		start float64
		vt    models.VoteType
		added float64
		want  float64
	}{
		{"equal at max", Max, models.VoteEqual, Max, Max - DefaultStep},
		{"lower at min", Min, models.VoteLower, Min, Min + DefaultStep},
		{"higher at min", Min, models.VoteHigher, Min, Min + DefaultStep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			added := c.Next(tt.start, tt.vt, false)
			if added != tt.added {
				t.Fatalf("add from %v = %v, want %v", tt.start, added, tt.added)
			}
			if got := c.Next(added, tt.vt, true); got != tt.want {
				t.Errorf("remove after add = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextStaysInBounds(t *testing.T) {
	t.Parallel()

	types := []models.VoteType{models.VoteLower, models.VoteEqual, models.VoteHigher}
	rng := rand.New(rand.NewSource(42))
	c := New(7, 2)
	score := Max
	for i := 0; i < 10000; i++ {
		score = c.Next(score, types[rng.Intn(len(types))], rng.Intn(2) == 0)
		if score < Min || score > Max {
			t.Fatalf("step %d: score %v out of [%v, %v]", i, score, Min, Max)
		}
	}
}

func TestEliminates(t *testing.T) {
	t.Parallel()

	c := Default()
	tests := []struct {
		current float64
		vt      models.VoteType
		want    bool
	}{
		{2, models.VoteLower, true},
		{0, models.VoteHigher, true},
		{2.5, models.VoteLower, false},
		{2, models.VoteEqual, false},
		{100, models.VoteHigher, false},
	}
	for _, tt := range tests {
		if got := c.Eliminates(tt.current, tt.vt); got != tt.want {
			t.Errorf("Eliminates(%v, %s) = %v, want %v", tt.current, tt.vt, got, tt.want)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	c := New(0, -1)
	if c.Step != DefaultStep {
		t.Errorf("Step = %v, want %v", c.Step, DefaultStep)
	}
	if c.EliminationThreshold != 0 {
		t.Errorf("EliminationThreshold = %v, want 0", c.EliminationThreshold)
	}
}
