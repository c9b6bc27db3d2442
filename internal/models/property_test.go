// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package models

import "testing"

func TestPricePerArea(t *testing.T) {
	t.Parallel()

	tests := []struct {
		price, size, want float64
	}{
		{price: 100000, size: 50, want: 2000},
		{price: 100000, size: 30, want: 3333},
		{price: 1000, size: 3, want: 333},
		{price: 500, size: 0, want: 0},
	}
	for _, tt := range tests {
		if got := PricePerArea(tt.price, tt.size); got != tt.want {
			t.Errorf("PricePerArea(%v, %v) = %v, want %v", tt.price, tt.size, got, tt.want)
		}
	}
}

func TestPropertyVotes(t *testing.T) {
	t.Parallel()

	p := &Property{}
	if !p.AppendVote(Vote{VoterID: "a", VoteType: VoteEqual}) {
		t.Fatal("AppendVote(a) = false, want true")
	}
	if !p.AppendVote(Vote{VoterID: "b", VoteType: VoteLower}) {
		t.Fatal("AppendVote(b) = false, want true")
	}
	if p.AppendVote(Vote{VoterID: "a", VoteType: VoteHigher}) {
		t.Error("second AppendVote(a) = true, want false")
	}

	v, ok := p.FindVote("b")
	if !ok || v.VoteType != VoteLower {
		t.Errorf("FindVote(b) = %+v, %v", v, ok)
	}

	removed, ok := p.DropVote("a")
	if !ok || removed.VoteType != VoteEqual {
		t.Errorf("DropVote(a) = %+v, %v", removed, ok)
	}
	if _, ok := p.DropVote("a"); ok {
		t.Error("DropVote(a) twice succeeded")
	}
	if len(p.Votes) != 1 || p.Votes[0].VoterID != "b" {
		t.Errorf("Votes = %+v, want only b", p.Votes)
	}
}

func TestVoteType(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"lower", "equal", "higher"} {
		if _, err := ParseVoteType(s); err != nil {
			t.Errorf("ParseVoteType(%q) error = %v", s, err)
		}
	}
	if _, err := ParseVoteType("Lower"); err == nil {
		t.Error("ParseVoteType(Lower) error = nil, want error")
	}
	if VoteEqual.Directional() {
		t.Error("equal must not be directional")
	}
	if !VoteLower.Directional() || !VoteHigher.Directional() {
		t.Error("lower and higher must be directional")
	}
}

func TestNewFeatureCollection(t *testing.T) {
	t.Parallel()

	fc := NewFeatureCollection([]Property{{
		ID:          "p1",
		Geometry:    NewGeoPoint(20.46, 44.81),
		Type:        PropertyTypeHouse,
		Reliability: 98,
		ReviewCount: 1,
	}})
	if fc.Type != "FeatureCollection" || len(fc.Features) != 1 {
		t.Fatalf("unexpected collection %+v", fc)
	}
	f := fc.Features[0]
	if f.Properties.Type != "house" {
		t.Errorf("feature type = %q, want house", f.Properties.Type)
	}
	if f.Geometry.Longitude() != 20.46 || f.Geometry.Latitude() != 44.81 {
		t.Errorf("geometry = %+v", f.Geometry)
	}
	if f.Properties.DataReliability != 98 || f.Properties.NumberOfReviews != 1 {
		t.Errorf("reliability attributes = %+v", f.Properties)
	}
}
