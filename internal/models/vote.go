// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package models

import (
	"fmt"
	"time"
)

// VoteType is a voter's opinion of the listed price.
type VoteType string

const (
	// VoteLower says the price should be lower than listed.
	VoteLower VoteType = "lower"
	// VoteEqual confirms the listed price.
	VoteEqual VoteType = "equal"
	// VoteHigher says the price should be higher than listed.
	VoteHigher VoteType = "higher"
)

// Valid reports whether t is one of lower, equal or higher.
func (t VoteType) Valid() bool {
	switch t {
	case VoteLower, VoteEqual, VoteHigher:
		return true
	}
	return false
}

// Directional reports whether the vote disputes the price.
func (t VoteType) Directional() bool {
	return t == VoteLower || t == VoteHigher
}

// ParseVoteType parses a vote type from a request body.
func ParseVoteType(s string) (VoteType, error) {
	t := VoteType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown vote type %q", s)
	}
	return t, nil
}

// Vote is embedded in the property it targets. (PropertyID, VoterID) is unique.
type Vote struct {
	VoterID  string    `json:"voterId" bson:"voterId"`
	VoteType VoteType  `json:"voteType" bson:"voteType"`
	VotedAt  time.Time `json:"votedAt" bson:"votedAt"`
}

// UserVote is a vote seen from the voter's side.
type UserVote struct {
	PropertyID string    `json:"propertyId"`
	VoteType   VoteType  `json:"voteType"`
	VotedAt    time.Time `json:"votedAt"`
}
