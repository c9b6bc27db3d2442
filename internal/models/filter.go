// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package models

import (
	"fmt"
	"strconv"
	"strings"
)

// RoomBucketKind tags a RoomBucket variant.
type RoomBucketKind int

const (
	// RoomsAny matches every room count.
	RoomsAny RoomBucketKind = iota
	// RoomsExact matches exactly N rooms.
	RoomsExact
	// RoomsAtLeast matches N or more rooms ("3+").
	RoomsAtLeast
)

// RoomBucket is one selectable room-count option of the listing filter.
type RoomBucket struct {
	Kind RoomBucketKind
	N    int
}

// AnyRooms returns the wildcard bucket.
func AnyRooms() RoomBucket { return RoomBucket{Kind: RoomsAny} }

// ExactRooms returns a bucket matching exactly n rooms.
func ExactRooms(n int) RoomBucket { return RoomBucket{Kind: RoomsExact, N: n} }

// AtLeastRooms returns a bucket matching n or more rooms.
func AtLeastRooms(n int) RoomBucket { return RoomBucket{Kind: RoomsAtLeast, N: n} }

// ParseRoomBucket parses "Any", "N+" or "N".
func ParseRoomBucket(s string) (RoomBucket, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "any") {
		return AnyRooms(), nil
	}
	atLeast := strings.HasSuffix(s, "+")
	n, err := strconv.Atoi(strings.TrimSuffix(s, "+"))
	if err != nil || n < 1 {
		return RoomBucket{}, fmt.Errorf("invalid rooms value %q", s)
	}
	if atLeast {
		return AtLeastRooms(n), nil
	}
	return ExactRooms(n), nil
}

// String renders the bucket the way ParseRoomBucket reads it.
func (b RoomBucket) String() string {
	switch b.Kind {
	case RoomsExact:
		return strconv.Itoa(b.N)
	case RoomsAtLeast:
		return strconv.Itoa(b.N) + "+"
	default:
		return "Any"
	}
}

// Matches reports whether rooms falls in the bucket.
func (b RoomBucket) Matches(rooms int) bool {
	switch b.Kind {
	case RoomsExact:
		return rooms == b.N
	case RoomsAtLeast:
		return rooms >= b.N
	default:
		return true
	}
}

// ListingFilter selects properties for the map. Zero values mean "no constraint".
// Price bounds are inclusive.
type ListingFilter struct {
	Status        PropertyStatus
	PropertyTypes []PropertyType
	MinPrice      *float64
	MaxPrice      *float64
	Rooms         []RoomBucket
}

// AnyRoomCount reports whether the room constraint is absent or contains the wildcard.
func (f ListingFilter) AnyRoomCount() bool {
	if len(f.Rooms) == 0 {
		return true
	}
	for _, b := range f.Rooms {
		if b.Kind == RoomsAny {
			return true
		}
	}
	return false
}

// Matches reports whether p satisfies every constraint of the filter.
func (f ListingFilter) Matches(p *Property) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if len(f.PropertyTypes) > 0 {
		found := false
		for _, t := range f.PropertyTypes {
			if p.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.AnyRoomCount() {
		return true
	}
	for _, b := range f.Rooms {
		if b.Matches(p.Rooms) {
			return true
		}
	}
	return false
}
