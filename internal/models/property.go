// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package models

import (
	"fmt"
	"math"
	"time"
)

// PropertyType is the kind of building a listing describes.
type PropertyType string

const (
	PropertyTypeApartment PropertyType = "Apartment"
	PropertyTypeHouse     PropertyType = "House"
)

// Valid reports whether t is a known property type.
func (t PropertyType) Valid() bool {
	return t == PropertyTypeApartment || t == PropertyTypeHouse
}

// ParsePropertyType parses a property type name as sent by the map client.
func ParsePropertyType(s string) (PropertyType, error) {
	t := PropertyType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown property type %q", s)
	}
	return t, nil
}

// PropertyStatus says whether a listing is for sale or for rent.
type PropertyStatus string

const (
	StatusBuy  PropertyStatus = "Buy"
	StatusRent PropertyStatus = "Rent"
)

// Valid reports whether s is a known listing status.
func (s PropertyStatus) Valid() bool {
	return s == StatusBuy || s == StatusRent
}

// ParsePropertyStatus parses a listing status.
func ParsePropertyStatus(s string) (PropertyStatus, error) {
	st := PropertyStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// GeoPointType is the only GeoJSON geometry a listing may carry.
const GeoPointType = "Point"

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string     `json:"type" bson:"type"`
	Coordinates [2]float64 `json:"coordinates" bson:"coordinates"`
}

// NewGeoPoint builds a point from longitude and latitude.
func NewGeoPoint(lon, lat float64) GeoPoint {
	return GeoPoint{Type: GeoPointType, Coordinates: [2]float64{lon, lat}}
}

// Longitude returns the first coordinate.
func (g GeoPoint) Longitude() float64 { return g.Coordinates[0] }

// Latitude returns the second coordinate.
func (g GeoPoint) Latitude() float64 { return g.Coordinates[1] }

// Property is a listing on the map.
//
// Reliability, ReviewCount and Votes change together, and only through the
// vote coordinator. ReviewCount always equals len(Votes) once a transaction
// has committed.
type Property struct {
	ID                  string         `json:"id" bson:"_id"`
	Geometry            GeoPoint       `json:"geometry" bson:"geometry"`
	Price               float64        `json:"price" bson:"price"`
	Type                PropertyType   `json:"type" bson:"type"`
	Size                float64        `json:"size" bson:"size"`
	PricePerSquareMeter float64        `json:"pricePerSquareMeter" bson:"pricePerSquareMeter"`
	Rooms               int            `json:"rooms" bson:"rooms"`
	YearBuilt           int            `json:"yearBuilt" bson:"yearBuilt"`
	Status              PropertyStatus `json:"status" bson:"status"`
	Reliability         float64        `json:"dataReliability" bson:"dataReliability"`
	ReviewCount         int            `json:"numberOfReviews" bson:"numberOfReviews"`
	SubmittedBy         string         `json:"submittedBy,omitempty" bson:"submittedBy,omitempty"`
	CreatedAt           time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt" bson:"updatedAt"`

	// Votes are never exposed on the wire; voter ids stay server side.
	Votes []Vote `json:"-" bson:"votes"`
}

// PricePerArea returns price divided by size, rounded to the nearest whole unit.
// A non-positive size yields 0.
func PricePerArea(price, size float64) float64 {
	if size <= 0 {
		return 0
	}
	return math.Round(price / size)
}

// FindVote returns the vote cast by voterID, if any.
func (p *Property) FindVote(voterID string) (Vote, bool) {
	for _, v := range p.Votes {
		if v.VoterID == voterID {
			return v, true
		}
	}
	return Vote{}, false
}

// HasVote reports whether voterID already voted on the property.
func (p *Property) HasVote(voterID string) bool {
	_, ok := p.FindVote(voterID)
	return ok
}

// AppendVote records v. It returns false when the voter already has a vote.
func (p *Property) AppendVote(v Vote) bool {
	if p.HasVote(v.VoterID) {
		return false
	}
	p.Votes = append(p.Votes, v)
	return true
}

// DropVote removes the vote cast by voterID and returns it.
func (p *Property) DropVote(voterID string) (Vote, bool) {
	for i, v := range p.Votes {
		if v.VoterID == voterID {
			p.Votes = append(p.Votes[:i:i], p.Votes[i+1:]...)
			return v, true
		}
	}
	return Vote{}, false
}
