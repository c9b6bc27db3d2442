// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package models

import (
	"strings"
	"time"
)

// FeatureCollection is the GeoJSON document the map source consumes.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is one property rendered as a map point.
type Feature struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Geometry   GeoPoint          `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// FeatureProperties are the attributes shown in map popups and used by heatmap layers.
type FeatureProperties struct {
	ID                  string         `json:"id"`
	Price               float64        `json:"price"`
	Size                float64        `json:"size"`
	PricePerSquareMeter float64        `json:"pricePerSquareMeter"`
	Rooms               int            `json:"rooms"`
	YearBuilt           int            `json:"yearBuilt"`
	Type                string         `json:"type"`
	Status              PropertyStatus `json:"status"`
	UpdatedAt           time.Time      `json:"updatedAt"`
	NumberOfReviews     int            `json:"numberOfReviews"`
	DataReliability     float64        `json:"dataReliability"`
}

// NewFeatureCollection projects properties into GeoJSON features.
// The feature type is lower-cased, matching the map layer's style expressions.
func NewFeatureCollection(props []Property) FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(props))}
	for i := range props {
		p := &props[i]
		fc.Features = append(fc.Features, Feature{
			Type:     "Feature",
			ID:       p.ID,
			Geometry: p.Geometry,
			Properties: FeatureProperties{
				ID:                  p.ID,
				Price:               p.Price,
				Size:                p.Size,
				PricePerSquareMeter: p.PricePerSquareMeter,
				Rooms:               p.Rooms,
				YearBuilt:           p.YearBuilt,
				Type:                strings.ToLower(string(p.Type)),
				Status:              p.Status,
				UpdatedAt:           p.UpdatedAt,
				NumberOfReviews:     p.ReviewCount,
				DataReliability:     p.Reliability,
			},
		})
	}
	return fc
}
