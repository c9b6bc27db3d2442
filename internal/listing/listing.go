// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

// Package listing answers the map client's read queries. It never writes.
package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/pricemap/internal/metrics"
	"github.com/tomtom215/pricemap/internal/models"
	"github.com/tomtom215/pricemap/internal/store"
)

var (
	// ErrInvalidFilter wraps every filter parsing or validation failure.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrNotFound means the requested property does not exist.
	ErrNotFound = errors.New("property not found")
)

// Reader is the read side of the property store.
type Reader interface {
	GetProperty(ctx context.Context, id string) (*models.Property, error)
	ListProperties(ctx context.Context, filter models.ListingFilter) ([]models.Property, error)
}

// Result is a filtered selection plus the price range of the whole selection,
// which the client uses to calibrate its range sliders.
type Result struct {
	MinPrice float64           `json:"minPrice"`
	MaxPrice float64           `json:"maxPrice"`
	Data     []models.Property `json:"data"`
}

// Service serves listing queries.
type Service struct {
	reader Reader
}

// NewService creates a Service over r.
func NewService(r Reader) *Service {
	return &Service{reader: r}
}

// Query returns every property matching f. Both price bounds are zero when
// nothing matches.
func (s *Service) Query(ctx context.Context, f models.ListingFilter) (Result, error) {
	if err := Validate(f); err != nil {
		return Result{}, err
	}

	start := time.Now()
	props, err := s.reader.ListProperties(ctx, f)
	if err != nil {
		return Result{}, fmt.Errorf("query listings: %w", err)
	}
	if props == nil {
		props = []models.Property{}
	}
	metrics.RecordListingQuery(time.Since(start), len(props))

	res := Result{Data: props}
	res.MinPrice, res.MaxPrice = priceRange(props)
	return res, nil
}

// GeoJSON returns the same selection as Query as a feature collection.
func (s *Service) GeoJSON(ctx context.Context, f models.ListingFilter) (models.FeatureCollection, error) {
	res, err := s.Query(ctx, f)
	if err != nil {
		return models.FeatureCollection{}, err
	}
	return models.NewFeatureCollection(res.Data), nil
}

// Get returns one property without its votes.
func (s *Service) Get(ctx context.Context, id string) (*models.Property, error) {
	p, err := s.reader.GetProperty(ctx, id)
	if errors.Is(err, store.ErrPropertyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get property %s: %w", id, err)
	}
	p.Votes = nil
	return p, nil
}

func priceRange(props []models.Property) (lo, hi float64) {
	for i, p := range props {
		if i == 0 || p.Price < lo {
			lo = p.Price
		}
		if i == 0 || p.Price > hi {
			hi = p.Price
		}
	}
	return lo, hi
}

// Validate rejects filters with values no property can have.
func Validate(f models.ListingFilter) error {
	if f.Status != "" && !f.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, f.Status)
	}
	for _, t := range f.PropertyTypes {
		if !t.Valid() {
			return fmt.Errorf("%w: unknown property type %q", ErrInvalidFilter, t)
		}
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return fmt.Errorf("%w: minPrice must not be negative", ErrInvalidFilter)
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return fmt.Errorf("%w: maxPrice must not be negative", ErrInvalidFilter)
	}
	for _, b := range f.Rooms {
		if b.Kind != models.RoomsAny && b.N < 1 {
			return fmt.Errorf("%w: room count must be at least 1", ErrInvalidFilter)
		}
	}
	return nil
}
