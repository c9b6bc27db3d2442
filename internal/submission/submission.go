// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

// Package submission manages the listing lifecycle outside of voting: new
// submissions and administrative removal.
package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/pricemap/internal/events"
	"github.com/tomtom215/pricemap/internal/logging"
	"github.com/tomtom215/pricemap/internal/metrics"
	"github.com/tomtom215/pricemap/internal/models"
	"github.com/tomtom215/pricemap/internal/reliability"
	"github.com/tomtom215/pricemap/internal/store"
	"github.com/tomtom215/pricemap/internal/validation"
)

// ErrNotFound means the property to remove does not exist.
var ErrNotFound = errors.New("property not found")

// GeometryInput is the GeoJSON point of a submission.
type GeometryInput struct {
	Type        string     `json:"type" validate:"required,eq=Point"`
	Coordinates [2]float64 `json:"coordinates" validate:"lonlat"`
}

// Request is the body of a listing submission.
type Request struct {
	Geometry            GeometryInput `json:"geometry"`
	Price               float64       `json:"price" validate:"gt=0"`
	Type                string        `json:"type" validate:"oneof=Apartment House"`
	Size                float64       `json:"size" validate:"gt=0"`
	PricePerSquareMeter *float64      `json:"pricePerSquareMeter,omitempty" validate:"omitempty,gt=0"`
	Rooms               int           `json:"rooms" validate:"gte=1"`
	YearBuilt           int           `json:"yearBuilt" validate:"gte=1800,notfuture"`
	Status              string        `json:"status" validate:"oneof=Buy Rent"`
}

// ValidationMessages implements validation.Messenger.
func (Request) ValidationMessages() map[string]string {
	return map[string]string{
		"geometry.type":        `Geometry type must be "Point"`,
		"geometry.coordinates": "Geometry coordinates must be an array of 2 numbers",
		"price":                "Price must be a positive number",
		"type":                 `Property type must be either "Apartment" or "House"`,
		"size":                 "Size must be a positive number",
		"pricePerSquareMeter":  "Price per square meter must be a positive number",
		"rooms":                "Number of rooms must be at least 1",
		"yearBuilt":            "Year built must be between 1800 and current year",
		"status":               `Status must be either "Buy" or "Rent"`,
	}
}

// Store persists and removes properties.
type Store interface {
	CreateProperty(ctx context.Context, p *models.Property) error
	DeleteProperty(ctx context.Context, id string) error
}

// Publisher receives the property_created event.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Service creates listings.
type Service struct {
	store     Store
	publisher Publisher
	now       func() time.Time
}

// NewService creates a Service. publisher may be nil.
func NewService(s Store, publisher Publisher) *Service {
	return &Service{store: s, publisher: publisher, now: func() time.Time { return time.Now().UTC() }}
}

// Submit validates req and stores it as a new property submitted by userID.
// Validation failures are returned as *validation.RequestValidationError.
func (s *Service) Submit(ctx context.Context, userID string, req Request) (*models.Property, error) {
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}

	now := s.now()
	p := &models.Property{
		ID:          uuid.NewString(),
		Geometry:    models.NewGeoPoint(req.Geometry.Coordinates[0], req.Geometry.Coordinates[1]),
		Price:       req.Price,
		Type:        models.PropertyType(req.Type),
		Size:        req.Size,
		Rooms:       req.Rooms,
		YearBuilt:   req.YearBuilt,
		Status:      models.PropertyStatus(req.Status),
		Reliability: reliability.Max,
		ReviewCount: 0,
		SubmittedBy: userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.PricePerSquareMeter != nil {
		p.PricePerSquareMeter = *req.PricePerSquareMeter
	} else {
		p.PricePerSquareMeter = models.PricePerArea(req.Price, req.Size)
	}

	if err := s.store.CreateProperty(ctx, p); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	metrics.PropertiesCreated.Inc()
	logging.Ctx(ctx).Info().
		Str("property_id", p.ID).
		Str("submitted_by", userID).
		Str("type", string(p.Type)).
		Str("status", string(p.Status)).
		Msg("Property submitted")

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewPropertyEvent(events.PropertyCreated, p)); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("property_id", p.ID).Msg("Failed to publish property event")
		}
	}
	return p, nil
}

// Remove deletes a property on behalf of an administrator and announces it
// with a property_removed event.
func (s *Service) Remove(ctx context.Context, adminID, propertyID string) error {
	err := s.store.DeleteProperty(ctx, propertyID)
	if errors.Is(err, store.ErrPropertyNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, propertyID)
	}
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	logging.Ctx(ctx).Info().
		Str("property_id", propertyID).
		Str("removed_by", adminID).
		Msg("Property removed by administrator")

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewRemovedEvent(propertyID, events.ReasonAdmin)); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("property_id", propertyID).Msg("Failed to publish property event")
		}
	}
	return nil
}
