// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/pricemap/internal/models"
)

// Type names a property change.
type Type string

const (
	PropertyCreated Type = "property_created"
	PropertyUpdated Type = "property_updated"
	PropertyRemoved Type = "property_removed"
)

// Reasons attached to PropertyRemoved.
const (
	ReasonEliminated = "eliminated"
	ReasonAdmin      = "admin"
)

// Event is the payload published on the bus and relayed to websocket clients.
type Event struct {
	ID         string           `json:"id"`
	Type       Type             `json:"type"`
	PropertyID string           `json:"propertyId"`
	Property   *models.Property `json:"property,omitempty"`
	Reason     string           `json:"reason,omitempty"`
	OccurredAt time.Time        `json:"occurredAt"`
}

// NewPropertyEvent describes a created or updated property. The property is
// copied without its votes.
func NewPropertyEvent(t Type, p *models.Property) Event {
	cp := *p
	cp.Votes = nil
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		PropertyID: p.ID,
		Property:   &cp,
		OccurredAt: time.Now().UTC(),
	}
}

// NewRemovedEvent describes a deleted property.
func NewRemovedEvent(propertyID, reason string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       PropertyRemoved,
		PropertyID: propertyID,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
}

// Validate checks the fields every consumer relies on.
func (e *Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if e.PropertyID == "" {
		return fmt.Errorf("event %s: property id is required", e.ID)
	}
	switch e.Type {
	case PropertyCreated, PropertyUpdated:
		if e.Property == nil {
			return fmt.Errorf("event %s: %s requires a property", e.ID, e.Type)
		}
	case PropertyRemoved:
	default:
		return fmt.Errorf("event %s: unknown type %q", e.ID, e.Type)
	}
	return nil
}

// Marshal encodes the event for the wire.
func Marshal(e Event) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

// Unmarshal decodes and validates an event.
func Unmarshal(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	return e, nil
}
