// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package listing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/pricemap/internal/models"
	"github.com/tomtom215/pricemap/internal/store"
)

func newTestService(t *testing.T, props ...*models.Property) *Service {
	t.Helper()
	s, err := store.OpenBadger(store.BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	for _, p := range props {
		if err := s.CreateProperty(context.Background(), p); err != nil {
			t.Fatalf("CreateProperty: %v", err)
		}
	}
	return NewService(s)
}

func prop(id string, price float64, typ models.PropertyType, rooms int, status models.PropertyStatus, offset time.Duration) *models.Property {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).Add(offset)
	return &models.Property{
		ID:          id,
		Geometry:    models.NewGeoPoint(-3.7, 40.4),
		Price:       price,
		Type:        typ,
		Size:        80,
		Rooms:       rooms,
		Status:      status,
		Reliability: 100,
		CreatedAt:   created,
		UpdatedAt:   created,
		Votes:       []models.Vote{{VoterID: "u", VoteType: models.VoteEqual}},
	}
}

func fixture() []*models.Property {
	return []*models.Property{
		prop("a", 150000, models.PropertyTypeApartment, 1, models.StatusBuy, 0),
		prop("b", 320000, models.PropertyTypeApartment, 3, models.StatusBuy, time.Minute),
		prop("c", 540000, models.PropertyTypeHouse, 5, models.StatusBuy, 2*time.Minute),
		prop("d", 950, models.PropertyTypeApartment, 2, models.StatusRent, 3*time.Minute),
		prop("e", 2400, models.PropertyTypeHouse, 4, models.StatusRent, 4*time.Minute),
	}
}

func ptr(v float64) *float64 { return &v }

func TestQuery(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, fixture()...)

	tests := []struct {
		name     string
		filter   models.ListingFilter
		ids      []string
		min, max float64
	}{
		{"no filter", models.ListingFilter{}, []string{"a", "b", "c", "d", "e"}, 950, 540000},
		{"buy", models.ListingFilter{Status: models.StatusBuy}, []string{"a", "b", "c"}, 150000, 540000},
		{"rent houses", models.ListingFilter{Status: models.StatusRent, PropertyTypes: []models.PropertyType{models.PropertyTypeHouse}}, []string{"e"}, 2400, 2400},
		{"inclusive bounds", models.ListingFilter{MinPrice: ptr(150000), MaxPrice: ptr(320000)}, []string{"a", "b"}, 150000, 320000},
		{"three or more rooms", models.ListingFilter{Rooms: []models.RoomBucket{models.AtLeastRooms(3)}}, []string{"b", "c", "e"}, 2400, 540000},
		{"any wins", models.ListingFilter{Rooms: []models.RoomBucket{models.ExactRooms(9), models.AnyRooms()}}, []string{"a", "b", "c", "d", "e"}, 950, 540000},
		{"exact plus open", models.ListingFilter{Rooms: []models.RoomBucket{models.ExactRooms(1), models.AtLeastRooms(5)}}, []string{"a", "c"}, 150000, 540000},
		{"nothing", models.ListingFilter{MinPrice: ptr(1e9)}, nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Query(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if res.Data == nil {
				t.Fatal("Data is nil, want empty slice")
			}
			if len(res.Data) != len(tt.ids) {
				t.Fatalf("got %d results, want %d", len(res.Data), len(tt.ids))
			}
			for i, id := range tt.ids {
				if res.Data[i].ID != id {
					t.Errorf("Data[%d] = %s, want %s", i, res.Data[i].ID, id)
				}
				if res.Data[i].Votes != nil {
					t.Errorf("Data[%d] exposes votes", i)
				}
			}
			if res.MinPrice != tt.min || res.MaxPrice != tt.max {
				t.Errorf("range = [%v, %v], want [%v, %v]", res.MinPrice, res.MaxPrice, tt.min, tt.max)
			}
		})
	}
}

func TestQuery_InvalidFilter(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	_, err := svc.Query(context.Background(), models.ListingFilter{Status: "Lease"})
	if !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("error = %v, want ErrInvalidFilter", err)
	}
}

func TestGeoJSON(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, fixture()...)

	fc, err := svc.GeoJSON(context.Background(), models.ListingFilter{PropertyTypes: []models.PropertyType{models.PropertyTypeHouse}})
	if err != nil {
		t.Fatalf("GeoJSON: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 2 {
		t.Fatalf("collection = %+v", fc)
	}
	f := fc.Features[0]
	if f.ID != "c" || f.Properties.Type != "house" || f.Geometry.Type != "Point" {
		t.Errorf("feature = %+v", f)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, fixture()...)

	p, err := svc.Get(context.Background(), "c")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Price != 540000 || p.Votes != nil {
		t.Errorf("Get = %+v", p)
	}
	if _, err := svc.Get(context.Background(), "zzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(zzz) error = %v, want ErrNotFound", err)
	}
}
