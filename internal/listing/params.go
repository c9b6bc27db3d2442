// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package listing

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/pricemap/internal/models"
)

// ParseFilter builds a filter from query parameters:
//
//	status=Buy|Rent
//	propertyTypes=Apartment,House   (comma list or repeated)
//	minPrice=100000&maxPrice=250000 (inclusive)
//	rooms=1,2,3+ | rooms=Any        (comma list or repeated)
func ParseFilter(q url.Values) (models.ListingFilter, error) {
	var f models.ListingFilter

	if s := strings.TrimSpace(q.Get("status")); s != "" {
		st, err := models.ParsePropertyStatus(s)
		if err != nil {
			return f, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
		}
		f.Status = st
	}

	for _, s := range splitList(q["propertyTypes"]) {
		t, err := models.ParsePropertyType(s)
		if err != nil {
			return f, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
		}
		f.PropertyTypes = append(f.PropertyTypes, t)
	}

	var err error
	if f.MinPrice, err = parsePrice(q, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parsePrice(q, "maxPrice"); err != nil {
		return f, err
	}

	for _, s := range splitList(q["rooms"]) {
		b, err := models.ParseRoomBucket(s)
		if err != nil {
			return f, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
		}
		f.Rooms = append(f.Rooms, b)
	}

	return f, Validate(f)
}

func parsePrice(q url.Values, key string) (*float64, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %s must be a number", ErrInvalidFilter, key)
	}
	return &v, nil
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
