// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/pricemap/internal/auth"
	"github.com/tomtom215/pricemap/internal/listing"
	"github.com/tomtom215/pricemap/internal/submission"
)

// removedResponse confirms an administrative removal.
type removedResponse struct {
	PropertyID string `json:"propertyId"`
	Removed    bool   `json:"removed"`
}

// ListProperties handles listing queries.
//
// @Summary List properties
// @Description Returns every property matching the filter plus the price range of the selection
// @Tags Properties
// @Produce json
// @Param status query string false "Buy or Rent"
// @Param propertyTypes query string false "Comma separated: Apartment, House"
// @Param minPrice query number false "Lower price bound (inclusive)"
// @Param maxPrice query number false "Upper price bound (inclusive)"
// @Param rooms query string false "Comma separated buckets: Any, N, N+"
// @Success 200 {object} APIResponse{data=listing.Result}
// @Failure 400 {object} APIResponse
// @Router /api/v1/properties [get]
func (rt *Router) ListProperties(w http.ResponseWriter, r *http.Request) {
	f, err := listing.ParseFilter(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	res, err := rt.deps.Listings.Query(r.Context(), f)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, res)
}

// PropertiesGeoJSON returns the filtered selection as a bare GeoJSON
// FeatureCollection, the shape map layers consume directly.
//
// @Summary Properties as GeoJSON
// @Tags Properties
// @Produce application/geo+json
// @Success 200 {object} models.FeatureCollection
// @Failure 400 {object} APIResponse
// @Router /api/v1/properties/geojson [get]
func (rt *Router) PropertiesGeoJSON(w http.ResponseWriter, r *http.Request) {
	f, err := listing.ParseFilter(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	fc, err := rt.deps.Listings.GeoJSON(r.Context(), f)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, "application/geo+json", fc)
}

// GetProperty returns one property.
//
// @Summary Get a property
// @Tags Properties
// @Produce json
// @Param propertyId path string true "Property id"
// @Success 200 {object} APIResponse{data=models.Property}
// @Failure 404 {object} APIResponse
// @Router /api/v1/properties/{propertyId} [get]
func (rt *Router) GetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := rt.deps.Listings.Get(r.Context(), chi.URLParam(r, "propertyId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, p)
}

// CreateProperty submits a new listing as the caller.
//
// @Summary Submit a property
// @Tags Properties
// @Accept json
// @Produce json
// @Param body body submission.Request true "Listing"
// @Success 201 {object} APIResponse{data=models.Property}
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Router /api/v1/properties [post]
func (rt *Router) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req submission.Request
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := rt.deps.Submissions.Submit(r.Context(), auth.SubjectFromContext(r.Context()).UserID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, p)
}

// DeleteProperty removes a listing. Admin only.
//
// @Summary Remove a property
// @Tags Admin
// @Produce json
// @Param propertyId path string true "Property id"
// @Success 200 {object} APIResponse{data=removedResponse}
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/v1/properties/{propertyId} [delete]
func (rt *Router) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "propertyId")
	if err := rt.deps.Submissions.Remove(r.Context(), auth.SubjectFromContext(r.Context()).UserID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, removedResponse{PropertyID: id, Removed: true})
}

// decodeBody reads a JSON body into dst and answers 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "Request body too large", nil)
			return false
		}
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body", nil)
		return false
	}
	return true
}
