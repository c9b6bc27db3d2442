// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/pricemap/internal/auth"
	"github.com/tomtom215/pricemap/internal/models"
	"github.com/tomtom215/pricemap/internal/validation"
	"github.com/tomtom215/pricemap/internal/vote"
)

// voteRequest is the body of POST /vote/{propertyId}.
type voteRequest struct {
	VoteType string `json:"voteType" validate:"required,oneof=lower equal higher"`
}

// ValidationMessages implements validation.Messenger.
func (voteRequest) ValidationMessages() map[string]string {
	return map[string]string{"voteType": `Vote type must be one of "lower", "equal" or "higher"`}
}

// voteResponse is the result of adding or removing a vote.
type voteResponse struct {
	PropertyID string           `json:"propertyId"`
	Property   *models.Property `json:"property,omitempty"`
	Eliminated bool             `json:"eliminated"`
}

// voteLookup is the caller's vote, null when there is none.
type voteLookup struct {
	Vote *models.Vote `json:"vote"`
}

func newVoteResponse(o vote.Outcome) voteResponse {
	return voteResponse{PropertyID: o.PropertyID, Property: o.Property, Eliminated: o.Eliminated}
}

// GetVote returns the caller's vote on a property.
//
// @Summary Get own vote
// @Tags Votes
// @Produce json
// @Param propertyId path string true "Property id"
// @Success 200 {object} APIResponse{data=voteLookup}
// @Failure 404 {object} APIResponse
// @Router /api/v1/vote/{propertyId} [get]
func (rt *Router) GetVote(w http.ResponseWriter, r *http.Request) {
	v, err := rt.deps.Votes.GetUserVote(r.Context(), auth.SubjectFromContext(r.Context()).UserID, chi.URLParam(r, "propertyId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, voteLookup{Vote: v})
}

// AddVote records the caller's vote.
//
// @Summary Vote on a property
// @Description lower/higher dispute the price and cost reliability; equal confirms it. A dispute on a listing at or below the elimination threshold removes the listing.
// @Tags Votes
// @Accept json
// @Produce json
// @Param propertyId path string true "Property id"
// @Param body body voteRequest true "Vote"
// @Success 200 {object} APIResponse{data=voteResponse}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/v1/vote/{propertyId} [post]
func (rt *Router) AddVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		writeServiceError(w, r, verr)
		return
	}
	out, err := rt.deps.Votes.AddVote(r.Context(), auth.SubjectFromContext(r.Context()).UserID, chi.URLParam(r, "propertyId"), models.VoteType(req.VoteType))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, newVoteResponse(out))
}

// RemoveVote withdraws the caller's vote.
//
// @Summary Withdraw own vote
// @Tags Votes
// @Produce json
// @Param propertyId path string true "Property id"
// @Success 200 {object} APIResponse{data=voteResponse}
// @Failure 404 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/v1/vote/{propertyId} [delete]
func (rt *Router) RemoveVote(w http.ResponseWriter, r *http.Request) {
	out, err := rt.deps.Votes.RemoveVote(r.Context(), auth.SubjectFromContext(r.Context()).UserID, chi.URLParam(r, "propertyId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, newVoteResponse(out))
}
