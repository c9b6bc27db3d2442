// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package api

import (
	"net/http"

	"github.com/tomtom215/pricemap/internal/auth"
	"github.com/tomtom215/pricemap/internal/models"
	"github.com/tomtom215/pricemap/internal/users"
)

// Me returns the caller's profile.
//
// @Summary Own profile
// @Tags Users
// @Produce json
// @Success 200 {object} APIResponse{data=models.User}
// @Failure 401 {object} APIResponse
// @Router /api/v1/users/me [get]
func (rt *Router) Me(w http.ResponseWriter, r *http.Request) {
	u, err := rt.deps.Users.Get(r.Context(), auth.SubjectFromContext(r.Context()).UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, u)
}

// MyVotes lists the caller's votes.
//
// @Summary Own votes
// @Tags Users
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.UserVote}
// @Router /api/v1/users/me/votes [get]
func (rt *Router) MyVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := rt.deps.Users.Votes(r.Context(), auth.SubjectFromContext(r.Context()).UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if votes == nil {
		votes = []models.UserVote{}
	}
	respondJSON(w, r, http.StatusOK, votes)
}

// UpdatePreferences changes currency and measurement system.
//
// @Summary Update preferences
// @Tags Users
// @Accept json
// @Produce json
// @Param body body users.PreferencesRequest true "Preferences"
// @Success 200 {object} APIResponse{data=models.User}
// @Failure 400 {object} APIResponse
// @Router /api/v1/users/me/preferences [patch]
func (rt *Router) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req users.PreferencesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	u, err := rt.deps.Users.UpdatePreferences(r.Context(), auth.SubjectFromContext(r.Context()).UserID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, u)
}
