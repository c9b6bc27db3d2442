// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package api

import (
	"context"
	"net/http"
	"time"
)

// healthPingTimeout bounds the store ping.
const healthPingTimeout = 2 * time.Second

// HealthStatus is the body of GET /api/health.
type HealthStatus struct {
	Status        string           `json:"status"`
	Version       string           `json:"version,omitempty"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Store         ComponentHealth  `json:"store"`
	Events        *ComponentHealth `json:"events,omitempty"`
	WebSocket     *WebSocketHealth `json:"websocket,omitempty"`
}

// ComponentHealth describes one dependency.
type ComponentHealth struct {
	Backend string `json:"backend"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// WebSocketHealth reports connected clients.
type WebSocketHealth struct {
	Clients int `json:"clients"`
}

// Health reports dependency status. It answers 503 when the store is down
// and "degraded" when the event bus breaker is open.
//
// @Summary Health check
// @Tags Operations
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus}
// @Failure 503 {object} APIResponse{data=HealthStatus}
// @Router /api/health [get]
func (rt *Router) Health(w http.ResponseWriter, r *http.Request) {
	hs := HealthStatus{
		Status:        "ok",
		Version:       rt.deps.Version,
		UptimeSeconds: int64(time.Since(rt.started).Seconds()),
		Store:         ComponentHealth{Backend: rt.deps.Store.Backend(), Status: "ok"},
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()
	status := http.StatusOK
	if err := rt.deps.Store.Ping(ctx); err != nil {
		hs.Status = "unavailable"
		hs.Store.Status = "down"
		hs.Store.Error = err.Error()
		status = http.StatusServiceUnavailable
	}

	if bus := rt.deps.Bus; bus != nil {
		ev := &ComponentHealth{Backend: bus.Backend(), Status: bus.BreakerState()}
		if ev.Status == "open" && hs.Status == "ok" {
			hs.Status = "degraded"
		}
		hs.Events = ev
	}
	if rt.deps.Hub != nil {
		hs.WebSocket = &WebSocketHealth{Clients: rt.deps.Hub.GetClientCount()}
	}

	writeJSON(w, r, status, "application/json", APIResponse{Success: status == http.StatusOK, Data: hs, Meta: meta(r)})
}
