// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package services

import (
	"context"
	"sync"

	"github.com/thejerf/suture/v4"
)

// ShutdownService owns a component that is already running, such as the
// embedded NATS server which starts in its constructor. Serve blocks until the
// tree stops and then calls the shutdown func exactly once. Later calls to
// Serve tell suture not to restart it.
type ShutdownService struct {
	name     string
	shutdown func()

	mu   sync.Mutex
	done bool
}

// NewShutdownService wraps fn under name.
func NewShutdownService(name string, fn func()) *ShutdownService {
	return &ShutdownService{name: name, shutdown: fn}
}

// Serve implements suture.Service.
func (s *ShutdownService) Serve(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done {
		return suture.ErrDoNotRestart
	}

	<-ctx.Done()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done {
		s.shutdown()
		s.done = true
	}
	return ctx.Err()
}

func (s *ShutdownService) String() string { return s.name }
