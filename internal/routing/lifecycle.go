// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package routing

import (
	"context"
	"errors"
	"sync"
	"time"
)

// healthInterval is how often the background probe runs.
const healthInterval = 60 * time.Second

// Lifecycle owns the routing layer's startup and shutdown. It runs the
// periodic health probe between Initialize and Shutdown.
type Lifecycle struct {
	registry *Registry
	checker  *HealthChecker

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewLifecycle wires the routing layer around an already-validated
// registry.
func NewLifecycle(registry *Registry, checker *HealthChecker) *Lifecycle {
	return &Lifecycle{
		registry: registry,
		checker:  checker,
	}
}

// Registry exposes the endpoint table for handler injection.
func (l *Lifecycle) Registry() *Registry {
	return l.registry
}

// Checker exposes the health checker for handler injection.
func (l *Lifecycle) Checker() *HealthChecker {
	return l.checker
}

// Initialize runs a first health probe and starts the periodic background
// probe. Calling Initialize twice is an error.
func (l *Lifecycle) Initialize(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		return errors.New("routing lifecycle already initialized")
	}
	l.started = true

	probeCtx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.done = make(chan struct{})

	l.checker.CheckHealth(ctx)

	go l.run(probeCtx)

	l.registry.log.Info().
		Int("services", len(l.registry.AllEndpoints())).
		Str("base_url", l.registry.BaseURL().String()).
		Msg("routing initialized")

	return nil
}

func (l *Lifecycle) run(ctx context.Context) {
	defer close(l.done)

	ticker := time.NewTicker(healthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.checker.CheckHealth(ctx)
		}
	}
}

// Shutdown stops the background probe and waits for it to exit. Safe to
// call once after a successful Initialize.
func (l *Lifecycle) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started || l.cancel == nil {
		return nil
	}
	l.cancel()

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
