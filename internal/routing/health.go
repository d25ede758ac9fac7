// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package routing

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// Statistics summarizes the registry and the most recent health probe.
type Statistics struct {
	TotalServices       int
	HealthyServices     int
	UnhealthyServices   int
	AverageResponseTime time.Duration
	LastHealthCheck     time.Time
}

// MarshalJSON reports the average probe latency in whole milliseconds.
func (s Statistics) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TotalServices       int       `json:"total_services"`
		HealthyServices     int       `json:"healthy_services"`
		UnhealthyServices   int       `json:"unhealthy_services"`
		AverageResponseTime int64     `json:"average_response_time_ms"`
		LastHealthCheck     time.Time `json:"last_health_check"`
	}{
		TotalServices:       s.TotalServices,
		HealthyServices:     s.HealthyServices,
		UnhealthyServices:   s.UnhealthyServices,
		AverageResponseTime: s.AverageResponseTime.Milliseconds(),
		LastHealthCheck:     s.LastHealthCheck,
	})
}

// HealthChecker probes backend services and tracks aggregate results.
type HealthChecker struct {
	mu       sync.RWMutex
	registry *Registry
	client   *http.Client
	stats    Statistics
}

// NewHealthChecker creates a checker over the registry using the internal
// client for probes.
func NewHealthChecker(registry *Registry, client *http.Client) *HealthChecker {
	return &HealthChecker{
		registry: registry,
		client:   client,
		stats: Statistics{
			TotalServices: len(registry.AllEndpoints()),
		},
	}
}

// CheckHealth probes every registered service once and updates the
// aggregate statistics. Probes run sequentially; the caller's context
// bounds the whole pass.
func (h *HealthChecker) CheckHealth(ctx context.Context) Statistics {
	endpoints := h.registry.AllEndpoints()

	var (
		healthy   int
		unhealthy int
		total     time.Duration
		probed    int
	)

	for name, endpoint := range endpoints {
		ok, elapsed := h.probe(ctx, endpoint+"/health")
		if ok {
			healthy++
		} else {
			unhealthy++
			h.registry.log.Warn().
				Str("service", string(name)).
				Dur("elapsed", elapsed).
				Msg("service health probe failed")
		}
		total += elapsed
		probed++
	}

	stats := Statistics{
		TotalServices:     len(endpoints),
		HealthyServices:   healthy,
		UnhealthyServices: unhealthy,
		LastHealthCheck:   time.Now().UTC(),
	}
	if probed > 0 {
		stats.AverageResponseTime = total / time.Duration(probed)
	}

	h.mu.Lock()
	h.stats = stats
	h.mu.Unlock()

	return stats
}

// probe issues one GET and reports success for any 2xx response.
func (h *HealthChecker) probe(ctx context.Context, endpoint string) (bool, time.Duration) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, 0
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return false, elapsed
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300, elapsed
}

// Statistics returns the aggregates from the most recent probe. Before the
// first probe it reports only the service count.
func (h *HealthChecker) Statistics() Statistics {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stats
}
