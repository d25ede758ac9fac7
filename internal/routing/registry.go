// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package routing resolves dashboard API paths to backend service
// endpoints and owns the internal HTTP client used to reach them.
package routing

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/rds-dashboard/bff/internal/logging"
	"github.com/rs/zerolog"
)

// ServiceName identifies a backend service behind the BFF.
type ServiceName string

// Backend services the dashboard fans out to.
const (
	ServiceDiscovery  ServiceName = "discovery"
	ServiceOperations ServiceName = "operations"
	ServiceMonitoring ServiceName = "monitoring"
	ServiceCompliance ServiceName = "compliance"
	ServiceCosts      ServiceName = "costs"
	ServiceApprovals  ServiceName = "approvals"
	ServiceCloudOps   ServiceName = "cloudops"
)

// AllServices is the closed set of routable backends.
var AllServices = []ServiceName{
	ServiceDiscovery,
	ServiceOperations,
	ServiceMonitoring,
	ServiceCompliance,
	ServiceCosts,
	ServiceApprovals,
	ServiceCloudOps,
}

// servicePaths maps each service to its path segment under the internal
// API base URL.
var servicePaths = map[ServiceName]string{
	ServiceDiscovery:  "/discovery",
	ServiceOperations: "/operations",
	ServiceMonitoring: "/monitoring",
	ServiceCompliance: "/compliance",
	ServiceCosts:      "/costs",
	ServiceApprovals:  "/approvals",
	ServiceCloudOps:   "/cloudops",
}

// stageSegments are API-gateway deployment stages that must never appear
// in a configured base path. Their presence means the URL points at a
// gateway stage root instead of the internal API, which produces routing
// loops in deployed environments.
var stageSegments = []string{"/prod", "/staging", "/dev", "/$default"}

// Registry resolves service names to absolute endpoint URLs. Construction
// fails when the configuration would route the BFF back into itself.
type Registry struct {
	mu        sync.RWMutex
	base      *url.URL
	endpoints map[ServiceName]string
	log       zerolog.Logger
}

// NewRegistry builds the endpoint table from the internal API base URL.
// bffURL is the BFF's own public URL; a base URL sharing its host is a
// circular reference and is rejected.
func NewRegistry(internalBaseURL, bffURL string) (*Registry, error) {
	base, err := url.Parse(internalBaseURL)
	if err != nil {
		return nil, fmt.Errorf("internal API URL %q: %w", internalBaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("internal API URL %q: scheme must be http or https", internalBaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("internal API URL %q: missing host", internalBaseURL)
	}

	if err := checkCircular(base, bffURL); err != nil {
		return nil, err
	}
	if seg := findStageSegment(base.Path); seg != "" {
		return nil, fmt.Errorf("internal API URL %q: path contains gateway stage segment %q", internalBaseURL, seg)
	}

	endpoints := make(map[ServiceName]string, len(servicePaths))
	for name, p := range servicePaths {
		endpoints[name] = strings.TrimRight(base.String(), "/") + p
	}

	return &Registry{
		base:      base,
		endpoints: endpoints,
		log:       logging.With().Str("component", "routing").Logger(),
	}, nil
}

// checkCircular rejects an internal base URL whose host is the BFF
// itself. Proxying to our own host would recurse until the request chain
// exhausts.
func checkCircular(base *url.URL, bffURL string) error {
	if bffURL == "" {
		return nil
	}
	bff, err := url.Parse(bffURL)
	if err != nil {
		return fmt.Errorf("BFF URL %q: %w", bffURL, err)
	}
	if bff.Host != "" && strings.EqualFold(base.Host, bff.Host) {
		return fmt.Errorf("internal API URL host %q matches the BFF's own host: circular reference", base.Host)
	}
	return nil
}

// findStageSegment returns the first gateway stage segment present in the
// path, or empty.
func findStageSegment(path string) string {
	for _, seg := range stageSegments {
		trimmed := strings.TrimPrefix(seg, "/")
		for _, part := range strings.Split(path, "/") {
			if part == trimmed {
				return seg
			}
		}
	}
	return ""
}

// Endpoint returns the absolute URL for a service.
func (r *Registry) Endpoint(name ServiceName) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ep, ok := r.endpoints[name]
	if !ok {
		return "", fmt.Errorf("unknown service %q", name)
	}
	return ep, nil
}

// AllEndpoints returns a copy of the full endpoint table.
func (r *Registry) AllEndpoints() map[ServiceName]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[ServiceName]string, len(r.endpoints))
	for k, v := range r.endpoints {
		out[k] = v
	}
	return out
}

// ServiceNames returns the registered services in stable order.
func (r *Registry) ServiceNames() []ServiceName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]ServiceName, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// BaseURL returns the configured internal API base.
func (r *Registry) BaseURL() *url.URL {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := *r.base
	return &copied
}
