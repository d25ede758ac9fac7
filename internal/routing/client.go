// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package routing

import (
	"net/http"
	"time"
)

// internalTimeout bounds a single backend call end to end.
const internalTimeout = 30 * time.Second

// userAgent identifies the BFF to backend services.
const userAgent = "RDS-Dashboard-BFF/1.0"

// headerTransport stamps the internal service contract headers on every
// outbound request. Backends use x-bff-request to distinguish BFF traffic
// from direct calls.
type headerTransport struct {
	apiKey string
	next   http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone before mutating; the transport contract forbids modifying
	// the caller's request.
	req = req.Clone(req.Context())

	if t.apiKey != "" {
		req.Header.Set("x-api-key", t.apiKey)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("x-bff-request", "true")
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return t.next.RoundTrip(req)
}

// NewInternalClient builds the HTTP client for backend calls. The API key
// authenticates the BFF to the internal gateway; pass empty to disable.
func NewInternalClient(apiKey string) *http.Client {
	return &http.Client{
		Timeout: internalTimeout,
		Transport: &headerTransport{
			apiKey: apiKey,
			next:   http.DefaultTransport,
		},
	}
}
