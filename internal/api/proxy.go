// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rds-dashboard/bff/internal/logging"
	"github.com/rds-dashboard/bff/internal/routing"
)

// ProxyHandler forwards dashboard API calls to the backend service
// resolved from the path. The internal client's transport stamps the
// service contract headers on every forwarded request.
type ProxyHandler struct {
	registry  *routing.Registry
	transport http.RoundTripper
}

// NewProxyHandler builds the proxy over the registry using the internal
// client's transport.
func NewProxyHandler(registry *routing.Registry, client *http.Client) *ProxyHandler {
	return &ProxyHandler{
		registry:  registry,
		transport: client.Transport,
	}
}

// Service returns a handler that forwards the wildcard remainder of the
// path to the named backend.
func (p *ProxyHandler) Service(service routing.ServiceName) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.forward(w, r, service)
	})
}

func (p *ProxyHandler) forward(w http.ResponseWriter, r *http.Request, service routing.ServiceName) {
	endpoint, err := p.registry.Endpoint(service)
	if err != nil {
		respondError(w, r, http.StatusNotFound, "UNKNOWN_SERVICE", "Unknown backend service", err)
		return
	}

	target, err := url.Parse(endpoint)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "ROUTING_ERROR", "Backend endpoint misconfigured", err)
		return
	}

	rest := chi.URLParam(r, "*")

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Scheme = target.Scheme
			pr.Out.URL.Host = target.Host
			pr.Out.URL.Path = singleJoin(target.Path, rest)
			pr.Out.URL.RawQuery = r.URL.RawQuery
			pr.Out.Host = target.Host
			pr.SetXForwarded()
		},
		Transport: p.transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logging.Ctx(r.Context()).Error().
				Str("service", string(service)).
				Err(err).
				Msg("backend proxy failed")
			respondError(w, r, http.StatusBadGateway, "BACKEND_UNAVAILABLE", "Backend service unavailable", nil)
		},
	}

	proxy.ServeHTTP(w, r)
}

// singleJoin joins two path segments with exactly one slash.
func singleJoin(a, b string) string {
	a = strings.TrimRight(a, "/")
	b = strings.TrimLeft(b, "/")
	if b == "" {
		return a
	}
	return a + "/" + b
}
