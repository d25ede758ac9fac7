// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rds-dashboard/bff/internal/auth"
	"github.com/rds-dashboard/bff/internal/authz"
	"github.com/rds-dashboard/bff/internal/config"
	"github.com/rds-dashboard/bff/internal/origin"
	"github.com/rds-dashboard/bff/internal/routing"
)

// servicePermissions gates each backend service on a capability. Reads
// are per-domain; operational services require execute or approve rights.
var servicePermissions = map[routing.ServiceName]authz.Permission{
	routing.ServiceDiscovery:  authz.PermViewInstances,
	routing.ServiceOperations: authz.PermExecuteOperations,
	routing.ServiceMonitoring: authz.PermViewMonitoring,
	routing.ServiceCompliance: authz.PermViewCompliance,
	routing.ServiceCosts:      authz.PermViewCosts,
	routing.ServiceApprovals:  authz.PermApproveOperations,
	routing.ServiceCloudOps:   authz.PermExecuteOperations,
}

// proxyMethods are the methods forwarded to backend services. OPTIONS is
// never proxied; preflights are answered locally by the CORS handler, and
// binding the proxy per method keeps the static service routes from
// claiming OPTIONS ahead of the preflight route.
var proxyMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// Deps are the collaborators the router needs. All are constructed at the
// composition root and injected here.
type Deps struct {
	Config    *config.Config
	Validator *origin.Validator
	Auth      *auth.Middleware
	Registry  *routing.Registry
	Checker   *routing.HealthChecker
	Client    *http.Client
}

// NewRouter assembles the full HTTP surface.
func NewRouter(deps Deps) chi.Router {
	cors := NewCORSHandler(deps.Validator, DefaultCORSPolicy())
	proxy := NewProxyHandler(deps.Registry, deps.Client)
	handlers := NewHandlers(deps.Validator, deps.Registry, deps.Checker)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(SecurityHeaders)
	if limit := deps.Config.Security.RateLimit; limit > 0 {
		r.Use(httprate.LimitByIP(limit, time.Minute))
	}
	r.Use(cors.Stamp)

	// Liveness and metrics stay outside authentication.
	r.Get("/health/live", handlers.HealthLive)
	r.Get("/health/ready", handlers.HealthReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Options("/*", cors.Preflight)

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Authenticate)
			r.Use(auth.CheckTokenExpiry(deps.Config.Security.TokenExpiryWarning))

			for service, perm := range servicePermissions {
				sr := r.With(auth.RequirePermission(perm))
				h := proxy.Service(service)
				for _, method := range proxyMethods {
					sr.Method(method, "/"+string(service)+"/*", h)
				}
			}

			r.With(auth.RequirePermission(authz.PermViewMonitoring)).
				Get("/routing/statistics", handlers.RoutingStatistics)

			// Registered per method rather than as a mounted subrouter so
			// OPTIONS on admin paths still reaches the preflight handler.
			admin := r.With(auth.RequirePermission(authz.PermManageUsers))
			admin.Get("/admin/security-events", handlers.SecurityEvents)
			admin.Put("/admin/origins", handlers.UpdateOrigins)
		})
	})

	// Misrouted preflights get a policy description instead of an opaque
	// 404.
	r.Options("/*", cors.CatchAll)

	return r
}
