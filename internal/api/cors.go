// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rds-dashboard/bff/internal/models"
	"github.com/rds-dashboard/bff/internal/origin"
)

// CORSPolicy is the single policy object shared by the preflight handler,
// the always-on header stamper, and the catch-all OPTIONS route. Origin
// admission itself is delegated to the validator; the policy owns the
// method/header surface.
type CORSPolicy struct {
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	MaxAge           int
	AllowCredentials bool
}

// DefaultCORSPolicy is the method/header surface the dashboard frontend
// uses.
func DefaultCORSPolicy() CORSPolicy {
	return CORSPolicy{
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Authorization", "Content-Type", "X-Request-ID", "X-Amz-Date", "X-Api-Key",
		},
		ExposedHeaders: []string{
			"X-Request-ID", "X-Token-Expiring-Soon", "X-Token-Expires-In",
		},
		MaxAge:           600,
		AllowCredentials: true,
	}
}

func (p CORSPolicy) allowsMethod(method string) bool {
	for _, m := range p.AllowedMethods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// CORSHandler serves preflight requests and stamps response headers using
// one origin validator for every decision.
type CORSHandler struct {
	validator *origin.Validator
	policy    CORSPolicy
}

// NewCORSHandler binds the policy to the origin validator.
func NewCORSHandler(validator *origin.Validator, policy CORSPolicy) *CORSHandler {
	return &CORSHandler{validator: validator, policy: policy}
}

// Preflight answers OPTIONS requests. A present-but-blocked Origin gets a
// 403 with no CORS headers; a disallowed requested method gets a 405;
// everything else gets the full header set and an empty 200. The audit
// event for the request was already recorded by Stamp, so the check here
// is the non-recording variant.
func (c *CORSHandler) Preflight(w http.ResponseWriter, r *http.Request) {
	reqOrigin := r.Header.Get("Origin")

	if reqOrigin != "" && !c.validator.IsAllowed(reqOrigin) {
		respondError(w, r, http.StatusForbidden, "ORIGIN_BLOCKED", "Origin not allowed", nil)
		return
	}

	if reqMethod := r.Header.Get("Access-Control-Request-Method"); reqMethod != "" && !c.policy.allowsMethod(reqMethod) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed for cross-origin requests", nil)
		return
	}

	h := w.Header()
	if reqOrigin != "" {
		h.Set("Access-Control-Allow-Origin", reqOrigin)
	}
	h.Set("Access-Control-Allow-Methods", strings.Join(c.policy.AllowedMethods, ", "))
	h.Set("Access-Control-Allow-Headers", strings.Join(c.policy.AllowedHeaders, ", "))
	h.Set("Access-Control-Expose-Headers", strings.Join(c.policy.ExposedHeaders, ", "))
	h.Set("Access-Control-Max-Age", strconv.Itoa(c.policy.MaxAge))
	if c.policy.AllowCredentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	h.Set("Vary", "Origin, Access-Control-Request-Method, Access-Control-Request-Headers")
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")

	w.WriteHeader(http.StatusOK)
}

// Stamp validates the request's Origin and adds CORS headers to every
// response when it is allowed, so browser-visible errors on non-preflight
// requests still carry them. This is the one audit point per request:
// each call records exactly one validation decision. Stamp never rejects;
// disallowed origins simply get no CORS headers and the browser enforces
// the block.
func (c *CORSHandler) Stamp(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqOrigin := r.Header.Get("Origin")
		result := c.validator.Validate(reqOrigin, origin.RequestMetaFrom(r))

		if reqOrigin != "" && result.Allowed {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", reqOrigin)
			h.Set("Access-Control-Expose-Headers", strings.Join(c.policy.ExposedHeaders, ", "))
			if c.policy.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			h.Add("Vary", "Origin")
		}
		next.ServeHTTP(w, r)
	})
}

// CatchAll answers OPTIONS on routes with no matching handler. Blocked
// origins still get a 403; everything else gets a 200 describing the
// policy so misrouted preflights fail loudly on the client instead of
// with an opaque 404.
func (c *CORSHandler) CatchAll(w http.ResponseWriter, r *http.Request) {
	reqOrigin := r.Header.Get("Origin")

	if reqOrigin != "" && !c.validator.IsAllowed(reqOrigin) {
		respondError(w, r, http.StatusForbidden, "ORIGIN_BLOCKED", "Origin not allowed", nil)
		return
	}

	if reqOrigin != "" {
		w.Header().Set("Access-Control-Allow-Origin", reqOrigin)
	}
	w.Header().Set("Vary", "Origin")

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"allowed_methods": c.policy.AllowedMethods,
			"allowed_headers": c.policy.AllowedHeaders,
			"exposed_headers": c.policy.ExposedHeaders,
			"max_age":         c.policy.MaxAge,
		},
	})
}
