// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/rds-dashboard/bff/internal/logging"
	"github.com/rds-dashboard/bff/internal/models"
	"github.com/rds-dashboard/bff/internal/origin"
	"github.com/rds-dashboard/bff/internal/routing"
)

// Handlers serves the BFF-owned endpoints: health, admin, and routing
// statistics.
type Handlers struct {
	validator *origin.Validator
	checker   *routing.HealthChecker
	registry  *routing.Registry
}

// NewHandlers wires the handler dependencies.
func NewHandlers(validator *origin.Validator, registry *routing.Registry, checker *routing.HealthChecker) *Handlers {
	return &Handlers{
		validator: validator,
		checker:   checker,
		registry:  registry,
	}
}

// HealthLive reports process liveness.
func (h *Handlers) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]string{"status": "alive"},
	})
}

// HealthReady reports readiness from the last backend probe. The process
// stays ready when some backends are down; the dashboard degrades per
// panel rather than going dark.
func (h *Handlers) HealthReady(w http.ResponseWriter, r *http.Request) {
	stats := h.checker.Statistics()

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"status":     "ready",
			"services":   stats.TotalServices,
			"healthy":    stats.HealthyServices,
			"unhealthy":  stats.UnhealthyServices,
			"last_check": stats.LastHealthCheck,
		},
	})
}

// SecurityEvents returns the recent origin-validation decisions and the
// per-kind counts.
func (h *Handlers) SecurityEvents(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > origin.AuditCapacity {
			respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
				"limit must be an integer between 1 and "+strconv.Itoa(origin.AuditCapacity), nil)
			return
		}
		limit = parsed
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"events": h.validator.RecentEvents(limit),
			"stats":  h.validator.Stats(),
		},
	})
}

// updateOriginsRequest is the hot-reload payload.
type updateOriginsRequest struct {
	Origins []string `json:"origins"`
}

// UpdateOrigins hot-swaps the origin allowlist without a restart. The new
// list is validated before it replaces the old one; a bad list leaves the
// current allowlist untouched.
func (h *Handlers) UpdateOrigins(w http.ResponseWriter, r *http.Request) {
	var req updateOriginsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", err)
		return
	}

	if err := h.validator.UpdateAllowedOrigins(req.Origins); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Origin allowlist rejected: "+err.Error(), nil)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int("origins", len(req.Origins)).
		Msg("origin allowlist updated")

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"origins": h.validator.AllowedOrigins(),
		},
	})
}

// RoutingStatistics reports the registry endpoints and aggregate backend
// health.
func (h *Handlers) RoutingStatistics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"endpoints":  h.registry.AllEndpoints(),
			"statistics": h.checker.Statistics(),
		},
	})
}
