// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package origin

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// validationTotal counts origin-validation decisions.
	// Labels:
	//   - decision: "allowed", "blocked", "invalid_format", "no_origin"
	validationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bff_origin_validation_total",
			Help: "Total number of origin validation decisions",
		},
		[]string{"decision"},
	)

	// suspiciousTotal counts suspicious-pattern matches by pattern name.
	suspiciousTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bff_origin_suspicious_total",
			Help: "Total number of suspicious origin pattern matches",
		},
		[]string{"pattern"},
	)
)
