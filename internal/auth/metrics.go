// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bff_auth_attempts_total",
		Help: "Authentication attempts by outcome code.",
	}, []string{"code"})

	authDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bff_auth_verify_duration_seconds",
		Help:    "Token verification latency.",
		Buckets: prometheus.DefBuckets,
	})
)

// recordAuthOutcome tracks one authentication decision. Successful
// verifications use the code "ok".
func recordAuthOutcome(code string) {
	authAttempts.WithLabelValues(code).Inc()
}
