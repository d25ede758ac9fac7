// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/rds-dashboard/bff/internal/logging"
)

func TestRequestLoggerCarriesRequestID(t *testing.T) {
	t.Parallel()

	var seen, seenChi string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestIDFromContext(r.Context())
		seenChi = middleware.GetReqID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("preserves chi request id", func(t *testing.T) {
		handler := middleware.RequestID(RequestLogger(inner))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

		if seenChi == "" {
			t.Fatal("chi request ID missing from context")
		}
		if seen != seenChi {
			t.Errorf("context request ID = %q, chi request ID = %q", seen, seenChi)
		}
	})

	t.Run("generates one when absent", func(t *testing.T) {
		handler := RequestLogger(inner)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		first := seen
		if first == "" {
			t.Fatal("no request ID generated without upstream middleware")
		}

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		if seen == first {
			t.Errorf("request ID %q repeated across requests", seen)
		}
	})
}
