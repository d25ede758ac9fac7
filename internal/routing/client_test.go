// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestInternalClientStampsContractHeaders(t *testing.T) {
	t.Parallel()

	var got http.Header
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	client := NewInternalClient("secret-api-key")
	resp, err := client.Get(backend.URL + "/discovery/instances")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	tests := []struct {
		header string
		want   string
	}{
		{"x-api-key", "secret-api-key"},
		{"User-Agent", "RDS-Dashboard-BFF/1.0"},
		{"x-bff-request", "true"},
		{"Content-Type", "application/json"},
	}
	for _, tt := range tests {
		if v := got.Get(tt.header); v != tt.want {
			t.Errorf("header %s = %q, want %q", tt.header, v, tt.want)
		}
	}
}

func TestInternalClientPreservesExplicitContentType(t *testing.T) {
	t.Parallel()

	var got string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Content-Type")
	}))
	defer backend.Close()

	client := NewInternalClient("")
	req, err := http.NewRequest(http.MethodPost, backend.URL, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if got != "application/x-ndjson" {
		t.Errorf("Content-Type = %q, want explicit value preserved", got)
	}
}

func TestInternalClientOmitsEmptyAPIKey(t *testing.T) {
	t.Parallel()

	var got http.Header
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer backend.Close()

	client := NewInternalClient("")
	resp, err := client.Get(backend.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	if _, present := got["X-Api-Key"]; present {
		t.Error("x-api-key sent despite empty key")
	}
}

func TestInternalClientTimeoutConfigured(t *testing.T) {
	t.Parallel()

	client := NewInternalClient("key")
	if client.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", client.Timeout)
	}
}

func TestHealthCheckerAggregates(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	registry, err := NewRegistry(backend.URL, bffPublic)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	checker := NewHealthChecker(registry, NewInternalClient(""))
	stats := checker.CheckHealth(context.Background())

	if stats.TotalServices != len(AllServices) {
		t.Errorf("TotalServices = %d, want %d", stats.TotalServices, len(AllServices))
	}
	if stats.HealthyServices != len(AllServices) {
		t.Errorf("HealthyServices = %d, want %d", stats.HealthyServices, len(AllServices))
	}
	if stats.UnhealthyServices != 0 {
		t.Errorf("UnhealthyServices = %d, want 0", stats.UnhealthyServices)
	}
	if stats.LastHealthCheck.IsZero() {
		t.Error("LastHealthCheck not set")
	}

	// Statistics() returns the same aggregates.
	if got := checker.Statistics(); got.HealthyServices != stats.HealthyServices {
		t.Errorf("Statistics() = %+v, want %+v", got, stats)
	}
}

func TestStatisticsMarshalsMilliseconds(t *testing.T) {
	t.Parallel()

	stats := Statistics{
		TotalServices:       7,
		HealthyServices:     6,
		UnhealthyServices:   1,
		AverageResponseTime: 1500 * time.Millisecond,
		LastHealthCheck:     time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got struct {
		TotalServices       int   `json:"total_services"`
		AverageResponseTime int64 `json:"average_response_time_ms"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.TotalServices != 7 {
		t.Errorf("total_services = %d, want 7", got.TotalServices)
	}
	if got.AverageResponseTime != 1500 {
		t.Errorf("average_response_time_ms = %d, want 1500", got.AverageResponseTime)
	}
}

func TestHealthCheckerCountsFailures(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer backend.Close()

	registry, err := NewRegistry(backend.URL, bffPublic)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	checker := NewHealthChecker(registry, NewInternalClient(""))
	stats := checker.CheckHealth(context.Background())

	if stats.UnhealthyServices != len(AllServices) {
		t.Errorf("UnhealthyServices = %d, want %d", stats.UnhealthyServices, len(AllServices))
	}
}
