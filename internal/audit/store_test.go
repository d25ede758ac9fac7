// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package audit

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"
)

func makeEvent(id string, typ EventType) *Event {
	return &Event{
		ID:        id,
		Timestamp: time.Now().UTC(),
		Type:      typ,
		Severity:  SeverityInfo,
		Outcome:   OutcomeSuccess,
		Actor:     Actor{ID: "user-1", Type: "user"},
		Action:    "test.action",
	}
}

func TestMemoryStoreSaveAndQuery(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(100)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		typ := EventTypeAuthSuccess
		if i%2 == 1 {
			typ = EventTypeAuthFailure
		}
		if err := store.Save(ctx, makeEvent(fmt.Sprintf("ev-%d", i), typ)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	all, err := store.Query(ctx, nil, 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("Query(nil) = %d events, want 5", len(all))
	}
	// Newest first.
	if all[0].ID != "ev-4" {
		t.Errorf("first result = %q, want ev-4", all[0].ID)
	}

	failures, err := store.Query(ctx, []EventType{EventTypeAuthFailure}, 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(failures) != 2 {
		t.Errorf("failure query = %d events, want 2", len(failures))
	}

	limited, err := store.Query(ctx, nil, 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited query = %d events, want 2", len(limited))
	}
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.Save(ctx, makeEvent(fmt.Sprintf("ev-%d", i), EventTypeAuthSuccess)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	events, err := store.Query(ctx, nil, 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("retained %d events, want 3", len(events))
	}
	// ev-0 and ev-1 were evicted; newest first ordering.
	if events[0].ID != "ev-4" || events[2].ID != "ev-2" {
		t.Errorf("retained window = [%s..%s], want [ev-4..ev-2]", events[0].ID, events[2].ID)
	}
}

func TestMemoryStoreCount(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(100)
	ctx := context.Background()

	_ = store.Save(ctx, makeEvent("a", EventTypeAuthSuccess))
	_ = store.Save(ctx, makeEvent("b", EventTypeAuthFailure))
	_ = store.Save(ctx, makeEvent("c", EventTypeAuthFailure))

	counts, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if counts[EventTypeAuthSuccess] != 1 || counts[EventTypeAuthFailure] != 2 {
		t.Errorf("counts = %v, want success=1 failure=2", counts)
	}
}

func TestAuthLoggerRecordsSanitizedFailure(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(10)
	logger := NewAuthLogger(store)

	req := httptest.NewRequest("GET", "/api/discovery/instances", nil)
	req.Header.Set("User-Agent", "dashboard-frontend/2.1")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	logger.LogLoginFailure(context.Background(), req, "INVALID_SIGNATURE", "Token signature is invalid", "eyJh...kpXV")

	events, err := store.Query(context.Background(), []EventType{EventTypeAuthFailure}, 1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(events) != 1 {
		t.Fatal("no failure event recorded")
	}

	event := events[0]
	if event.Outcome != OutcomeFailure {
		t.Errorf("Outcome = %q, want failure", event.Outcome)
	}
	if event.Source.IPAddress != "203.0.113.9" {
		t.Errorf("IPAddress = %q, want first X-Forwarded-For hop", event.Source.IPAddress)
	}
	if event.Source.Path != "/api/discovery/instances" {
		t.Errorf("Path = %q", event.Source.Path)
	}
}

func TestAuthLoggerNilStoreIsNoOp(t *testing.T) {
	t.Parallel()

	logger := NewAuthLogger(nil)
	req := httptest.NewRequest("GET", "/", nil)

	// Must not panic.
	logger.LogLoginSuccess(context.Background(), req, "user-1", "u@example.com", "sess-1", []string{"Admin"})
	logger.LogLoginFailure(context.Background(), req, "AUTH_REQUIRED", "missing token", "")
}
