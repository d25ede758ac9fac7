// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audit provides security audit logging for the BFF admission
// control plane. It records authentication and origin-validation decisions
// for compliance and forensic analysis.
package audit

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

// EventType categorizes audit events.
type EventType string

const (
	// Authentication events
	EventTypeAuthSuccess EventType = "auth.login_success"
	EventTypeAuthFailure EventType = "auth.login_failure"

	// Origin admission events
	EventTypeOriginAllowed    EventType = "origin.allowed"
	EventTypeOriginBlocked    EventType = "origin.blocked"
	EventTypeOriginSuspicious EventType = "origin.suspicious"
	EventTypeOriginInvalid    EventType = "origin.invalid_format"

	// Configuration events
	EventTypeConfigChanged EventType = "config.changed"
)

// Severity indicates the severity level of an audit event.
type Severity string

const (
	SeverityDebug    Severity = "debug"
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Outcome indicates whether an action succeeded or failed.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Event represents a security audit event. Events are immutable after
// creation.
type Event struct {
	// ID is a unique identifier for this event.
	ID string `json:"id"`

	// Timestamp when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// Severity of the event.
	Severity Severity `json:"severity"`

	// Outcome indicates success or failure.
	Outcome Outcome `json:"outcome"`

	// Actor who performed the action.
	Actor Actor `json:"actor"`

	// Source of the request.
	Source Source `json:"source"`

	// Action describes what was done (e.g. "origin.validate", "auth.login").
	Action string `json:"action"`

	// Description provides human-readable details.
	Description string `json:"description"`

	// Metadata contains event-specific details.
	Metadata json.RawMessage `json:"metadata,omitempty"`

	// RequestID from the originating HTTP request.
	RequestID string `json:"request_id,omitempty"`
}

// Actor represents who performed an action.
type Actor struct {
	// ID is the unique identifier (user ID or "anonymous").
	ID string `json:"id"`

	// Type of actor (user, service, browser).
	Type string `json:"type"`

	// Name is the username or service name.
	Name string `json:"name,omitempty"`

	// Groups the actor belongs to.
	Groups []string `json:"groups,omitempty"`

	// SessionID if authenticated.
	SessionID string `json:"session_id,omitempty"`
}

// Source represents where a request originated.
type Source struct {
	// IPAddress of the client.
	IPAddress string `json:"ip_address"`

	// UserAgent of the client.
	UserAgent string `json:"user_agent,omitempty"`

	// Origin header value, if present.
	Origin string `json:"origin,omitempty"`

	// Path of the request.
	Path string `json:"path,omitempty"`

	// Method of the request.
	Method string `json:"method,omitempty"`
}

// Store defines the interface for audit event persistence.
// Save is fire-and-forget at call sites: a failed save is logged, never
// propagated into the request path.
type Store interface {
	// Save persists an audit event.
	Save(ctx context.Context, event *Event) error

	// Query retrieves the most recent events of the given types,
	// newest first. A nil types slice matches all events.
	Query(ctx context.Context, types []EventType, limit int) ([]Event, error)

	// Count returns the number of stored events per event type.
	Count(ctx context.Context) (map[EventType]int64, error)
}
