// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package origin implements allowlist-based Origin header validation with
// threat heuristics and a bounded in-process audit trail.
//
// Admission is decided by exact-match membership in the configured
// allowlist; there is no wildcard or subdomain matching. Suspicious-pattern
// detection runs on every call and is recorded independently of the
// admission decision: an allowlisted origin that matches a heuristic is
// still admitted, because the allowlist is the authoritative trust boundary.
package origin

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rds-dashboard/bff/internal/logging"
)

// AuditCapacity bounds the in-process security event trail.
const AuditCapacity = 1000

// EventKind classifies an origin-validation decision.
type EventKind string

const (
	KindOriginAllowed EventKind = "ORIGIN_ALLOWED"
	KindOriginBlocked EventKind = "ORIGIN_BLOCKED"
	KindInvalidFormat EventKind = "INVALID_ORIGIN_FORMAT"
	KindSuspicious    EventKind = "SUSPICIOUS_ORIGIN"
)

// SecurityEvent records a single origin-validation decision. Events are
// immutable after creation and live in the validator's bounded ring buffer
// until evicted.
type SecurityEvent struct {
	Kind      EventKind `json:"kind"`
	Origin    string    `json:"origin"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
	Allowed   bool      `json:"allowed"`
	ClientIP  string    `json:"client_ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Path      string    `json:"path,omitempty"`
	Method    string    `json:"method,omitempty"`
}

// RequestMeta carries request context recorded alongside each decision.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Path      string
	Method    string
}

// Result is the outcome of a single validation call.
type Result struct {
	// Allowed reports whether the origin is admitted.
	Allowed bool

	// Reason explains the decision.
	Reason string

	// Event is the audit record appended for this decision; nil when the
	// request carried no Origin header.
	Event *SecurityEvent
}

// Validator classifies Origin header values against an allowlist and a set
// of suspicious-pattern heuristics, keeping a bounded audit trail of every
// decision. Safe for concurrent use.
type Validator struct {
	mu       sync.Mutex
	allowed  map[string]struct{}
	ordered  []string
	patterns []SuspiciousPattern
	events   *eventRing
	log      *logging.SecurityLogger
}

// Option configures a Validator.
type Option func(*Validator)

// WithPatterns replaces the default suspicious-pattern list.
func WithPatterns(patterns []SuspiciousPattern) Option {
	return func(v *Validator) { v.patterns = patterns }
}

// WithAuditCapacity overrides the audit trail capacity.
func WithAuditCapacity(capacity int) Option {
	return func(v *Validator) { v.events = newEventRing(capacity) }
}

// WithSecurityLogger replaces the default security logger.
func WithSecurityLogger(l *logging.SecurityLogger) Option {
	return func(v *Validator) { v.log = l }
}

// NewValidator creates a Validator for the given allowlist. Every entry
// must be an absolute http or https URL; a malformed entry is a
// configuration error and the process must not start with it.
func NewValidator(allowedOrigins []string, opts ...Option) (*Validator, error) {
	v := &Validator{
		patterns: DefaultSuspiciousPatterns(),
		events:   newEventRing(AuditCapacity),
		log:      logging.NewSecurityLogger("origin"),
	}
	for _, opt := range opts {
		opt(v)
	}

	allowed, ordered, err := buildAllowSet(allowedOrigins)
	if err != nil {
		return nil, err
	}
	v.allowed = allowed
	v.ordered = ordered
	return v, nil
}

// buildAllowSet validates and indexes an allowlist.
func buildAllowSet(origins []string) (map[string]struct{}, []string, error) {
	allowed := make(map[string]struct{}, len(origins))
	ordered := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if err := checkOriginSyntax(o); err != nil {
			return nil, nil, fmt.Errorf("allowed origin %q: %w", o, err)
		}
		if _, dup := allowed[o]; dup {
			continue
		}
		allowed[o] = struct{}{}
		ordered = append(ordered, o)
	}
	if len(ordered) == 0 {
		return nil, nil, fmt.Errorf("allowed origin list is empty")
	}
	return allowed, ordered, nil
}

// checkOriginSyntax verifies an origin is an absolute http(s) URL.
func checkOriginSyntax(origin string) error {
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid origin format: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid origin format: host is required")
	}
	return nil
}

// Validate classifies an Origin header value and appends one audit event
// per decision. An empty origin (server-to-server or non-browser caller)
// is always admitted and records no event.
//
// The suspicious-pattern scan and the syntax check both run before the
// allowlist decision so the audit trail captures the attempt regardless of
// outcome. A suspicious match alone never rejects: admission is decided by
// exact allowlist membership.
func (v *Validator) Validate(originHeader string, meta RequestMeta) Result {
	if originHeader == "" {
		validationTotal.WithLabelValues("no_origin").Inc()
		return Result{Allowed: true, Reason: "no origin header"}
	}

	suspicious := matchSuspicious(v.patterns, originHeader)
	if suspicious != nil {
		suspiciousTotal.WithLabelValues(suspicious.Name).Inc()
	}

	if err := checkOriginSyntax(originHeader); err != nil {
		event := v.record(KindInvalidFormat, originHeader, err.Error(), false, meta)
		validationTotal.WithLabelValues("invalid_format").Inc()
		v.logDecision(zerolog.ErrorLevel, &event, "origin rejected: invalid format")
		return Result{Allowed: false, Reason: err.Error(), Event: &event}
	}

	v.mu.Lock()
	_, member := v.allowed[originHeader]
	v.mu.Unlock()

	kind := KindOriginBlocked
	reason := "origin not in allowlist"
	if member {
		kind = KindOriginAllowed
		reason = "origin in allowlist"
	}

	// Allowlist membership overrides suspicion: the event keeps the
	// suspicious classification for the audit trail, but admission stands.
	if suspicious != nil {
		kind = KindSuspicious
		reason = "suspicious pattern: " + suspicious.Name
		if member {
			reason += " (admitted: origin in allowlist)"
		}
	}

	event := v.record(kind, originHeader, reason, member, meta)

	switch {
	case suspicious != nil:
		v.logDecision(zerolog.WarnLevel, &event, "suspicious origin detected")
	case member:
		// Debug severity keeps steady-state traffic out of the logs.
		v.logDecision(zerolog.DebugLevel, &event, "origin allowed")
	default:
		v.logDecision(zerolog.WarnLevel, &event, "origin blocked")
	}

	if member {
		validationTotal.WithLabelValues("allowed").Inc()
	} else {
		validationTotal.WithLabelValues("blocked").Inc()
	}

	return Result{Allowed: member, Reason: reason, Event: &event}
}

// record appends a decision event to the bounded audit trail.
func (v *Validator) record(kind EventKind, origin, reason string, allowed bool, meta RequestMeta) SecurityEvent {
	event := SecurityEvent{
		Kind:      kind,
		Origin:    origin,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
		Allowed:   allowed,
		ClientIP:  meta.ClientIP,
		UserAgent: logging.TruncateString(meta.UserAgent, 100),
		Path:      meta.Path,
		Method:    meta.Method,
	}

	v.mu.Lock()
	v.events.append(event)
	v.mu.Unlock()
	return event
}

// logDecision emits the structured log line for a decision.
func (v *Validator) logDecision(level zerolog.Level, event *SecurityEvent, msg string) {
	v.log.Event(level).
		Str("kind", string(event.Kind)).
		Str("origin", event.Origin).
		Str("reason", event.Reason).
		Bool("allowed", event.Allowed).
		Str("client_ip", event.ClientIP).
		Str("path", event.Path).
		Str("method", event.Method).
		Msg(msg)
}

// IsAllowed reports exact-match allowlist membership without recording an
// audit event. Used by the response-header stamping middleware.
func (v *Validator) IsAllowed(originHeader string) bool {
	if originHeader == "" {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.allowed[originHeader]
	return ok
}

// AllowedOrigins returns a copy of the current allowlist in configuration
// order.
func (v *Validator) AllowedOrigins() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.ordered))
	copy(out, v.ordered)
	return out
}

// UpdateAllowedOrigins hot-swaps the allowlist without restarting the
// process. The new list is validated with the same rules as at startup;
// on error the previous allowlist stays in effect.
func (v *Validator) UpdateAllowedOrigins(origins []string) error {
	allowed, ordered, err := buildAllowSet(origins)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.allowed = allowed
	v.ordered = ordered
	v.mu.Unlock()

	v.log.Info("allowed origins updated", "count", len(ordered))
	return nil
}

// RecentEvents returns up to limit of the most recent security events in
// chronological order (most recent last).
func (v *Validator) RecentEvents(limit int) []SecurityEvent {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.events.snapshot(limit)
}

// Stats returns decision counts per event kind over the retained trail.
func (v *Validator) Stats() map[EventKind]int {
	v.mu.Lock()
	defer v.mu.Unlock()

	stats := make(map[EventKind]int)
	for _, e := range v.events.snapshot(0) {
		stats[e.Kind]++
	}
	return stats
}
