// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package audit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/rds-dashboard/bff/internal/logging"
)

// AuthLogger records authentication audit events against a Store.
// A nil store disables recording; all Log* methods are then no-ops.
type AuthLogger struct {
	store Store
}

// NewAuthLogger creates an authentication audit logger.
func NewAuthLogger(store Store) *AuthLogger {
	return &AuthLogger{store: store}
}

// loginMetadata contains additional details for login events.
type loginMetadata struct {
	Code      string `json:"code,omitempty"`
	TokenHint string `json:"token_hint,omitempty"`
}

// LogLoginSuccess records a successful bearer-token authentication.
func (l *AuthLogger) LogLoginSuccess(ctx context.Context, r *http.Request, userID, email, sessionID string, groups []string) {
	if l.store == nil {
		return
	}

	event := &Event{
		ID:        generateEventID(),
		Timestamp: time.Now().UTC(),
		Type:      EventTypeAuthSuccess,
		Severity:  SeverityInfo,
		Outcome:   OutcomeSuccess,
		Actor: Actor{
			ID:        userID,
			Type:      "user",
			Name:      logging.SanitizeEmail(email),
			Groups:    groups,
			SessionID: logging.SanitizeSessionID(sessionID),
		},
		Source:      ExtractSource(r),
		Action:      "auth.login",
		Description: "bearer token accepted",
		RequestID:   requestID(r),
	}

	l.save(ctx, event)
}

// LogLoginFailure records a rejected or missing bearer token. The code is
// the machine-readable failure code returned to the client.
func (l *AuthLogger) LogLoginFailure(ctx context.Context, r *http.Request, code, reason, tokenHint string) {
	if l.store == nil {
		return
	}

	//nolint:errcheck // loginMetadata is a simple struct that always marshals
	metadataJSON, _ := json.Marshal(loginMetadata{
		Code:      code,
		TokenHint: logging.SanitizeToken(tokenHint),
	})

	event := &Event{
		ID:        generateEventID(),
		Timestamp: time.Now().UTC(),
		Type:      EventTypeAuthFailure,
		Severity:  SeverityWarning,
		Outcome:   OutcomeFailure,
		Actor: Actor{
			ID:   "anonymous",
			Type: "user",
		},
		Source:      ExtractSource(r),
		Action:      "auth.login",
		Description: "authentication failed: " + logging.SanitizeError(reason),
		Metadata:    metadataJSON,
		RequestID:   requestID(r),
	}

	l.save(ctx, event)
}

// save persists the event; failures are logged, never propagated.
func (l *AuthLogger) save(ctx context.Context, event *Event) {
	if err := l.store.Save(ctx, event); err != nil {
		logging.Error().Err(err).
			Str("event_type", string(event.Type)).
			Msg("failed to save audit event")
	}
}

// ExtractSource extracts source information from an HTTP request, preferring
// X-Forwarded-For for proxied requests.
func ExtractSource(r *http.Request) Source {
	if r == nil {
		return Source{IPAddress: "unknown"}
	}

	ip := r.RemoteAddr
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
		for i, c := range forwarded {
			if c == ',' {
				ip = forwarded[:i]
				break
			}
		}
	}
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}

	return Source{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
		Origin:    r.Header.Get("Origin"),
		Path:      r.URL.Path,
		Method:    r.Method,
	}
}

// requestID extracts the request ID header, if present.
func requestID(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.Header.Get("X-Request-ID")
}

// generateEventID generates a unique event ID.
func generateEventID() string {
	bytes := make([]byte, 16)
	//nolint:errcheck // crypto/rand.Read error is extremely rare
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
