// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/rds-dashboard/bff/internal/audit"
	"github.com/rds-dashboard/bff/internal/logging"
)

// defaultVerifyTimeout bounds a single token verification.
const defaultVerifyTimeout = 5 * time.Second

// Middleware authenticates requests with a bearer token and attaches the
// resulting UserContext to the request context.
type Middleware struct {
	verifier      Verifier
	auditLog      *audit.AuthLogger
	secLog        *logging.SecurityLogger
	verifyTimeout time.Duration
}

// MiddlewareOption customizes a Middleware.
type MiddlewareOption func(*Middleware)

// WithVerifyTimeout overrides the verification deadline.
func WithVerifyTimeout(d time.Duration) MiddlewareOption {
	return func(m *Middleware) { m.verifyTimeout = d }
}

// WithAuditLogger wires the audit trail. A nil logger disables auditing.
func WithAuditLogger(l *audit.AuthLogger) MiddlewareOption {
	return func(m *Middleware) { m.auditLog = l }
}

// NewMiddleware creates the authentication middleware around a verifier.
func NewMiddleware(verifier Verifier, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		verifier:      verifier,
		secLog:        logging.NewSecurityLogger("auth"),
		verifyTimeout: defaultVerifyTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ExtractBearerToken pulls the credential out of an Authorization header
// value. Accepts the "Bearer <token>" scheme case-insensitively and, for
// interoperability with older clients, a bare token with no scheme.
// Returns an empty string when no usable credential is present.
func ExtractBearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}

	parts := strings.Fields(header)
	switch len(parts) {
	case 1:
		if strings.EqualFold(parts[0], "bearer") {
			return ""
		}
		return parts[0]
	case 2:
		if strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	default:
		return ""
	}
}

// Authenticate rejects requests without a valid bearer token. On success
// the request proceeds with the UserContext installed; on failure the
// request ends here with a classified 401, or 500 when the verifier
// itself fails.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractBearerToken(r.Header.Get("Authorization"))
		if token == "" {
			m.reject(w, r, ErrMissingToken, "")
			return
		}

		start := time.Now()
		claims, authErr := verifyWithDeadline(r.Context(), m.verifier, token, m.verifyTimeout)
		authDuration.Observe(time.Since(start).Seconds())

		if authErr != nil {
			m.reject(w, r, authErr, token)
			return
		}

		user := NewUserContext(claims)
		recordAuthOutcome("ok")

		logging.Ctx(r.Context()).Debug().
			Str("user_id", logging.SanitizeUserID(user.UserID)).
			Str("session_id", logging.SanitizeSessionID(user.SessionID)).
			Strs("groups", user.Groups).
			Msg("request authenticated")

		if m.auditLog != nil {
			m.auditLog.LogLoginSuccess(r.Context(), r, user.UserID, user.Email, user.SessionID, user.Groups)
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// reject writes the classified failure and records it. The raw token never
// reaches a log line.
func (m *Middleware) reject(w http.ResponseWriter, r *http.Request, authErr *AuthError, token string) {
	recordAuthOutcome(authErr.Code)

	level := m.secLog.Warn
	if authErr.StatusCode >= http.StatusInternalServerError {
		level = m.secLog.Error
	}
	level("authentication rejected",
		"code", authErr.Code,
		"path", r.URL.Path,
		"token", logging.SanitizeToken(token),
	)

	if m.auditLog != nil {
		m.auditLog.LogLoginFailure(r.Context(), r, authErr.Code, authErr.Message, logging.SanitizeToken(token))
	}

	writeAuthError(w, authErr)
}

// writeAuthError emits the stable failure body {error, message, code}.
func writeAuthError(w http.ResponseWriter, authErr *AuthError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(authErr.StatusCode)

	body := map[string]string{
		"error":   http.StatusText(authErr.StatusCode),
		"message": authErr.Message,
		"code":    authErr.Code,
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("failed to encode auth error response")
	}
}

// CheckTokenExpiry stamps advisory headers when the authenticated token
// expires within the threshold. Purely informational; the request always
// proceeds.
func CheckTokenExpiry(threshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := UserFromContext(r.Context()); user != nil && !user.TokenExpiry.IsZero() {
				remaining := time.Until(user.TokenExpiry)
				if remaining > 0 && remaining <= threshold {
					w.Header().Set("X-Token-Expiring-Soon", "true")
					w.Header().Set("X-Token-Expires-In", strconv.Itoa(int(remaining.Seconds())))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser is a guard for handlers mounted behind Authenticate. It
// returns the user or writes a 500, catching wiring mistakes where the
// authentication middleware was skipped.
func RequireUser(w http.ResponseWriter, r *http.Request) (*UserContext, bool) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeAuthError(w, &AuthError{
			Code:       CodeServiceError,
			Message:    fmt.Sprintf("no authenticated user for %s", r.URL.Path),
			StatusCode: http.StatusInternalServerError,
		})
		return nil, false
	}
	return user, true
}
