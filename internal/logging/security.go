// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityLogger provides logging for authentication and origin-validation
// events. It sanitizes sensitive values before they reach the log stream.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger tagged with the given component.
func NewSecurityLogger(component string) *SecurityLogger {
	return &SecurityLogger{
		logger: With().Str("component", component).Logger(),
	}
}

// NewSecurityLoggerWithLogger creates a security logger on top of a custom
// zerolog logger. Used by tests to capture output.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger, component string) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", component).Logger(),
	}
}

// Event starts a message at the given level. Callers attach fields and must
// terminate with Msg().
func (l *SecurityLogger) Event(level zerolog.Level) *zerolog.Event {
	return l.logger.WithLevel(level)
}

// Debug logs a debug-level message with key-value pairs.
func (l *SecurityLogger) Debug(msg string, fields ...interface{}) {
	addFieldPairs(l.logger.Debug(), fields).Msg(msg)
}

// Info logs an info-level message with key-value pairs.
func (l *SecurityLogger) Info(msg string, fields ...interface{}) {
	addFieldPairs(l.logger.Info(), fields).Msg(msg)
}

// Warn logs a warning-level message with key-value pairs.
func (l *SecurityLogger) Warn(msg string, fields ...interface{}) {
	addFieldPairs(l.logger.Warn(), fields).Msg(msg)
}

// Error logs an error-level message with key-value pairs.
func (l *SecurityLogger) Error(msg string, fields ...interface{}) {
	addFieldPairs(l.logger.Error(), fields).Msg(msg)
}

// addFieldPairs adds key-value pairs to a zerolog event.
func addFieldPairs(e *zerolog.Event, fields []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, fields[i+1])
	}
	return e
}

// ============================================================
// Sanitization Functions
// ============================================================

// SanitizeToken masks a token, showing only first and last 4 characters.
// Example: "eyJhbGciOiJSUzI1NiIs..." -> "eyJh...kpXV"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeSessionID masks a session ID.
func SanitizeSessionID(sessionID string) string {
	return SanitizeToken(sessionID)
}

// SanitizeUserID masks a user ID for privacy.
// Example: "user-12345678" -> "user...5678"
func SanitizeUserID(userID string) string {
	if userID == "" {
		return ""
	}
	if len(userID) <= 8 {
		return "***"
	}
	return userID[:4] + "..." + userID[len(userID)-4:]
}

// SanitizeEmail masks an email address, keeping the domain.
// Example: "john.doe@example.com" -> "jo***@example.com"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}

	atIndex := strings.Index(email, "@")
	if atIndex <= 0 {
		return "***"
	}

	localPart := email[:atIndex]
	domain := email[atIndex:]

	if len(localPart) <= 2 {
		return "***" + domain
	}
	return localPart[:2] + "***" + domain
}

// SanitizeError removes potentially sensitive information from error
// messages before they are logged or returned upstream.
func SanitizeError(err string) string {
	sensitivePatterns := []string{
		"password",
		"secret",
		"token",
		"key",
		"bearer",
		"authorization",
		"cookie",
	}

	lowerErr := strings.ToLower(err)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lowerErr, pattern) {
			return "authentication error"
		}
	}

	return TruncateString(err, 200)
}

// TruncateString truncates a string to a maximum length, appending "..."
// when shortened.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
