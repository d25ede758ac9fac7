// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package origin

import "regexp"

// SuspiciousPattern is a named heuristic matched against raw Origin header
// values. Patterns are evaluated in order and the scan short-circuits on the
// first match. A match is recorded in the audit trail but does not by itself
// reject the origin: allowlist membership remains the trust boundary.
type SuspiciousPattern struct {
	// Name identifies the heuristic in logs and metrics.
	Name string

	// Pattern is the precompiled matcher.
	Pattern *regexp.Regexp

	// Reason is the human-readable explanation recorded with the event.
	Reason string
}

// DefaultSuspiciousPatterns returns the built-in heuristic list. The slice
// is freshly allocated so callers may extend it without affecting others.
func DefaultSuspiciousPatterns() []SuspiciousPattern {
	return []SuspiciousPattern{
		{
			Name:    "high_localhost_port",
			Pattern: regexp.MustCompile(`^https?://(?:localhost|127\.0\.0\.1):\d{5,}`),
			Reason:  "localhost origin with high-numbered port",
		},
		{
			Name:    "bare_ipv4",
			Pattern: regexp.MustCompile(`^https?://\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}(?::\d+)?$`),
			Reason:  "bare IPv4 literal origin",
		},
		{
			Name:    "markup_characters",
			Pattern: regexp.MustCompile(`[<>'"]`),
			Reason:  "markup or quote characters in origin",
		},
		{
			Name:    "javascript_scheme",
			Pattern: regexp.MustCompile(`^javascript:`),
			Reason:  "javascript scheme origin",
		},
		{
			Name:    "data_scheme",
			Pattern: regexp.MustCompile(`^data:`),
			Reason:  "data scheme origin",
		},
		{
			Name:    "file_scheme",
			Pattern: regexp.MustCompile(`^file:`),
			Reason:  "file scheme origin",
		},
		{
			Name:    "ftp_scheme",
			Pattern: regexp.MustCompile(`^ftp:`),
			Reason:  "ftp scheme origin",
		},
	}
}

// matchSuspicious returns the first matching pattern, or nil.
func matchSuspicious(patterns []SuspiciousPattern, origin string) *SuspiciousPattern {
	for i := range patterns {
		if patterns[i].Pattern.MatchString(origin) {
			return &patterns[i]
		}
	}
	return nil
}
