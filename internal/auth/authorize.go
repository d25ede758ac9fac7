// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"net/http"

	"github.com/rds-dashboard/bff/internal/authz"
	"github.com/rds-dashboard/bff/internal/logging"
)

// CodeForbidden marks an authenticated request that lacks the required
// capability.
const CodeForbidden = "FORBIDDEN"

// RequirePermission gates a route on a capability. Must be mounted behind
// Authenticate; an unauthenticated request is a wiring error and fails
// closed with a 401.
func RequirePermission(perm authz.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				writeAuthError(w, ErrMissingToken)
				return
			}

			if !user.HasPermission(perm) {
				logging.Ctx(r.Context()).Warn().
					Str("user_id", logging.SanitizeUserID(user.UserID)).
					Str("permission", string(perm)).
					Str("path", r.URL.Path).
					Msg("permission denied")

				writeAuthError(w, &AuthError{
					Code:       CodeForbidden,
					Message:    "Insufficient permissions for this operation",
					StatusCode: http.StatusForbidden,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
