// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"net/http"
	"strings"
)

// Authentication failure codes. Clients branch on these, so the set is
// part of the API contract.
const (
	CodeAuthRequired     = "AUTH_REQUIRED"
	CodeTokenExpired     = "TOKEN_EXPIRED"
	CodeInvalidSignature = "INVALID_SIGNATURE"
	CodeInvalidIssuer    = "INVALID_ISSUER"
	CodeInvalidToken     = "INVALID_TOKEN"
	CodeServiceError     = "AUTH_SERVICE_ERROR"
)

// AuthError is a classified authentication failure carrying the HTTP
// status and stable error code returned to the client.
type AuthError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *AuthError) Error() string {
	return e.Message
}

// ErrMissingToken is returned when a request carries no bearer token.
var ErrMissingToken = &AuthError{
	Code:       CodeAuthRequired,
	Message:    "Authentication required",
	StatusCode: http.StatusUnauthorized,
}

// ClassifyVerificationError maps a verifier failure onto the client-facing
// taxonomy. Classification inspects the error text because verifier
// implementations wrap library errors with differing concrete types.
func ClassifyVerificationError(err error) *AuthError {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "expired"):
		return &AuthError{
			Code:       CodeTokenExpired,
			Message:    "Token has expired",
			StatusCode: http.StatusUnauthorized,
		}
	case strings.Contains(msg, "signature"):
		return &AuthError{
			Code:       CodeInvalidSignature,
			Message:    "Token signature is invalid",
			StatusCode: http.StatusUnauthorized,
		}
	case strings.Contains(msg, "issuer"):
		return &AuthError{
			Code:       CodeInvalidIssuer,
			Message:    "Token issuer is not trusted",
			StatusCode: http.StatusUnauthorized,
		}
	default:
		return &AuthError{
			Code:       CodeInvalidToken,
			Message:    "Token is invalid",
			StatusCode: http.StatusUnauthorized,
		}
	}
}

// serviceError is the opaque failure returned when the verifier itself
// breaks (panic, timeout). Deliberately 500, not 401: the token was never
// judged.
func serviceError() *AuthError {
	return &AuthError{
		Code:       CodeServiceError,
		Message:    "Authentication service unavailable",
		StatusCode: http.StatusInternalServerError,
	}
}
