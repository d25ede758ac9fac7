// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides bearer-token authentication middleware for the BFF.
// Signature verification is delegated to a Verifier collaborator; this
// package owns token extraction, the failure taxonomy, and the derived
// request-scoped user context.
package auth

import (
	"context"
	"time"

	"github.com/rds-dashboard/bff/internal/authz"
)

type contextKey string

// userContextKey is the context key for the authenticated UserContext.
const userContextKey contextKey = "user_context"

// Claims are the verified token claims produced by a Verifier. They are
// untrusted input until signature verification succeeds.
type Claims struct {
	// Subject is the unique user identifier (the 'sub' claim).
	Subject string `json:"sub"`

	// Email is the user's email address.
	Email string `json:"email"`

	// Name is the user's display name, if present.
	Name string `json:"name,omitempty"`

	// Groups holds identity-provider group membership
	// (the 'cognito:groups' claim).
	Groups []string `json:"cognito:groups,omitempty"`

	// JTI is the token identifier, used as the session ID when present.
	JTI string `json:"jti,omitempty"`

	// Issuer is the token issuer (the 'iss' claim).
	Issuer string `json:"iss,omitempty"`

	// IssuedAt is when the token was issued.
	IssuedAt time.Time `json:"iat"`

	// ExpiresAt is when the token expires.
	ExpiresAt time.Time `json:"exp"`
}

// UserContext is the request-scoped identity derived from verified claims.
// It is built once per authenticated request and never outlives it.
type UserContext struct {
	UserID      string             `json:"user_id"`
	Email       string             `json:"email"`
	Name        string             `json:"name,omitempty"`
	Groups      []string           `json:"groups"`
	Permissions []authz.Permission `json:"permissions"`
	SessionID   string             `json:"session_id"`
	AuthTime    time.Time          `json:"auth_time"`
	TokenExpiry time.Time          `json:"token_expiry"`
}

// NewUserContext derives a UserContext from verified claims. The session ID
// falls back to the subject when the token carries no JTI.
func NewUserContext(claims *Claims) *UserContext {
	sessionID := claims.JTI
	if sessionID == "" {
		sessionID = claims.Subject
	}

	return &UserContext{
		UserID:      claims.Subject,
		Email:       claims.Email,
		Name:        claims.Name,
		Groups:      claims.Groups,
		Permissions: authz.PermissionsForGroups(claims.Groups),
		SessionID:   sessionID,
		AuthTime:    claims.IssuedAt,
		TokenExpiry: claims.ExpiresAt,
	}
}

// HasPermission reports whether the user holds the given capability.
func (u *UserContext) HasPermission(p authz.Permission) bool {
	return authz.HasPermission(u.Permissions, p)
}

// ContextWithUser returns a context carrying the authenticated user.
func ContextWithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the authenticated user from the request
// context. Returns nil for unauthenticated requests.
func UserFromContext(ctx context.Context) *UserContext {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok {
		return nil
	}
	return user
}
