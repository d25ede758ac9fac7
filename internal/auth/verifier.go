// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a raw bearer token and returns its claims. The
// middleware treats the verifier as an external service boundary:
// failures are classified, panics are contained, and slow verifiers are
// cut off by the request context.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// VerifierFunc adapts a plain function to the Verifier interface.
type VerifierFunc func(ctx context.Context, token string) (*Claims, error)

func (f VerifierFunc) Verify(ctx context.Context, token string) (*Claims, error) {
	return f(ctx, token)
}

// JWTVerifier validates HMAC-signed JWTs locally. It enforces signature,
// expiry, and issuer before releasing claims.
type JWTVerifier struct {
	secret []byte
	issuer string
	parser *jwt.Parser
}

// NewJWTVerifier creates a verifier for HS256 tokens. The issuer is
// enforced when non-empty.
func NewJWTVerifier(secret []byte, issuer string) (*JWTVerifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt verifier: empty signing secret")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	return &JWTVerifier{
		secret: secret,
		issuer: issuer,
		parser: jwt.NewParser(opts...),
	}, nil
}

// jwtClaims carries the registered claims plus the identity-provider
// extensions the dashboard consumes.
type jwtClaims struct {
	jwt.RegisteredClaims
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Groups []string `json:"cognito:groups"`
}

// Verify parses and validates the token, honoring context cancellation.
func (v *JWTVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("token verification aborted: %w", err)
	}

	parsed, err := v.parser.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token verification failed: invalid claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("token verification failed: missing subject")
	}

	out := &Claims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Groups:  claims.Groups,
		JTI:     claims.ID,
		Issuer:  claims.Issuer,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

type verifyResult struct {
	claims   *Claims
	err      error
	panicked bool
}

// verifyWithDeadline runs the verifier with a hard timeout and panic
// containment. A panicking or timed-out verifier yields a service error,
// never a token verdict.
func verifyWithDeadline(ctx context.Context, v Verifier, token string, timeout time.Duration) (*Claims, *AuthError) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan verifyResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- verifyResult{panicked: true}
			}
		}()
		c, err := v.Verify(ctx, token)
		done <- verifyResult{claims: c, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, serviceError()
	case res := <-done:
		if res.panicked {
			return nil, serviceError()
		}
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) || errors.Is(res.err, context.Canceled) {
				return nil, serviceError()
			}
			return nil, ClassifyVerificationError(res.err)
		}
		return res.claims, nil
	}
}
