// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/rds-dashboard/bff/internal/audit"
	"github.com/rds-dashboard/bff/internal/authz"
)

func TestExtractBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"standard scheme", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"mixed case scheme", "BeArEr abc123", "abc123"},
		{"bare token", "abc123", "abc123"},
		{"two tokens after scheme", "Bearer a b", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"scheme only", "Bearer", ""},
		{"empty header", "", ""},
		{"whitespace only", "   ", ""},
		{"extra whitespace around", "  Bearer abc123  ", "abc123"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExtractBearerToken(tt.header); got != tt.want {
				t.Errorf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

// authFailureBody is the stable JSON failure shape.
type authFailureBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) authFailureBody {
	t.Helper()
	var body authFailureBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode failure body: %v", err)
	}
	return body
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func doAuth(t *testing.T, m *Middleware, authorization string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	var called bool
	req := httptest.NewRequest(http.MethodGet, "/api/discovery/instances", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	m.Authenticate(okHandler(&called)).ServeHTTP(rec, req)
	return rec, called
}

func TestAuthenticateMissingToken(t *testing.T) {
	t.Parallel()

	m := NewMiddleware(VerifierFunc(func(ctx context.Context, token string) (*Claims, error) {
		t.Error("verifier called without a token")
		return nil, nil
	}))

	rec, called := doAuth(t, m, "")
	if called {
		t.Error("handler reached without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if body := decodeFailure(t, rec); body.Code != CodeAuthRequired {
		t.Errorf("code = %q, want %q", body.Code, CodeAuthRequired)
	}
}

func TestAuthenticateErrorTaxonomy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"expired", errors.New("token is expired by 3m"), CodeTokenExpired},
		{"signature", errors.New("signature is invalid"), CodeInvalidSignature},
		{"issuer", errors.New("token has invalid issuer"), CodeInvalidIssuer},
		{"other", errors.New("token contains an invalid number of segments"), CodeInvalidToken},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewMiddleware(VerifierFunc(func(ctx context.Context, token string) (*Claims, error) {
				return nil, tt.err
			}))

			rec, called := doAuth(t, m, "Bearer some-token")
			if called {
				t.Error("handler reached with invalid token")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if body := decodeFailure(t, rec); body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

func TestAuthenticatePanicMapsToServiceError(t *testing.T) {
	t.Parallel()

	m := NewMiddleware(VerifierFunc(func(ctx context.Context, token string) (*Claims, error) {
		panic("verifier blew up")
	}))

	rec, called := doAuth(t, m, "Bearer some-token")
	if called {
		t.Error("handler reached after verifier panic")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if body := decodeFailure(t, rec); body.Code != CodeServiceError {
		t.Errorf("code = %q, want %q", body.Code, CodeServiceError)
	}
}

func TestAuthenticateTimeoutMapsToServiceError(t *testing.T) {
	t.Parallel()

	m := NewMiddleware(VerifierFunc(func(ctx context.Context, token string) (*Claims, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), WithVerifyTimeout(20*time.Millisecond))

	rec, called := doAuth(t, m, "Bearer some-token")
	if called {
		t.Error("handler reached after verifier timeout")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if body := decodeFailure(t, rec); body.Code != CodeServiceError {
		t.Errorf("code = %q, want %q", body.Code, CodeServiceError)
	}
}

func TestAuthenticateSuccessBuildsUserContext(t *testing.T) {
	t.Parallel()

	now := time.Now()
	m := NewMiddleware(VerifierFunc(func(ctx context.Context, token string) (*Claims, error) {
		return &Claims{
			Subject:   "user-42",
			Email:     "dba@example.com",
			Groups:    []string{"DBA", "ReadOnly"},
			JTI:       "session-abc",
			IssuedAt:  now,
			ExpiresAt: now.Add(time.Hour),
		}, nil
	}))

	var user *UserContext
	req := httptest.NewRequest(http.MethodGet, "/api/discovery/instances", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if user == nil {
		t.Fatal("no user context attached")
	}
	if user.UserID != "user-42" {
		t.Errorf("UserID = %q", user.UserID)
	}
	if user.SessionID != "session-abc" {
		t.Errorf("SessionID = %q, want jti", user.SessionID)
	}
	if !user.HasPermission(authz.PermExecuteOperations) {
		t.Error("DBA user missing execute_operations")
	}
	if user.HasPermission(authz.PermManageUsers) {
		t.Error("DBA user unexpectedly holds manage_users")
	}
}

func TestSessionIDFallsBackToSubject(t *testing.T) {
	t.Parallel()

	user := NewUserContext(&Claims{Subject: "user-42"})
	if user.SessionID != "user-42" {
		t.Errorf("SessionID = %q, want subject fallback", user.SessionID)
	}
}

func TestAuthenticateRecordsAuditEvents(t *testing.T) {
	t.Parallel()

	store := audit.NewMemoryStore(10)
	m := NewMiddleware(VerifierFunc(func(ctx context.Context, token string) (*Claims, error) {
		if token == "good" {
			return &Claims{Subject: "user-42", ExpiresAt: time.Now().Add(time.Hour)}, nil
		}
		return nil, errors.New("signature is invalid")
	}), WithAuditLogger(audit.NewAuthLogger(store)))

	doAuth(t, m, "Bearer good")
	doAuth(t, m, "Bearer bad")
	doAuth(t, m, "")

	counts, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if counts[audit.EventTypeAuthSuccess] != 1 {
		t.Errorf("login_success count = %d, want 1", counts[audit.EventTypeAuthSuccess])
	}
	if counts[audit.EventTypeAuthFailure] != 2 {
		t.Errorf("login_failure count = %d, want 2", counts[audit.EventTypeAuthFailure])
	}
}

func TestCheckTokenExpiry(t *testing.T) {
	t.Parallel()

	run := func(expiry time.Time) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/discovery/instances", nil)
		user := &UserContext{UserID: "user-42", TokenExpiry: expiry}
		req = req.WithContext(ContextWithUser(req.Context(), user))

		rec := httptest.NewRecorder()
		var called bool
		CheckTokenExpiry(5 * time.Minute)(okHandler(&called)).ServeHTTP(rec, req)
		if !called {
			t.Fatal("advisory middleware blocked the request")
		}
		return rec
	}

	// Expiring within the threshold: advisory headers present.
	rec := run(time.Now().Add(2 * time.Minute))
	if rec.Header().Get("X-Token-Expiring-Soon") != "true" {
		t.Error("X-Token-Expiring-Soon missing for near-expiry token")
	}
	if rec.Header().Get("X-Token-Expires-In") == "" {
		t.Error("X-Token-Expires-In missing for near-expiry token")
	}

	// Plenty of time left: no headers.
	rec = run(time.Now().Add(time.Hour))
	if rec.Header().Get("X-Token-Expiring-Soon") != "" {
		t.Error("X-Token-Expiring-Soon set for fresh token")
	}

	// Already expired: advisory headers are pointless, none set.
	rec = run(time.Now().Add(-time.Minute))
	if rec.Header().Get("X-Token-Expiring-Soon") != "" {
		t.Error("X-Token-Expiring-Soon set for expired token")
	}
}

func TestRequirePermission(t *testing.T) {
	t.Parallel()

	handler := func(user *UserContext) (*httptest.ResponseRecorder, bool) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/security-events", nil)
		if user != nil {
			req = req.WithContext(ContextWithUser(req.Context(), user))
		}
		rec := httptest.NewRecorder()
		var called bool
		RequirePermission(authz.PermManageUsers)(okHandler(&called)).ServeHTTP(rec, req)
		return rec, called
	}

	admin := NewUserContext(&Claims{Subject: "admin-1", Groups: []string{"Admin"}})
	rec, called := handler(admin)
	if !called || rec.Code != http.StatusOK {
		t.Errorf("admin request: called=%v status=%d, want pass-through", called, rec.Code)
	}

	readOnly := NewUserContext(&Claims{Subject: "viewer-1", Groups: []string{"ReadOnly"}})
	rec, called = handler(readOnly)
	if called {
		t.Error("handler reached without manage_users")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if body := decodeFailure(t, rec); body.Code != CodeForbidden {
		t.Errorf("code = %q, want %q", body.Code, CodeForbidden)
	}

	rec, called = handler(nil)
	if called || rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated request: called=%v status=%d, want 401", called, rec.Code)
	}
}
