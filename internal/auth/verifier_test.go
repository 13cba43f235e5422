// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cinescope/cinescope/internal/models"
)

// fakeStore is an in-memory PrincipalStore.
type fakeStore struct {
	users map[string]*models.User
	err   error
}

func (s *fakeStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users[id], nil
}

func newTestVerifier(t *testing.T, timeout time.Duration, store *fakeStore) (*Verifier, *TokenManager) {
	t.Helper()
	m := newTestTokenManager(t, timeout)
	return NewVerifier(m, store), m
}

func activeUserStore() *fakeStore {
	return &fakeStore{users: map[string]*models.User{
		"user-1": {ID: "user-1", DisplayName: "Alice", Active: true},
	}}
}

func TestVerifyMissingToken(t *testing.T) {
	t.Parallel()

	v, _ := newTestVerifier(t, time.Hour, activeUserStore())

	_, authErr := v.Verify(context.Background(), "")
	if authErr == nil {
		t.Fatal("Expected rejection for missing token")
	}
	if authErr.Status != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", authErr.Status)
	}
	if authErr.Message != "Usuário não autenticado." {
		t.Errorf("Unexpected message %q", authErr.Message)
	}
	if authErr.ClearCredential {
		t.Error("Missing token must not trigger credential invalidation")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	t.Parallel()

	v, m := newTestVerifier(t, -time.Minute, activeUserStore())
	token, _ := m.Issue("user-1", "Alice")

	_, authErr := v.Verify(context.Background(), token)
	if authErr == nil {
		t.Fatal("Expected rejection for expired token")
	}
	if authErr.Status != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", authErr.Status)
	}
	if !authErr.ClearCredential {
		t.Error("Expired token must trigger credential invalidation")
	}
}

func TestVerifyActiveCheckRejectsDeletedPrincipal(t *testing.T) {
	t.Parallel()

	v, m := newTestVerifier(t, time.Hour, &fakeStore{users: map[string]*models.User{}})
	token, _ := m.Issue("user-1", "Alice")

	_, authErr := v.Verify(context.Background(), token)
	if authErr == nil {
		t.Fatal("Expected rejection for deleted principal despite valid signature")
	}
	if !authErr.ClearCredential {
		t.Error("Orphaned credential must trigger invalidation")
	}
}

func TestVerifyActiveCheckRejectsDeactivatedPrincipal(t *testing.T) {
	t.Parallel()

	store := &fakeStore{users: map[string]*models.User{
		"user-1": {ID: "user-1", DisplayName: "Alice", Active: false},
	}}
	v, m := newTestVerifier(t, time.Hour, store)
	token, _ := m.Issue("user-1", "Alice")

	if _, authErr := v.Verify(context.Background(), token); authErr == nil {
		t.Fatal("Expected rejection for deactivated principal")
	}
}

func TestVerifyStoreFailureIsNotInvalidation(t *testing.T) {
	t.Parallel()

	v, m := newTestVerifier(t, time.Hour, &fakeStore{err: errors.New("connection refused")})
	token, _ := m.Issue("user-1", "Alice")

	_, authErr := v.Verify(context.Background(), token)
	if authErr == nil {
		t.Fatal("Expected rejection when store lookup fails")
	}
	if authErr.ClearCredential {
		t.Error("A transient store failure must not purge the client credential")
	}
}

func TestVerifyIdempotentOnRead(t *testing.T) {
	t.Parallel()

	v, m := newTestVerifier(t, time.Hour, activeUserStore())
	token, _ := m.Issue("user-1", "Alice")

	first, authErr := v.Verify(context.Background(), token)
	if authErr != nil {
		t.Fatalf("First verify failed: %v", authErr)
	}
	second, authErr := v.Verify(context.Background(), token)
	if authErr != nil {
		t.Fatalf("Second verify failed: %v", authErr)
	}
	if first.PrincipalID != second.PrincipalID || first.DisplayName != second.DisplayName {
		t.Errorf("Repeated verification diverged: %+v vs %+v", first, second)
	}
}

func TestTokenFromRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc123")
	if got := TokenFromRequest(r, "cinescope_session"); got != "abc123" {
		t.Errorf("Expected 'abc123' from header, got %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "cinescope_session", Value: "cookie-token"})
	if got := TokenFromRequest(r, "cinescope_session"); got != "cookie-token" {
		t.Errorf("Expected 'cookie-token' from cookie, got %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	if got := TokenFromRequest(r, "cinescope_session"); got != "" {
		t.Errorf("Expected empty token, got %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	if got := TokenFromRequest(r, "cinescope_session"); got != "" {
		t.Errorf("Expected empty token for non-Bearer scheme, got %q", got)
	}
}

func TestClearCredentialCookieClient(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	ClearCredential(w, r, "cinescope_session", false)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Expected one cookie, got %d", len(cookies))
	}
	if cookies[0].Name != "cinescope_session" || cookies[0].MaxAge != -1 {
		t.Errorf("Expected expired session cookie, got %+v", cookies[0])
	}
	if w.Header().Get(InvalidateHeader) != "" {
		t.Error("Cookie client must not receive the invalidation header")
	}
}

func TestClearCredentialStorageClient(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(ClientSessionHeader, ClientSessionStorage)

	ClearCredential(w, r, "cinescope_session", false)

	if w.Header().Get(InvalidateHeader) != "1" {
		t.Error("Storage client must receive the invalidation header")
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("Storage client must not receive a cookie deletion")
	}
}
