// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package auth

import (
	"testing"
	"time"

	"github.com/cinescope/cinescope/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokenManager(t *testing.T, timeout time.Duration) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(&config.SecurityConfig{
		JWTSecret:      testSecret,
		SessionTimeout: timeout,
	})
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	return m
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager(&config.SecurityConfig{})
	if err == nil {
		t.Fatal("Expected error for empty secret")
	}
}

func TestIssueParseRoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestTokenManager(t, time.Hour)

	token, err := m.Issue("user-1", "Alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	session, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if session.PrincipalID != "user-1" {
		t.Errorf("Expected principal 'user-1', got %q", session.PrincipalID)
	}
	if session.DisplayName != "Alice" {
		t.Errorf("Expected display name 'Alice', got %q", session.DisplayName)
	}
	if !session.ExpiresAt.After(session.IssuedAt) {
		t.Error("Expected expiry after issuance")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	m := newTestTokenManager(t, -time.Minute)

	token, err := m.Issue("user-1", "Alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Fatal("Expected parse failure for expired token")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	m := newTestTokenManager(t, time.Hour)
	token, err := m.Issue("user-1", "Alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	other, err := NewTokenManager(&config.SecurityConfig{
		JWTSecret:      "ffffffffffffffffffffffffffffffff",
		SessionTimeout: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	if _, err := other.Parse(token); err == nil {
		t.Fatal("Expected parse failure with wrong secret")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	m := newTestTokenManager(t, time.Hour)
	if _, err := m.Parse("not.a.token"); err == nil {
		t.Fatal("Expected parse failure for malformed token")
	}
}
