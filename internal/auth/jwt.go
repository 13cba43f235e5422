// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

// Package auth implements session credential issuance and verification.
//
// Sessions are stateless signed JWTs (HS256). Nothing is persisted
// server-side beyond the signing key: a credential carries the principal
// ID, display name, and its own expiry. Verification re-confirms the
// principal against the backing store so that accounts deleted or
// deactivated after issuance are rejected even while the signature is
// still valid.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cinescope/cinescope/internal/config"
)

// Session is the authenticated principal attached to a request.
type Session struct {
	PrincipalID string    `json:"principalId"`
	DisplayName string    `json:"displayName"`
	IssuedAt    time.Time `json:"issuedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Claims are the JWT claims embedded in a session credential.
// Subject carries the principal ID.
type Claims struct {
	DisplayName string `json:"displayName"`
	jwt.RegisteredClaims
}

// TokenManager creates and parses signed session credentials.
type TokenManager struct {
	secret  []byte
	timeout time.Duration
}

// NewTokenManager creates a token manager from the security configuration.
// The secret must be non-empty; length is enforced by config validation.
func NewTokenManager(cfg *config.SecurityConfig) (*TokenManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}
	return &TokenManager{
		secret:  []byte(cfg.JWTSecret),
		timeout: cfg.SessionTimeout,
	}, nil
}

// Issue creates a signed session credential for the given principal.
// The credential expires after the configured session timeout.
func (m *TokenManager) Issue(principalID, displayName string) (string, error) {
	now := time.Now()
	claims := &Claims{
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a credential's signature, expiry, and signing algorithm
// and returns the embedded session. Tokens signed with an unexpected
// algorithm are rejected to prevent algorithm confusion attacks.
func (m *TokenManager) Parse(tokenString string) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &Session{
		PrincipalID: claims.Subject,
		DisplayName: claims.DisplayName,
		IssuedAt:    claims.IssuedAt.Time,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}
