// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package auth

import (
	"context"
	"net/http"

	"github.com/cinescope/cinescope/internal/httperr"
	"github.com/cinescope/cinescope/internal/logging"
	"github.com/cinescope/cinescope/internal/models"
)

// MsgNotAuthenticated is the message returned when no credential is
// presented. The wording is part of the public API contract.
const MsgNotAuthenticated = "Usuário não autenticado."

// MsgSessionInvalid is returned when a credential fails signature or
// expiry verification, or when its principal is no longer active.
const MsgSessionInvalid = "Sessão inválida ou expirada."

// PrincipalStore is the read interface the verifier uses to re-confirm a
// principal's current status. FindUserByID returns (nil, nil) when the
// principal does not exist.
type PrincipalStore interface {
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}

// AuthError is a verification failure. ClearCredential marks failures
// where the caller-held credential is known stale and should be purged
// from the client (expired, tampered, or orphaned by a deactivated
// account); a merely missing credential does not set it.
type AuthError struct {
	*httperr.Error
	ClearCredential bool
}

// Verifier checks session credentials against the signing key and the
// principal store. It holds no per-request state and is safe for
// concurrent use.
type Verifier struct {
	tokens *TokenManager
	store  PrincipalStore
}

// NewVerifier creates a session verifier.
func NewVerifier(tokens *TokenManager, store PrincipalStore) *Verifier {
	return &Verifier{tokens: tokens, store: store}
}

// Verify runs the full verification sequence for a bearer credential:
//
//	no token          -> reject 401
//	signature/expiry  -> reject 401, clear stored credential
//	principal lookup  -> reject 401 and clear if deleted or deactivated
//	otherwise         -> accept
//
// The principal lookup is awaited before proceeding: a deactivated
// principal must never reach business logic, so there is no optimistic
// path. Verification never mutates session state; calling it twice with
// the same token and unchanged store yields the same session.
func (v *Verifier) Verify(ctx context.Context, token string) (*Session, *AuthError) {
	if token == "" {
		return nil, &AuthError{Error: httperr.Unauthorized(MsgNotAuthenticated)}
	}

	session, err := v.tokens.Parse(token)
	if err != nil {
		logging.Debug().Err(err).Msg("Session credential rejected")
		return nil, &AuthError{
			Error:           httperr.Unauthorized(MsgSessionInvalid),
			ClearCredential: true,
		}
	}

	user, err := v.store.FindUserByID(ctx, session.PrincipalID)
	if err != nil {
		logging.Error().Err(err).Str("principal", session.PrincipalID).Msg("Principal lookup failed")
		return nil, &AuthError{Error: httperr.Unauthorized(MsgSessionInvalid)}
	}
	if user == nil || !user.Active {
		return nil, &AuthError{
			Error:           httperr.Unauthorized(MsgSessionInvalid),
			ClearCredential: true,
		}
	}

	return session, nil
}

// Client session transport headers. A request carrying
// "X-Client-Session: storage" declares that the client keeps its
// credential in local storage rather than a cookie; invalidation is then
// signaled via a response header instead of a cookie deletion.
const (
	ClientSessionHeader  = "X-Client-Session"
	ClientSessionStorage = "storage"
	InvalidateHeader     = "X-Session-Invalidate"
)

// TokenFromRequest extracts the bearer credential from the Authorization
// header, falling back to the session cookie.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); header != "" {
		const prefix = "Bearer "
		if len(header) > len(prefix) && header[:len(prefix)] == prefix {
			return header[len(prefix):]
		}
		return ""
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// SetSessionCookie hands a freshly issued credential to a browser client.
func SetSessionCookie(w http.ResponseWriter, name, token string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCredential emits the invalidation instruction appropriate to the
// client's session transport: cookie deletion for cookie-based browser
// sessions, or the invalidation header for storage-based clients. Without
// this signal a stale credential would be replayed on every request with
// no recovery path for the caller.
func ClearCredential(w http.ResponseWriter, r *http.Request, cookieName string, secure bool) {
	if r.Header.Get(ClientSessionHeader) == ClientSessionStorage {
		w.Header().Set(InvalidateHeader, "1")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
