// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

// Package pipeline composes business methods into HTTP handlers.
//
// Every endpoint is built from a plain business function plus zero or
// more declared requirements (authentication, body validation, query
// validation). The composed handler runs the stages in a fixed order:
// authentication, then validation, then the business function —
// regardless of the order requirements were declared, because validated
// input must be attributable to a known principal before it is accepted.
//
// A stage failure short-circuits the request: later stages and the
// business function never run and no partial side effects occur. All
// failures are normalized into the uniform response envelope at the
// pipeline boundary; business errors keep their declared status, anything
// else defaults to 400 (see DESIGN.md for why 400 rather than 500).
//
// The pipeline holds no mutable state between requests. Each invocation
// augments only its own Request value, and augmentation is append-only:
// a stage sets its field once and no later stage rewrites it.
package pipeline

import (
	"context"
	"net/http"

	"github.com/cinescope/cinescope/internal/auth"
	"github.com/cinescope/cinescope/internal/config"
	"github.com/cinescope/cinescope/internal/validation"
)

// Request is the inbound request augmented by successful pipeline stages.
type Request struct {
	// HTTP is the underlying request (path params, headers, context).
	HTTP *http.Request

	// Principal is the authenticated session. Set by the authentication
	// stage; nil on endpoints that do not require auth.
	Principal *auth.Session

	// Body holds the schema-validated request body. Set by the body
	// validation stage; nil otherwise.
	Body interface{}

	// Query holds the schema-validated query parameters. Set by the
	// query validation stage; nil otherwise.
	Query interface{}
}

// Func is a business method invoked with the augmented request. It
// returns the success payload, or an error normalized by the pipeline
// (*httperr.Error keeps its status; anything else becomes a 400).
type Func func(ctx context.Context, req *Request) (interface{}, error)

// Created wraps a business result so the envelope is written with
// 201 Created instead of 200.
type Created struct {
	Value interface{}
}

// StartSession wraps a login result. The pipeline attaches the session
// credential to the response (cookie transport) before writing the value,
// so business functions never touch credential transport directly.
type StartSession struct {
	Token string
	Value interface{}
}

// EndSession wraps a logout result. The pipeline clears the session
// credential using the client's declared transport before writing the
// value.
type EndSession struct {
	Value interface{}
}

// endpoint is a business function with its declared requirements.
type endpoint struct {
	fn          Func
	requireAuth bool
	bodySchema  func() interface{}
	querySchema func() interface{}
}

// Option declares a cross-cutting requirement on an endpoint.
type Option func(*endpoint)

// RequireAuth declares that the endpoint only runs for an authenticated,
// still-active principal.
func RequireAuth() Option {
	return func(e *endpoint) { e.requireAuth = true }
}

// ValidateBody declares that the request body must validate against the
// schema struct produced by newSchema before the business function runs.
func ValidateBody(newSchema func() interface{}) Option {
	return func(e *endpoint) { e.bodySchema = newSchema }
}

// ValidateQuery declares that the query string must validate against the
// schema struct produced by newSchema before the business function runs.
func ValidateQuery(newSchema func() interface{}) Option {
	return func(e *endpoint) { e.querySchema = newSchema }
}

// Pipeline builds HTTP handlers around shared collaborators. It is
// constructed once at startup and is safe for concurrent use.
type Pipeline struct {
	verifier     *auth.Verifier
	cookieName   string
	cookieSecure bool
	cookieMaxAge int
}

// New creates a pipeline bound to a session verifier and the security
// configuration that governs credential transport.
func New(verifier *auth.Verifier, cfg *config.SecurityConfig) *Pipeline {
	return &Pipeline{
		verifier:     verifier,
		cookieName:   cfg.SessionCookieName,
		cookieSecure: cfg.CookieSecure,
		cookieMaxAge: int(cfg.SessionTimeout.Seconds()),
	}
}

// Handler composes fn with its declared requirements into an
// http.HandlerFunc. Composition happens once at registration time; the
// returned handler allocates only the per-request Request value.
func (p *Pipeline) Handler(fn Func, opts ...Option) http.HandlerFunc {
	ep := &endpoint{fn: fn}
	for _, opt := range opts {
		opt(ep)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		req := &Request{HTTP: r}

		// Stage 1: authentication. Runs first so every later stage and
		// the business function can attribute the request to a
		// principal. Failure short-circuits before any input parsing.
		if ep.requireAuth {
			session, authErr := p.verifier.Verify(r.Context(), auth.TokenFromRequest(r, p.cookieName))
			if authErr != nil {
				if authErr.ClearCredential {
					auth.ClearCredential(w, r, p.cookieName, p.cookieSecure)
				}
				writeError(w, r, authErr.Error, nil)
				return
			}
			req.Principal = session
		}

		// Stage 2: validation. Raw input never reaches the business
		// function when a schema is declared.
		if ep.bodySchema != nil {
			dst := ep.bodySchema()
			if issues := validation.ValidateBody(r.Body, dst); issues != nil {
				writeValidationError(w, r, issues)
				return
			}
			req.Body = dst
		}
		if ep.querySchema != nil {
			dst := ep.querySchema()
			if issues := validation.ValidateQuery(r.URL.Query(), dst); issues != nil {
				writeValidationError(w, r, issues)
				return
			}
			req.Query = dst
		}

		// Stage 3: the business function.
		result, err := ep.fn(r.Context(), req)
		if err != nil {
			writeBusinessError(w, r, err)
			return
		}

		switch res := result.(type) {
		case Created:
			writeSuccess(w, r, http.StatusCreated, res.Value)
		case StartSession:
			auth.SetSessionCookie(w, p.cookieName, res.Token, p.cookieMaxAge, p.cookieSecure)
			writeSuccess(w, r, http.StatusOK, res.Value)
		case EndSession:
			auth.ClearCredential(w, r, p.cookieName, p.cookieSecure)
			writeSuccess(w, r, http.StatusOK, res.Value)
		default:
			writeSuccess(w, r, http.StatusOK, result)
		}
	}
}
