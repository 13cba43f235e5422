// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/cinescope/cinescope/internal/auth"
	"github.com/cinescope/cinescope/internal/config"
	"github.com/cinescope/cinescope/internal/httperr"
	"github.com/cinescope/cinescope/internal/models"
)

type stubStore struct {
	users map[string]*models.User
}

func (s *stubStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	return s.users[id], nil
}

type fixture struct {
	pipeline *Pipeline
	tokens   *auth.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.SecurityConfig{
		JWTSecret:         "0123456789abcdef0123456789abcdef",
		SessionTimeout:    time.Hour,
		SessionCookieName: "cinescope_session",
	}
	tokens, err := auth.NewTokenManager(cfg)
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	store := &stubStore{users: map[string]*models.User{
		"user-1": {ID: "user-1", DisplayName: "Alice", Active: true},
	}}
	return &fixture{
		pipeline: New(auth.NewVerifier(tokens, store), cfg),
		tokens:   tokens,
	}
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	return body
}

type createNote struct {
	Title string `json:"title" validate:"required"`
}

func TestHandlerAuthRunsBeforeValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	businessRan := false
	h := f.pipeline.Handler(
		func(ctx context.Context, req *Request) (interface{}, error) {
			businessRan = true
			return nil, nil
		},
		// Declared in the opposite of execution order on purpose.
		ValidateBody(func() interface{} { return &createNote{} }),
		RequireAuth(),
	)

	// Invalid body AND bad token: only the auth failure may surface.
	r := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"bogus":true}`))
	r.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	h(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
	body := decodeErrorBody(t, w)
	if body.Message != auth.MsgSessionInvalid {
		t.Errorf("Expected auth failure message, got %q", body.Message)
	}
	if len(body.Issues) != 0 {
		t.Error("Validation must not run when authentication fails")
	}
	if businessRan {
		t.Error("Business function must not run when authentication fails")
	}
}

func TestHandlerMissingTokenKeepsCredential(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	h := f.pipeline.Handler(
		func(ctx context.Context, req *Request) (interface{}, error) { return nil, nil },
		RequireAuth(),
	)

	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	h(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
	body := decodeErrorBody(t, w)
	if body.Message != auth.MsgNotAuthenticated {
		t.Errorf("Unexpected message %q", body.Message)
	}
	if body.Status != http.StatusUnauthorized {
		t.Errorf("Envelope status %d does not match wire status", body.Status)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("A request with no credential has nothing to clear")
	}
}

func TestHandlerExpiredTokenClearsCredential(t *testing.T) {
	t.Parallel()

	cfg := &config.SecurityConfig{
		JWTSecret:         "0123456789abcdef0123456789abcdef",
		SessionTimeout:    -time.Minute,
		SessionCookieName: "cinescope_session",
	}
	tokens, err := auth.NewTokenManager(cfg)
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	p := New(auth.NewVerifier(tokens, &stubStore{users: map[string]*models.User{}}), cfg)
	h := p.Handler(
		func(ctx context.Context, req *Request) (interface{}, error) { return nil, nil },
		RequireAuth(),
	)

	token, _ := tokens.Issue("user-1", "Alice")
	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.AddCookie(&http.Cookie{Name: "cinescope_session", Value: token})
	w := httptest.NewRecorder()
	h(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Error("Expired credential must be cleared on a cookie client")
	}
}

func TestHandlerAugmentationIsAppendOnly(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	token, err := f.tokens.Issue("user-1", "Alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	var seen *Request
	h := f.pipeline.Handler(
		func(ctx context.Context, req *Request) (interface{}, error) {
			seen = req
			return map[string]string{"ok": "yes"}, nil
		},
		RequireAuth(),
		ValidateBody(func() interface{} { return &createNote{} }),
	)

	r := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"title":"Heat"}`))
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if seen == nil {
		t.Fatal("Business function did not run")
	}
	if seen.Principal == nil || seen.Principal.PrincipalID != "user-1" {
		t.Errorf("Expected principal from auth stage, got %+v", seen.Principal)
	}
	note, ok := seen.Body.(*createNote)
	if !ok || note.Title != "Heat" {
		t.Errorf("Expected validated body from validation stage, got %+v", seen.Body)
	}
	if seen.Query != nil {
		t.Error("Query must stay nil when no query schema is declared")
	}
	if seen.HTTP != r {
		t.Error("Underlying request must pass through unchanged")
	}
}

func TestHandlerValidationFailureShortCircuits(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	businessRan := false
	h := f.pipeline.Handler(
		func(ctx context.Context, req *Request) (interface{}, error) {
			businessRan = true
			return nil, nil
		},
		ValidateBody(func() interface{} { return &createNote{} }),
	)

	r := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"title":"x","extra":1}`))
	w := httptest.NewRecorder()
	h(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	body := decodeErrorBody(t, w)
	if len(body.Issues) == 0 {
		t.Fatal("Expected at least one issue in the envelope")
	}
	if body.Path != body.Issues[0].Path {
		t.Errorf("Envelope path %q should mirror the first issue %q", body.Path, body.Issues[0].Path)
	}
	if businessRan {
		t.Error("Business function must not run on validation failure")
	}
}

func TestHandlerSuccessWritesRawValue(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	h := f.pipeline.Handler(func(ctx context.Context, req *Request) (interface{}, error) {
		return map[string]interface{}{"id": 7, "title": "Heat"}, nil
	})

	r := httptest.NewRequest(http.MethodGet, "/movies/7", nil)
	w := httptest.NewRecorder()
	h(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
	// The success payload is the business value itself, not an envelope.
	if _, wrapped := payload["data"]; wrapped {
		t.Error("Success payload must not be wrapped in an envelope")
	}
	if payload["title"] != "Heat" {
		t.Errorf("Expected title 'Heat', got %v", payload["title"])
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Unexpected content type %q", ct)
	}
}

func TestHandlerCreatedWrites201(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	h := f.pipeline.Handler(func(ctx context.Context, req *Request) (interface{}, error) {
		return Created{Value: map[string]int{"id": 1}}, nil
	})

	r := httptest.NewRequest(http.MethodPost, "/movies", nil)
	w := httptest.NewRecorder()
	h(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", w.Code)
	}
	var payload map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
	if payload["id"] != 1 {
		t.Errorf("Expected unwrapped created value, got %v", payload)
	}
}

func TestHandlerBusinessErrorKeepsDeclaredStatus(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	h := f.pipeline.Handler(func(ctx context.Context, req *Request) (interface{}, error) {
		return nil, httperr.NotFound("Movie not found")
	})

	r := httptest.NewRequest(http.MethodGet, "/movies/999", nil)
	w := httptest.NewRecorder()
	h(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
	body := decodeErrorBody(t, w)
	if body.Message != "Movie not found" || body.Status != http.StatusNotFound {
		t.Errorf("Unexpected envelope %+v", body)
	}
}

func TestHandlerUnclassifiedErrorDefaultsTo400(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	h := f.pipeline.Handler(func(ctx context.Context, req *Request) (interface{}, error) {
		return nil, errors.New("cursor invalidated")
	})

	r := httptest.NewRequest(http.MethodGet, "/movies", nil)
	w := httptest.NewRecorder()
	h(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for an unclassified error, got %d", w.Code)
	}
	body := decodeErrorBody(t, w)
	if body.Status != http.StatusBadRequest {
		t.Errorf("Envelope status %d does not match wire status", body.Status)
	}
}

func TestHandlerWrappedBusinessErrorUnwraps(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	h := f.pipeline.Handler(func(ctx context.Context, req *Request) (interface{}, error) {
		return nil, &wrapErr{inner: httperr.Forbidden("Acesso negado.")}
	})

	r := httptest.NewRequest(http.MethodDelete, "/movies/1", nil)
	w := httptest.NewRecorder()
	h(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 via errors.As, got %d", w.Code)
	}
}

type wrapErr struct {
	inner *httperr.Error
}

func (e *wrapErr) Error() string { return e.inner.Message }
func (e *wrapErr) Unwrap() error { return e.inner }

func TestRegistryRejectsEmptyGroup(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	g := f.pipeline.Group("movies")

	if _, err := g.Handlers(); err == nil {
		t.Fatal("Expected error for a group with no registered handlers")
	}
}

func TestRegistryKeepsRegistrationOrder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	g := f.pipeline.Group("movies")
	noop := func(ctx context.Context, req *Request) (interface{}, error) { return nil, nil }
	g.Handle("list", noop)
	g.Handle("get", noop)
	g.Handle("create", noop, RequireAuth())

	handlers, err := g.Handlers()
	if err != nil {
		t.Fatalf("Handlers failed: %v", err)
	}
	if len(handlers) != 3 {
		t.Fatalf("Expected 3 handlers, got %d", len(handlers))
	}
	want := []string{"list", "get", "create"}
	got := g.Names()
	if len(got) != len(want) {
		t.Fatalf("Expected %d names, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Name %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if g.Get("get") == nil {
		t.Error("Expected a composed handler under 'get'")
	}
}

func TestRegistryDuplicateNamePanics(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	g := f.pipeline.Group("movies")
	noop := func(ctx context.Context, req *Request) (interface{}, error) { return nil, nil }
	g.Handle("list", noop)

	defer func() {
		if recover() == nil {
			t.Error("Expected panic on duplicate handler name")
		}
	}()
	g.Handle("list", noop)
}
