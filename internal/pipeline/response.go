// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package pipeline

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/cinescope/cinescope/internal/httperr"
	"github.com/cinescope/cinescope/internal/logging"
	"github.com/cinescope/cinescope/internal/validation"
)

// ErrorBody is the uniform error envelope. Every failed request, whatever
// the failing stage, produces exactly this shape.
type ErrorBody struct {
	Message string             `json:"message"`
	Path    string             `json:"path,omitempty"`
	Status  int                `json:"status"`
	Issues  []validation.Issue `json:"issues,omitempty"`
}

// writeSuccess writes the resolved business value as the response body.
func writeSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	writeJSON(w, r, status, data)
}

// writeError writes an error envelope for an already-normalized error.
func writeError(w http.ResponseWriter, r *http.Request, err *httperr.Error, issues []validation.Issue) {
	logging.Warn().
		Int("status", err.Status).
		Str("path", err.Path).
		Str("request_id", logging.RequestIDFromContext(r.Context())).
		Str("route", r.URL.Path).
		Msg(err.Message)

	writeJSON(w, r, err.Status, ErrorBody{
		Message: err.Message,
		Path:    err.Path,
		Status:  err.Status,
		Issues:  issues,
	})
}

// writeValidationError writes a 400 envelope carrying the ordered issue
// list. The first issue's path is promoted to the envelope path.
func writeValidationError(w http.ResponseWriter, r *http.Request, issues []validation.Issue) {
	err := httperr.NewPath(http.StatusBadRequest, issues[0].Message, issues[0].Path)
	writeError(w, r, err, issues)
}

// writeBusinessError normalizes an error thrown by a business function.
// A *httperr.Error keeps its declared status; any other error defaults to
// 400. Defaulting to 400 rather than 500 mirrors the API's long-standing
// observable behavior; see DESIGN.md before changing it.
func writeBusinessError(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr *httperr.Error
	if !errors.As(err, &httpErr) {
		logging.Error().
			Err(err).
			Str("request_id", logging.RequestIDFromContext(r.Context())).
			Str("route", r.URL.Path).
			Msg("Unclassified business error")
		httpErr = httperr.BadRequest(err.Error())
	}
	writeError(w, r, httpErr, nil)
}

// writeJSON writes a JSON response with proper headers.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().
			Err(err).
			Str("request_id", logging.RequestIDFromContext(r.Context())).
			Msg("Failed to encode JSON response")
	}
}
