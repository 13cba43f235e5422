// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

// Package httperr defines the error shape carried through the request
// pipeline and across the business layer.
//
// An Error holds a human-readable message, the HTTP status to respond with,
// and optionally the input path (field) the error refers to. Business
// methods return these directly; the pipeline normalizes anything else.
package httperr

import "net/http"

// Error is a request-scoped failure with an HTTP status.
type Error struct {
	// Message is the human-readable description returned to the caller.
	Message string `json:"message"`

	// Path optionally names the input field the error refers to.
	Path string `json:"path,omitempty"`

	// Status is the HTTP status code for the response.
	Status int `json:"status"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// New creates an Error with the given status and message.
func New(status int, message string) *Error {
	return &Error{Message: message, Status: status}
}

// NewPath creates an Error referring to a specific input path.
func NewPath(status int, message, path string) *Error {
	return &Error{Message: message, Path: path, Status: status}
}

// BadRequest creates a 400 error.
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// Forbidden creates a 403 error.
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

// NotFound creates a 404 error.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Conflict creates a 409 error.
func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}
