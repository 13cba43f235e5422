// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package validation

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// ValidateBody strictly decodes a JSON request body into dst and runs
// tag-based validation. Unknown fields are rejected so undeclared write
// fields can never smuggle past the schema into the persistence layer.
//
// Returns nil when dst now holds valid, typed data; otherwise an ordered
// list of issues (decode issues first, then field issues).
func ValidateBody(body io.Reader, dst interface{}) []Issue {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return []Issue{decodeIssue(err)}
	}
	return validateStruct(dst)
}

// ValidateQuery validates URL query parameters against dst's schema.
//
// Each parameter value must be literal JSON text: take=5 decodes to the
// number 5 and take=five is a validation failure, never a silent coercion
// to string. String parameters are therefore sent JSON-quoted
// (query="matrix"). The assembled object is then strictly decoded into dst
// (undeclared parameters are rejected) and tag-validated.
func ValidateQuery(values url.Values, dst interface{}) []Issue {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var issues []Issue
	decoded := make(map[string]interface{}, len(values))
	for _, key := range keys {
		raw := values.Get(key)
		var value interface{}
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			issues = append(issues, Issue{
				Path:    key,
				Message: fmt.Sprintf("%s must be valid JSON, got %q", key, raw),
			})
			continue
		}
		decoded[key] = value
	}
	if len(issues) > 0 {
		return issues
	}

	// Round-trip through JSON so the schema struct's decoder enforces
	// types and rejects undeclared parameters.
	encoded, err := json.Marshal(decoded)
	if err != nil {
		return []Issue{{Path: "", Message: err.Error()}}
	}
	return ValidateBody(bytes.NewReader(encoded), dst)
}

// decodeIssue converts a JSON decode error to an Issue, extracting the
// field path from unknown-field errors where possible.
func decodeIssue(err error) Issue {
	msg := err.Error()

	// goccy/go-json reports `json: unknown field "isAdmin"`.
	if idx := strings.Index(msg, `unknown field "`); idx != -1 {
		rest := msg[idx+len(`unknown field "`):]
		if end := strings.Index(rest, `"`); end != -1 {
			field := rest[:end]
			return Issue{Path: field, Message: fmt.Sprintf("%s is not a recognized field", field)}
		}
	}

	if err == io.EOF {
		return Issue{Path: "", Message: "request body must be valid JSON"}
	}
	return Issue{Path: "", Message: "invalid JSON: " + msg}
}
