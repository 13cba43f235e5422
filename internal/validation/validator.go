// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

// Package validation provides request input validation using
// go-playground/validator v10.
//
// Input arrives in one of two modes. In body mode the raw JSON payload is
// strictly decoded into the declared schema struct (unknown fields are
// rejected, not dropped). In search-params mode each query string value is
// first JSON-decoded independently, so numbers and booleans survive
// transport as literal JSON text, before the assembled object is checked
// against the schema.
//
// Example schema:
//
//	type CreateRatingRequest struct {
//	    MovieID int64   `json:"movieId" validate:"required,min=1"`
//	    Rating  float64 `json:"rating" validate:"min=0,max=10"`
//	}
//
// Validation failures are reported as an ordered list of per-field issues
// suitable for direct inclusion in a 400 response.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Issue is a single validation failure tied to an input path.
type Issue struct {
	// Path is the JSON path of the offending field, or the query
	// parameter name in search-params mode.
	Path string `json:"path"`

	// Message is a human-readable description of the failure.
	Message string `json:"message"`
}

// getValidator returns the singleton validator instance.
// The validator caches struct metadata and is safe for concurrent use.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report json tag names in errors so issues reference the wire
		// field (rating), not the Go field (Rating).
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// validateStruct runs tag-based validation and returns issues in
// validator order, or nil when the value passes.
func validateStruct(s interface{}) []Issue {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Issue{{Path: "", Message: err.Error()}}
	}

	issues := make([]Issue, len(fieldErrs))
	for i, fe := range fieldErrs {
		issues[i] = Issue{Path: fe.Field(), Message: translateError(fe)}
	}
	return issues
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"datetime": "%s must be a valid date/time in RFC3339 format",
	"url":      "%s must be a valid URL",
}

// errorMessageWithParam maps validation tags to templates that include the
// tag parameter.
var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
	"len":   "%s must have length %s",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}
	return translateMinMax(fe, field, tag, param)
}

// translateMinMax handles min/max with type-specific messages.
func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	isString := fe.Kind() == reflect.String

	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
