// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package apierrors holds the typed errors that backends and services raise
// for conditions a client can act upon. Anything not wrapped in an *Error is
// an internal failure.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeBusinessRule = "BUSINESS_RULE"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
)

// FieldErrors maps a field name to its problems.
type FieldErrors map[string][]string

type Error struct {
	Code   string // Machine-readable error code
	Status int    // HTTP status code
	// Detail is either a string or FieldErrors
	Detail     interface{}
	Op         string
	Underlying error
}

func (e *Error) Error() string {
	msg := e.Message()
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Underlying)
	}
	return msg
}

// Message renders the detail as a single line.
func (e *Error) Message() string {
	switch d := e.Detail.(type) {
	case string:
		return d
	case FieldErrors:
		return "validation failed"
	default:
		return fmt.Sprint(d)
	}
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is matches on the error code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// As extracts an *Error from the chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func NewValidationError(detail interface{}, op string) *Error {
	return &Error{Code: ErrCodeValidation, Status: http.StatusBadRequest, Detail: detail, Op: op}
}

// NewFieldError is a validation error for a single field.
func NewFieldError(field, reason, op string) *Error {
	return NewValidationError(FieldErrors{field: {reason}}, op)
}

func NewNotFoundError(detail interface{}, op string) *Error {
	return &Error{Code: ErrCodeNotFound, Status: http.StatusNotFound, Detail: detail, Op: op}
}

func NewBusinessRuleError(detail interface{}, op string) *Error {
	return &Error{Code: ErrCodeBusinessRule, Status: http.StatusBadRequest, Detail: detail, Op: op}
}

func NewConflictError(detail interface{}, op string) *Error {
	return &Error{Code: ErrCodeConflict, Status: http.StatusBadRequest, Detail: detail, Op: op}
}

func NewUnauthorizedError(detail interface{}, op string) *Error {
	return &Error{Code: ErrCodeUnauthorized, Status: http.StatusUnauthorized, Detail: detail, Op: op}
}

func NewForbiddenError(detail interface{}, op string) *Error {
	return &Error{Code: ErrCodeForbidden, Status: http.StatusForbidden, Detail: detail, Op: op}
}

// Sentinels for errors.Is checks.
var (
	ErrValidation   = &Error{Code: ErrCodeValidation}
	ErrNotFound     = &Error{Code: ErrCodeNotFound}
	ErrBusinessRule = &Error{Code: ErrCodeBusinessRule}
	ErrConflict     = &Error{Code: ErrCodeConflict}
)
