// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/types"
)

type decodeTarget struct {
	Username string          `json:"username"`
	Groups   []string        `json:"groups"`
	Active   bool            `json:"is_active"`
	Force    *types.FlexBool `json:"force"`
}

func TestDecodeError(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected interface{}
	}{
		{
			name:     "string expected",
			body:     `{"username": 42}`,
			expected: apierrors.FieldErrors{"username": {"Not a valid string."}},
		},
		{
			name:     "list expected",
			body:     `{"groups": "staff"}`,
			expected: apierrors.FieldErrors{"groups": {"Expected a list of items."}},
		},
		{
			name:     "bool expected",
			body:     `{"is_active": "yes"}`,
			expected: apierrors.FieldErrors{"is_active": {"Must be a valid boolean."}},
		},
		{
			name:     "flexible bool",
			body:     `{"force": "maybe"}`,
			expected: apierrors.FieldErrors{"force": {"Must be a valid boolean."}},
		},
		{
			name:     "not an object",
			body:     `"hello"`,
			expected: "Invalid request body",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var target decodeTarget
			err := json.Unmarshal([]byte(test.body), &target)
			if err == nil {
				t.Fatal("expected decoding to fail")
			}

			apiErr, ok := apierrors.As(DecodeError(err, "test"))
			if !ok {
				t.Fatalf("expected an API error")
			}
			if !errors.Is(apiErr, apierrors.ErrValidation) {
				t.Fatalf("expected a validation error, got %v", apiErr)
			}
			if diff := cmp.Diff(test.expected, apiErr.Detail); diff != "" {
				t.Errorf("detail mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeErrorSyntax(t *testing.T) {
	var target decodeTarget
	err := json.Unmarshal([]byte(`{"username": `), &target)

	apiErr, ok := apierrors.As(DecodeError(err, "test"))
	if !ok || !errors.Is(apiErr, apierrors.ErrValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestTextFields(t *testing.T) {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(`{"city": "Athens", "year_of_birth": 1990, "is_active": false, "bio": null, "groups": {"add": []}}`), &raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := map[string]string{"city": "Athens", "year_of_birth": "1990", "is_active": "false", "bio": ""}
	if diff := cmp.Diff(expected, TextFields(raw)); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}
