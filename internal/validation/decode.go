// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/canonical/lms-bridge/internal/apierrors"
)

// DecodeError turns a JSON decoding failure into a validation error, type
// mismatches are reported against their field.
func DecodeError(err error, op string) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apierrors.NewFieldError(typeErr.Field, typeMessage(typeErr.Type.Kind().String()), op)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return apierrors.NewValidationError(fmt.Sprintf("JSON parse error - %s", syntaxErr.Error()), op)
	}

	return apierrors.NewValidationError("Invalid request body", op)
}

func typeMessage(kind string) string {
	switch kind {
	case "string":
		return "Not a valid string."
	case "bool":
		return "Must be a valid boolean."
	case "slice":
		return "Expected a list of items."
	case "map", "struct":
		return "Expected a dictionary of items."
	case "int", "int64", "int32":
		return "A valid integer is required."
	default:
		return "Invalid value."
	}
}

// TextFields returns the scalar top level members of a JSON object as text,
// null becomes the empty string while objects and lists are skipped.
func TextFields(raw map[string]json.RawMessage) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		var decoded interface{}
		if err := json.Unmarshal(v, &decoded); err != nil {
			continue
		}
		switch val := decoded.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = val
		case bool:
			out[k] = strconv.FormatBool(val)
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		}
	}
	return out
}
