// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"reflect"
	"strings"
)

// FlexBool accepts JSON booleans as well as their common string forms.
type FlexBool bool

func invalidBool(value string) error {
	return &json.UnmarshalTypeError{Value: value, Type: reflect.TypeOf(false)}
}

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = FlexBool(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return invalidBool(string(data))
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		*b = true
	case "false", "0", "no", "off":
		*b = false
	default:
		return invalidBool("string " + s)
	}

	return nil
}

func (b FlexBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

// NewFlexBool returns a pointer to v.
func NewFlexBool(v bool) *FlexBool {
	b := FlexBool(v)
	return &b
}
