// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFlexBoolUnmarshal(t *testing.T) {
	tests := []struct {
		input     string
		expected  bool
		expectErr bool
	}{
		{input: `true`, expected: true},
		{input: `false`, expected: false},
		{input: `"True"`, expected: true},
		{input: `"False"`, expected: false},
		{input: `"1"`, expected: true},
		{input: `"maybe"`, expectErr: true},
		{input: `3`, expectErr: true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			var b FlexBool
			err := json.Unmarshal([]byte(test.input), &b)

			if test.expectErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if bool(b) != test.expected {
				t.Fatalf("expected %v, got %v", test.expected, b)
			}
		})
	}
}

func TestProfileSet(t *testing.T) {
	p := Profile{}

	for field, value := range map[string]string{
		"fullname":      "Jane Doe",
		"year_of_birth": "1990",
		"city":          "Bogota",
		"personal_id":   "123",
	} {
		if err := p.Set(field, value); err != nil {
			t.Fatalf("unexpected error for %s: %v", field, err)
		}
	}

	year := 1990
	expected := Profile{
		Name:        "Jane Doe",
		YearOfBirth: &year,
		City:        "Bogota",
		Meta:        map[string]string{"personal_id": "123"},
	}

	if diff := cmp.Diff(expected, p); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}

	if err := p.Set("year_of_birth", "nineteen"); err != ErrInvalidYearOfBirth {
		t.Fatalf("expected ErrInvalidYearOfBirth, got %v", err)
	}
}

func TestUserDetail(t *testing.T) {
	u := &User{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		IsActive: true,
		Profile: Profile{
			Name: "John",
			Meta: map[string]string{"b": "2", "a": "1"},
		},
	}

	d := u.Detail()

	expected := []ExtendedProfileField{{FieldName: "a", FieldValue: "1"}, {FieldName: "b", FieldValue: "2"}}
	if diff := cmp.Diff(expected, d.ExtendedProfile); diff != "" {
		t.Fatalf("extended profile mismatch (-want +got):\n%s", diff)
	}

	if d.Name != "John" || !d.IsActive {
		t.Fatalf("unexpected detail %+v", d)
	}
}

func TestCanonicalCourseID(t *testing.T) {
	if got := CanonicalCourseID("course-v1:X Y Z"); got != "course-v1:X+Y+Z" {
		t.Fatalf("unexpected course id %s", got)
	}
}
