// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package sites

import (
	"fmt"
	"maps"
	"slices"
	"sort"
)

// Visibility of an extra registration field.
const (
	FieldRequired = "required"
	FieldOptional = "optional"
	FieldHidden   = "hidden"
)

// DefaultSafeFields are the user fields a partial update may change when no
// site overrides them.
var DefaultSafeFields = []string{
	"is_active",
	"password",
	"fullname",
	"mailing_address",
	"year_of_birth",
	"gender",
	"level_of_education",
	"city",
	"country",
	"goals",
	"bio",
	"phone_number",
}

// Settings is the per site configuration of the user endpoints.
type Settings struct {
	// RegistrationExtraFields maps a field name to required, optional or
	// hidden.
	RegistrationExtraFields map[string]string `yaml:"registration_extra_fields"`
	// SafeFields lists the fields a partial update may change.
	SafeFields []string `yaml:"safe_fields"`
	// AdminFields restricts the serialized user when set.
	AdminFields []string `yaml:"admin_fields"`
}

func (s *Settings) clone() *Settings {
	if s == nil {
		return new(Settings)
	}
	return &Settings{
		RegistrationExtraFields: maps.Clone(s.RegistrationExtraFields),
		SafeFields:              slices.Clone(s.SafeFields),
		AdminFields:             slices.Clone(s.AdminFields),
	}
}

func (s *Settings) validate() error {
	for name, v := range s.RegistrationExtraFields {
		switch v {
		case FieldRequired, FieldOptional, FieldHidden:
		default:
			return fmt.Errorf("registration field %s has invalid visibility %q", name, v)
		}
	}
	return nil
}

// ExtraFields returns the names of the non hidden extra registration
// fields, sorted.
func (s *Settings) ExtraFields() []string {
	names := make([]string, 0, len(s.RegistrationExtraFields))
	for name, v := range s.RegistrationExtraFields {
		if v != FieldHidden {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// RequiredFields returns the names of the required extra registration
// fields, sorted.
func (s *Settings) RequiredFields() []string {
	names := make([]string, 0)
	for name, v := range s.RegistrationExtraFields {
		if v == FieldRequired {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (s *Settings) IsRequired(field string) bool {
	return s.RegistrationExtraFields[field] == FieldRequired
}

func (s *Settings) IsSafe(field string) bool {
	return slices.Contains(s.SafeFields, field)
}

// File is the layout of the site settings file.
type File struct {
	Default *Settings            `yaml:"default"`
	Sites   map[string]*Settings `yaml:"sites"`
}
