// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package sites

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/canonical/lms-bridge/internal/logging"
)

const settingsYAML = `
default:
  registration_extra_fields:
    company: optional
    city: required
  admin_fields: [email, is_active]
sites:
  lms.example.com:
    registration_extra_fields:
      city: hidden
      title: required
    safe_fields: [fullname, city]
`

func writeSettings(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "sites.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	return path
}

func TestProviderDefaults(t *testing.T) {
	p, err := NewProvider("", logging.NewNoopLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := p.Settings("any.example.com")
	if diff := cmp.Diff(DefaultSafeFields, s.SafeFields); diff != "" {
		t.Errorf("safe fields mismatch (-want +got):\n%s", diff)
	}
	if len(s.ExtraFields()) != 0 {
		t.Errorf("expected no extra fields, got %v", s.ExtraFields())
	}
	if s.AdminFields != nil {
		t.Errorf("expected no admin fields, got %v", s.AdminFields)
	}
}

func TestProviderMergesSiteOverDefault(t *testing.T) {
	path := writeSettings(t, t.TempDir(), settingsYAML)

	p, err := NewProvider(path, logging.NewNoopLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		site     string
		extra    []string
		required []string
		safe     []string
		admin    []string
	}{
		{
			site:     "other.example.com",
			extra:    []string{"city", "company"},
			required: []string{"city"},
			safe:     DefaultSafeFields,
			admin:    []string{"email", "is_active"},
		},
		{
			site:     "lms.example.com",
			extra:    []string{"company", "title"},
			required: []string{"title"},
			safe:     []string{"fullname", "city"},
			admin:    []string{"email", "is_active"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.site, func(t *testing.T) {
			s := p.Settings(tt.site)
			if diff := cmp.Diff(tt.extra, s.ExtraFields()); diff != "" {
				t.Errorf("extra fields mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.required, s.RequiredFields()); diff != "" {
				t.Errorf("required fields mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.safe, s.SafeFields); diff != "" {
				t.Errorf("safe fields mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.admin, s.AdminFields); diff != "" {
				t.Errorf("admin fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProviderSettingsAreCopies(t *testing.T) {
	path := writeSettings(t, t.TempDir(), settingsYAML)

	p, err := NewProvider(path, logging.NewNoopLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := p.Settings("lms.example.com")
	s.SafeFields[0] = "password"
	s.RegistrationExtraFields["title"] = FieldHidden

	s = p.Settings("lms.example.com")
	if s.SafeFields[0] != "fullname" || !s.IsRequired("title") {
		t.Errorf("cached settings were mutated: %+v", s)
	}
}

func TestProviderRejectsInvalidVisibility(t *testing.T) {
	path := writeSettings(t, t.TempDir(), "default:\n  registration_extra_fields:\n    city: mandatory\n")

	if _, err := NewProvider(path, logging.NewNoopLogger()); err == nil {
		t.Fatal("expected an error for an invalid visibility")
	}
}

func TestProviderWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeSettings(t, dir, settingsYAML)

	p, err := NewProvider(path, logging.NewNoopLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := p.Watch(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	writeSettings(t, dir, "default:\n  safe_fields: [bio]\n")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s := p.Settings("other.example.com"); len(s.SafeFields) == 1 && s.SafeFields[0] == "bio" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("settings were not reloaded")
}
