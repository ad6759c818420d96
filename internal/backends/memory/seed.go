// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package memory

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/types"
)

// defaultModes applies to seeded courses listing no modes.
var defaultModes = []string{"audit"}

type SeedCourse struct {
	ID    string   `yaml:"id"`
	Modes []string `yaml:"modes"`
}

type SeedBundle struct {
	ID      string   `yaml:"id"`
	Courses []string `yaml:"courses"`
}

// Seed is the catalog a store starts with, courses and bundles cannot be
// created through the API.
type Seed struct {
	Courses []SeedCourse `yaml:"courses"`
	Bundles []SeedBundle `yaml:"bundles"`
	Groups  []string     `yaml:"groups"`
}

func (s *Seed) validate() error {
	courses := make(map[string]struct{}, len(s.Courses))
	for i, c := range s.Courses {
		if c.ID == "" {
			return fmt.Errorf("course %d has no id", i)
		}
		courses[c.ID] = struct{}{}
	}

	for _, b := range s.Bundles {
		if b.ID == "" {
			return fmt.Errorf("bundle with courses %v has no id", b.Courses)
		}
		if len(b.Courses) == 0 {
			return fmt.Errorf("bundle %s has no courses", b.ID)
		}
		for _, c := range b.Courses {
			if _, ok := courses[c]; !ok {
				return fmt.Errorf("bundle %s references unknown course %s", b.ID, c)
			}
		}
	}

	for _, g := range s.Groups {
		if g == "" {
			return fmt.Errorf("empty group name")
		}
	}

	return nil
}

// LoadSeed reads a YAML seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read memory seed: %v", err)
	}

	seed := new(Seed)
	if err := yaml.Unmarshal(data, seed); err != nil {
		return nil, fmt.Errorf("failed to parse memory seed: %v", err)
	}

	if err := seed.validate(); err != nil {
		return nil, fmt.Errorf("invalid memory seed: %v", err)
	}

	return seed, nil
}

// Load adds the seed catalog to the store. Groups that already exist are
// kept.
func (m *Store) Load(ctx context.Context, seed *Seed) error {
	if err := seed.validate(); err != nil {
		return err
	}

	for _, c := range seed.Courses {
		modes := c.Modes
		if len(modes) == 0 {
			modes = defaultModes
		}
		m.AddCourse(&types.Course{ID: c.ID, Modes: modes})
	}

	for _, b := range seed.Bundles {
		m.AddBundle(&types.Bundle{ID: b.ID, CourseIDs: b.Courses})
	}

	for _, g := range seed.Groups {
		_, err := m.CreateGroup(ctx, g, types.GroupTypeLocal)
		if err != nil && !errors.Is(err, apierrors.ErrConflict) {
			return err
		}
	}

	return nil
}
