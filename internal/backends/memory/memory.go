// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package memory is a process local backend, used for development setups
// and tests.
package memory

import (
	"sync"

	"github.com/canonical/lms-bridge/internal/backends"
	"github.com/canonical/lms-bridge/internal/types"
)

const Tag = "memory"

var (
	_ backends.UserBackend       = (*Store)(nil)
	_ backends.EnrollmentBackend = (*Store)(nil)
	_ backends.GroupBackend      = (*Store)(nil)
	_ backends.SocialAuthBackend = (*Store)(nil)
)

type Store struct {
	mu sync.RWMutex

	nextUserID   int64
	nextSocialID int64

	users       map[int64]*types.User
	courses     map[string]*types.Course
	bundles     map[string]*types.Bundle
	enrollments map[string]map[string]*types.Enrollment
	groups      map[string]*types.Group
	members     map[string]map[int64]struct{}
	socialAuths []*types.UserSocialAuth
}

// AddCourse makes a course available for enrollment.
func (m *Store) AddCourse(course *types.Course) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *course
	c.Modes = append([]string(nil), course.Modes...)
	m.courses[c.ID] = &c
}

// AddBundle registers a bundle of courses.
func (m *Store) AddBundle(bundle *types.Bundle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := *bundle
	b.CourseIDs = append([]string(nil), bundle.CourseIDs...)
	m.bundles[b.ID] = &b
}

// Set exposes the store as every capability.
func (m *Store) Set() *backends.Set {
	return &backends.Set{
		Users:       m,
		Enrollments: m,
		Groups:      m,
		SocialAuth:  m,
	}
}

func NewStore() *Store {
	m := new(Store)

	m.users = make(map[int64]*types.User)
	m.courses = make(map[string]*types.Course)
	m.bundles = make(map[string]*types.Bundle)
	m.enrollments = make(map[string]map[string]*types.Enrollment)
	m.groups = make(map[string]*types.Group)
	m.members = make(map[string]map[int64]struct{})

	return m
}
