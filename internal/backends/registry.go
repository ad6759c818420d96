// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package backends

import (
	"fmt"
	"sort"
	"sync"

	"github.com/canonical/lms-bridge/internal/logging"
)

type Capability string

const (
	CapabilityUsers          Capability = "users"
	CapabilityEnrollments    Capability = "enrollments"
	CapabilityGroups         Capability = "groups"
	CapabilityUserSocialAuth Capability = "user_social_auth"
)

// Set is what a version tag provides, a nil member means the capability is
// not implemented for that tag.
type Set struct {
	Users       UserBackend
	Enrollments EnrollmentBackend
	Groups      GroupBackend
	SocialAuth  SocialAuthBackend
}

func (s *Set) has(c Capability) bool {
	switch c {
	case CapabilityUsers:
		return s.Users != nil
	case CapabilityEnrollments:
		return s.Enrollments != nil
	case CapabilityGroups:
		return s.Groups != nil
	case CapabilityUserSocialAuth:
		return s.SocialAuth != nil
	}
	return false
}

// Constructor builds the backends for one version tag.
type Constructor func() (*Set, error)

// Selection names the version tag serving each capability.
type Selection map[Capability]string

// Registry maps platform version tags to backend constructors.
type Registry struct {
	mu           sync.Mutex
	constructors map[string]Constructor
	built        map[string]*Set

	logger logging.LoggerInterface
}

// Register adds a version tag, registering a tag twice is a programming
// error.
func (r *Registry) Register(tag string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.constructors[tag]; ok {
		panic(fmt.Sprintf("backend %q registered twice", tag))
	}
	r.constructors[tag] = c
}

// Tags lists the registered version tags.
func (r *Registry) Tags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	tags := make([]string, 0, len(r.constructors))
	for t := range r.constructors {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

func (r *Registry) build(tag string) (*Set, error) {
	if s, ok := r.built[tag]; ok {
		return s, nil
	}

	c, ok := r.constructors[tag]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q", tag)
	}

	s, err := c()
	if err != nil {
		return nil, fmt.Errorf("failed to build backend %q: %w", tag, err)
	}

	r.built[tag] = s
	return s, nil
}

// Resolve builds one Set whose members come from the selected tags. Each
// tag's constructor runs at most once per registry.
func (r *Registry) Resolve(sel Selection) (*Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	resolved := new(Set)

	for _, c := range []Capability{CapabilityUsers, CapabilityEnrollments, CapabilityGroups, CapabilityUserSocialAuth} {
		tag, ok := sel[c]
		if !ok || tag == "" {
			return nil, fmt.Errorf("no backend configured for %s", c)
		}

		s, err := r.build(tag)
		if err != nil {
			return nil, err
		}

		if !s.has(c) {
			return nil, fmt.Errorf("backend %q does not provide %s", tag, c)
		}

		switch c {
		case CapabilityUsers:
			resolved.Users = s.Users
		case CapabilityEnrollments:
			resolved.Enrollments = s.Enrollments
		case CapabilityGroups:
			resolved.Groups = s.Groups
		case CapabilityUserSocialAuth:
			resolved.SocialAuth = s.SocialAuth
		}

		r.logger.Infof("Using backend %q for %s", tag, c)
	}

	return resolved, nil
}

func NewRegistry(logger logging.LoggerInterface) *Registry {
	r := new(Registry)

	r.constructors = make(map[string]Constructor)
	r.built = make(map[string]*Set)
	r.logger = logger

	return r
}
