// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/backends"
	"github.com/canonical/lms-bridge/internal/types"
)

func cloneEnrollment(e *types.Enrollment) *types.Enrollment {
	c := *e
	c.EnrollmentAttributes = append(make([]types.EnrollmentAttribute, 0, len(e.EnrollmentAttributes)), e.EnrollmentAttributes...)
	return &c
}

func (m *Store) courseIDs(req *types.EnrollmentRequest) ([]string, error) {
	if req.BundleID == "" {
		return []string{req.CourseID}, nil
	}

	b, ok := m.bundles[req.BundleID]
	if !ok {
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("Bundle %s not found", req.BundleID), "memory.CreateEnrollment")
	}
	return b.CourseIDs, nil
}

func (m *Store) CreateEnrollment(ctx context.Context, user *types.User, req *types.EnrollmentRequest) ([]types.CreatedEnrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := backends.CheckCanEnroll(user, req.Forced(), "memory.CreateEnrollment"); err != nil {
		return nil, err
	}

	ids, err := m.courseIDs(req)
	if err != nil {
		return nil, err
	}

	type plan struct {
		courseID string
		mode     string
		msgs     []string
	}

	// check every course of a bundle before enrolling in any of them
	plans := make([]plan, 0, len(ids))
	for _, id := range ids {
		course, ok := m.courses[id]
		if !ok {
			return nil, apierrors.NewNotFoundError(fmt.Sprintf("Course %s not found", id), "memory.CreateEnrollment")
		}

		mode, msgs, err := backends.SelectMode(course, req.Mode, req.Forced(), "memory.CreateEnrollment")
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan{courseID: id, mode: mode, msgs: msgs})
	}

	created := make([]types.CreatedEnrollment, 0, len(plans))
	for _, p := range plans {
		if m.enrollments[p.courseID] == nil {
			m.enrollments[p.courseID] = make(map[string]*types.Enrollment)
		}

		e, exists := m.enrollments[p.courseID][user.Username]
		if exists {
			p.msgs = append(p.msgs, fmt.Sprintf("User %s was already enrolled in %s, enrollment updated", user.Username, p.courseID))
		} else {
			e = &types.Enrollment{
				Username: user.Username,
				CourseID: p.courseID,
				Created:  time.Now().UTC(),
			}
			m.enrollments[p.courseID][user.Username] = e
		}

		e.Mode = p.mode
		e.IsActive = req.Active()
		e.EnrollmentAttributes = backends.MergeAttributes(e.EnrollmentAttributes, req.EnrollmentAttributes)

		created = append(created, types.CreatedEnrollment{Enrollment: cloneEnrollment(e), Messages: p.msgs})
	}

	return created, nil
}

func (m *Store) UpdateEnrollment(ctx context.Context, user *types.User, courseID, mode string, req *types.EnrollmentRequest) (*types.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.enrollments[courseID][user.Username]
	if !ok {
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("No enrollment found for user %s in course %s", user.Username, courseID), "memory.UpdateEnrollment")
	}

	if mode != "" {
		course, ok := m.courses[courseID]
		if !ok {
			return nil, apierrors.NewNotFoundError(fmt.Sprintf("Course %s not found", courseID), "memory.UpdateEnrollment")
		}

		selected, _, err := backends.SelectMode(course, mode, req.Forced(), "memory.UpdateEnrollment")
		if err != nil {
			return nil, err
		}
		e.Mode = selected
	}

	if req.IsActive != nil {
		e.IsActive = bool(*req.IsActive)
	}

	e.EnrollmentAttributes = backends.MergeAttributes(e.EnrollmentAttributes, req.EnrollmentAttributes)

	return cloneEnrollment(e), nil
}

func (m *Store) GetEnrollment(ctx context.Context, username, courseID string) (*types.Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.enrollments[courseID][username]
	if !ok {
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("No enrollment found for user %s in course %s", username, courseID), "memory.GetEnrollment")
	}

	return cloneEnrollment(e), nil
}

func (m *Store) ListCourseEnrollments(ctx context.Context, courseID string) ([]*types.Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.courses[courseID]; !ok {
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("Course %s not found", courseID), "memory.ListCourseEnrollments")
	}

	enrollments := make([]*types.Enrollment, 0, len(m.enrollments[courseID]))
	for _, e := range m.enrollments[courseID] {
		enrollments = append(enrollments, cloneEnrollment(e))
	}
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].Username < enrollments[j].Username })

	return enrollments, nil
}

func (m *Store) GetEnrollmentAttributes(ctx context.Context, username, courseID string) ([]types.EnrollmentAttribute, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.enrollments[courseID][username]
	if !ok {
		return []types.EnrollmentAttribute{}, nil
	}

	return cloneEnrollment(e).EnrollmentAttributes, nil
}

func (m *Store) DeleteEnrollment(ctx context.Context, user *types.User, courseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.enrollments[courseID][user.Username]; !ok {
		return apierrors.NewNotFoundError(fmt.Sprintf("No enrollment found for user %s in course %s", user.Username, courseID), "memory.DeleteEnrollment")
	}

	delete(m.enrollments[courseID], user.Username)

	return nil
}
