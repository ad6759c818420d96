// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package backends

import (
	"fmt"
	"slices"

	"golang.org/x/crypto/bcrypt"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/types"
)

// DefaultMode is used when an enrollment request leaves the mode empty and
// the course offers it.
const DefaultMode = "audit"

// UnusablePassword marks accounts created without a password.
const UnusablePassword = "!"

// SelectMode decides the enrollment mode for a course. A forced request may
// use a mode the course does not offer, which is reported as a message.
func SelectMode(course *types.Course, requested string, force bool, op string) (string, []string, error) {
	if requested == "" {
		if len(course.Modes) == 0 || slices.Contains(course.Modes, DefaultMode) {
			return DefaultMode, nil, nil
		}
		return course.Modes[0], nil, nil
	}

	if len(course.Modes) == 0 || slices.Contains(course.Modes, requested) {
		return requested, nil, nil
	}

	if !force {
		return "", nil, apierrors.NewBusinessRuleError(
			fmt.Sprintf("Enrollment mode mismatch: active mode=%s not available for course %s", requested, course.ID),
			op,
		)
	}

	return requested, []string{fmt.Sprintf("Forced enrollment in mode %s not offered by course %s", requested, course.ID)}, nil
}

// CheckCanEnroll refuses inactive users unless the request is forced.
func CheckCanEnroll(user *types.User, force bool, op string) error {
	if !user.IsActive && !force {
		return apierrors.NewBusinessRuleError(
			fmt.Sprintf("User %s is not active, use force to enroll anyway", user.Username),
			op,
		)
	}
	return nil
}

// SiteMatches reports whether the user may be addressed from site.
func SiteMatches(user *types.User, site string) bool {
	return site == "" || user.Site == "" || user.Site == site
}

// MergeAttributes overlays attrs on existing, keyed by namespace and name.
func MergeAttributes(existing, attrs []types.EnrollmentAttribute) []types.EnrollmentAttribute {
	merged := make([]types.EnrollmentAttribute, 0, len(existing)+len(attrs))
	merged = append(merged, existing...)

	for _, a := range attrs {
		idx := slices.IndexFunc(merged, func(e types.EnrollmentAttribute) bool {
			return e.Namespace == a.Namespace && e.Name == a.Name
		})
		if idx >= 0 {
			merged[idx] = a
			continue
		}
		merged = append(merged, a)
	}

	return merged
}

// HashPassword returns the bcrypt hash stored for a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a password with a stored hash.
func CheckPassword(hash, password string) bool {
	if hash == "" || hash == UnusablePassword {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DescribeQuery renders a user query for error messages.
func DescribeQuery(q types.UserQuery) string {
	if q.Username != "" {
		return "username " + q.Username
	}
	if q.Email != "" {
		return "email " + q.Email
	}
	return "empty query"
}
