// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"strings"
	"time"
)

type EnrollmentAttribute struct {
	Namespace string `json:"namespace" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Value     string `json:"value" validate:"required"`
}

// Enrollment is the serialized form of a course enrollment.
type Enrollment struct {
	Username             string                `json:"username"`
	CourseID             string                `json:"course_id"`
	Mode                 string                `json:"mode"`
	IsActive             bool                  `json:"is_active"`
	Created              time.Time             `json:"created"`
	EnrollmentAttributes []EnrollmentAttribute `json:"enrollment_attributes"`
}

// EnrollmentRequest is one item of an enrollment create or update call.
type EnrollmentRequest struct {
	Username             string                `json:"username,omitempty"`
	Email                string                `json:"email,omitempty"`
	CourseID             string                `json:"course_id,omitempty"`
	BundleID             string                `json:"bundle_id,omitempty"`
	Mode                 string                `json:"mode,omitempty"`
	IsActive             *FlexBool             `json:"is_active,omitempty"`
	Force                *FlexBool             `json:"force,omitempty"`
	EnrollmentAttributes []EnrollmentAttribute `json:"enrollment_attributes,omitempty" validate:"omitempty,dive"`
}

// Active resolves is_active, defaulting to true.
func (r EnrollmentRequest) Active() bool {
	if r.IsActive == nil {
		return true
	}
	return bool(*r.IsActive)
}

// Forced resolves force, defaulting to false.
func (r EnrollmentRequest) Forced() bool {
	if r.Force == nil {
		return false
	}
	return bool(*r.Force)
}

// CreatedEnrollment is one enrollment produced by a create call.
type CreatedEnrollment struct {
	Enrollment *Enrollment
	Messages   []string
}

// Course is a course known to the platform with the modes it accepts.
type Course struct {
	ID    string
	Modes []string
}

// Bundle groups courses enrolled together.
type Bundle struct {
	ID        string
	CourseIDs []string
}

// CanonicalCourseID restores '+' separators lost to query string decoding.
func CanonicalCourseID(courseID string) string {
	return strings.ReplaceAll(courseID, " ", "+")
}
