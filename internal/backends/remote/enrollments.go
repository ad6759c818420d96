// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package remote

import (
	"context"
	"fmt"

	"github.com/canonical/lms-bridge/internal/types"
)

func (b *Backend) CreateEnrollment(ctx context.Context, user *types.User, req *types.EnrollmentRequest) ([]types.CreatedEnrollment, error) {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.CreateEnrollment")
	defer span.End()

	body := *req
	body.Username = user.Username
	body.Email = ""

	var out createEnrollmentResponse
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/enrollments")
	b.reportAvailability(resp, err)
	if err != nil {
		return nil, fmt.Errorf("create enrollment request: %w", err)
	}
	if err := mapHTTPError(resp, "remote.CreateEnrollment"); err != nil {
		return nil, err
	}

	created := make([]types.CreatedEnrollment, 0, len(out.Enrollments))
	for i := range out.Enrollments {
		created = append(created, types.CreatedEnrollment{
			Enrollment: &out.Enrollments[i].Enrollment,
			Messages:   out.Enrollments[i].Messages,
		})
	}
	return created, nil
}

func (b *Backend) UpdateEnrollment(ctx context.Context, user *types.User, courseID, mode string, req *types.EnrollmentRequest) (*types.Enrollment, error) {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.UpdateEnrollment")
	defer span.End()

	var out types.Enrollment
	resp, err := b.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"username": user.Username, "course_id": courseID}).
		SetBody(updateEnrollmentRequest{
			Mode:                 mode,
			IsActive:             req.IsActive,
			Force:                req.Force,
			EnrollmentAttributes: req.EnrollmentAttributes,
		}).
		SetResult(&out).
		Put("/enrollments/{username}/{course_id}")
	b.reportAvailability(resp, err)
	if err != nil {
		return nil, fmt.Errorf("update enrollment request: %w", err)
	}
	if err := mapHTTPError(resp, "remote.UpdateEnrollment"); err != nil {
		return nil, err
	}

	return &out, nil
}

func (b *Backend) GetEnrollment(ctx context.Context, username, courseID string) (*types.Enrollment, error) {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.GetEnrollment")
	defer span.End()

	var out types.Enrollment
	resp, err := b.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"username": username, "course_id": courseID}).
		SetResult(&out).
		Get("/enrollments/{username}/{course_id}")
	b.reportAvailability(resp, err)
	if err != nil {
		return nil, fmt.Errorf("get enrollment request: %w", err)
	}
	if err := mapHTTPError(resp, "remote.GetEnrollment"); err != nil {
		return nil, err
	}

	return &out, nil
}

func (b *Backend) ListCourseEnrollments(ctx context.Context, courseID string) ([]*types.Enrollment, error) {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.ListCourseEnrollments")
	defer span.End()

	var out []*types.Enrollment
	resp, err := b.client.R().
		SetContext(ctx).
		SetPathParam("course_id", courseID).
		SetResult(&out).
		Get("/courses/{course_id}/enrollments")
	b.reportAvailability(resp, err)
	if err != nil {
		return nil, fmt.Errorf("list enrollments request: %w", err)
	}
	if err := mapHTTPError(resp, "remote.ListCourseEnrollments"); err != nil {
		return nil, err
	}

	if out == nil {
		out = make([]*types.Enrollment, 0)
	}
	return out, nil
}

func (b *Backend) GetEnrollmentAttributes(ctx context.Context, username, courseID string) ([]types.EnrollmentAttribute, error) {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.GetEnrollmentAttributes")
	defer span.End()

	var out []types.EnrollmentAttribute
	resp, err := b.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"username": username, "course_id": courseID}).
		SetResult(&out).
		Get("/enrollments/{username}/{course_id}/attributes")
	b.reportAvailability(resp, err)
	if err != nil {
		return nil, fmt.Errorf("get enrollment attributes request: %w", err)
	}
	if err := mapHTTPError(resp, "remote.GetEnrollmentAttributes"); err != nil {
		return nil, err
	}

	if out == nil {
		out = make([]types.EnrollmentAttribute, 0)
	}
	return out, nil
}

func (b *Backend) DeleteEnrollment(ctx context.Context, user *types.User, courseID string) error {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.DeleteEnrollment")
	defer span.End()

	resp, err := b.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"username": user.Username, "course_id": courseID}).
		Delete("/enrollments/{username}/{course_id}")
	b.reportAvailability(resp, err)
	if err != nil {
		return fmt.Errorf("delete enrollment request: %w", err)
	}

	return mapHTTPError(resp, "remote.DeleteEnrollment")
}
