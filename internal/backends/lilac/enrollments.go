// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package lilac

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/lms-bridge/internal/backends"
	"github.com/canonical/lms-bridge/internal/storage"
	"github.com/canonical/lms-bridge/internal/types"
)

func (b *Backend) courseIDs(ctx context.Context, req *types.EnrollmentRequest) ([]string, error) {
	if req.BundleID == "" {
		return []string{req.CourseID}, nil
	}

	bundle, err := b.store.GetBundle(ctx, req.BundleID)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("Bundle %s not found", req.BundleID), "lilac.CreateEnrollment")
	}
	return bundle.CourseIDs, nil
}

// CreateEnrollment enrolls the user in the course, or every course of a
// bundle, in a single transaction.
func (b *Backend) CreateEnrollment(ctx context.Context, user *types.User, req *types.EnrollmentRequest) ([]types.CreatedEnrollment, error) {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.CreateEnrollment")
	defer span.End()

	if err := backends.CheckCanEnroll(user, req.Forced(), "lilac.CreateEnrollment"); err != nil {
		return nil, err
	}

	ids, err := b.courseIDs(ctx, req)
	if err != nil {
		return nil, err
	}

	created := make([]types.CreatedEnrollment, 0, len(ids))

	err = b.store.WithTx(ctx, func(ctx context.Context) error {
		for _, id := range ids {
			course, err := b.store.GetCourse(ctx, id)
			if err != nil {
				return translate(err, fmt.Sprintf("Course %s not found", id), "lilac.CreateEnrollment")
			}

			mode, msgs, err := backends.SelectMode(course, req.Mode, req.Forced(), "lilac.CreateEnrollment")
			if err != nil {
				return err
			}

			_, err = b.store.GetEnrollment(ctx, user.ID, id)
			switch {
			case err == nil:
				msgs = append(msgs, fmt.Sprintf("User %s was already enrolled in %s, enrollment updated", user.Username, id))
			case !errors.Is(err, storage.ErrNotFound):
				return err
			}

			e := &types.Enrollment{
				Username:             user.Username,
				CourseID:             id,
				Mode:                 mode,
				IsActive:             req.Active(),
				EnrollmentAttributes: req.EnrollmentAttributes,
			}
			if err := b.store.UpsertEnrollment(ctx, user.ID, e); err != nil {
				return translate(err, fmt.Sprintf("Course %s not found", id), "lilac.CreateEnrollment")
			}

			stored, err := b.store.GetEnrollment(ctx, user.ID, id)
			if err != nil {
				return err
			}

			created = append(created, types.CreatedEnrollment{Enrollment: stored, Messages: msgs})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (b *Backend) UpdateEnrollment(ctx context.Context, user *types.User, courseID, mode string, req *types.EnrollmentRequest) (*types.Enrollment, error) {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.UpdateEnrollment")
	defer span.End()

	notFound := fmt.Sprintf("No enrollment found for user %s in course %s", user.Username, courseID)

	var updated *types.Enrollment
	err := b.store.WithTx(ctx, func(ctx context.Context) error {
		e, err := b.store.GetEnrollment(ctx, user.ID, courseID)
		if err != nil {
			return translate(err, notFound, "lilac.UpdateEnrollment")
		}

		if mode != "" {
			course, err := b.store.GetCourse(ctx, courseID)
			if err != nil {
				return translate(err, fmt.Sprintf("Course %s not found", courseID), "lilac.UpdateEnrollment")
			}

			selected, _, err := backends.SelectMode(course, mode, req.Forced(), "lilac.UpdateEnrollment")
			if err != nil {
				return err
			}
			e.Mode = selected
		}

		if req.IsActive != nil {
			e.IsActive = bool(*req.IsActive)
		}

		e.EnrollmentAttributes = req.EnrollmentAttributes
		if err := b.store.UpsertEnrollment(ctx, user.ID, e); err != nil {
			return translate(err, notFound, "lilac.UpdateEnrollment")
		}

		updated, err = b.store.GetEnrollment(ctx, user.ID, courseID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (b *Backend) GetEnrollment(ctx context.Context, username, courseID string) (*types.Enrollment, error) {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.GetEnrollment")
	defer span.End()

	notFound := fmt.Sprintf("No enrollment found for user %s in course %s", username, courseID)

	u, err := b.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, translate(err, notFound, "lilac.GetEnrollment")
	}

	e, err := b.store.GetEnrollment(ctx, u.ID, courseID)
	if err != nil {
		return nil, translate(err, notFound, "lilac.GetEnrollment")
	}

	return e, nil
}

func (b *Backend) ListCourseEnrollments(ctx context.Context, courseID string) ([]*types.Enrollment, error) {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.ListCourseEnrollments")
	defer span.End()

	if _, err := b.store.GetCourse(ctx, courseID); err != nil {
		return nil, translate(err, fmt.Sprintf("Course %s not found", courseID), "lilac.ListCourseEnrollments")
	}

	return b.store.ListEnrollmentsForCourse(ctx, courseID)
}

func (b *Backend) GetEnrollmentAttributes(ctx context.Context, username, courseID string) ([]types.EnrollmentAttribute, error) {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.GetEnrollmentAttributes")
	defer span.End()

	return b.store.GetEnrollmentAttributes(ctx, username, courseID)
}

func (b *Backend) DeleteEnrollment(ctx context.Context, user *types.User, courseID string) error {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.DeleteEnrollment")
	defer span.End()

	err := b.store.DeleteEnrollment(ctx, user.ID, courseID)
	if err != nil {
		return translate(err, fmt.Sprintf("No enrollment found for user %s in course %s", user.Username, courseID), "lilac.DeleteEnrollment")
	}

	return nil
}
