// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package enrollments

import (
	"context"
	"errors"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/backends"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/internal/types"
	"github.com/canonical/lms-bridge/pkg/userquery"
)

const (
	MissingCourseMessage       = "You have to provide a course_id"
	MissingUpdateCourseMessage = "You have to provide a course_id for updates"
	MissingTargetMessage       = "You have to provide a course_id or bundle_id"
)

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	backend      backends.EnrollmentBackend
	helper       *userquery.Helper
	allowListAll bool

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *Service) CreateEnrollments(ctx context.Context, site string, batch *Batch) (*BatchResult, error) {
	ctx, span := s.tracer.Start(ctx, "enrollments.Service.CreateEnrollments")
	defer span.End()

	return batch.process(ctx, func(ctx context.Context, req *types.EnrollmentRequest) ([]Document, error) {
		return s.createOne(ctx, site, req)
	})
}

func (s *Service) createOne(ctx context.Context, site string, req *types.EnrollmentRequest) ([]Document, error) {
	user, err := s.helper.Resolve(ctx, requestQuery(req, site))
	if err != nil {
		return nil, err
	}

	if req.CourseID == "" && req.BundleID == "" {
		return nil, apierrors.NewValidationError(MissingTargetMessage, "enrollments.CreateEnrollments")
	}

	if req.CourseID != "" {
		req.CourseID = types.CanonicalCourseID(req.CourseID)
	}

	created, err := s.backend.CreateEnrollment(ctx, user, req)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(created))
	for _, c := range created {
		docs = append(docs, Document{Enrollment: c.Enrollment, Messages: c.Messages})
	}

	return docs, nil
}

func (s *Service) UpdateEnrollments(ctx context.Context, site string, batch *Batch) (*BatchResult, error) {
	ctx, span := s.tracer.Start(ctx, "enrollments.Service.UpdateEnrollments")
	defer span.End()

	return batch.process(ctx, func(ctx context.Context, req *types.EnrollmentRequest) ([]Document, error) {
		return s.updateOne(ctx, site, req)
	})
}

func (s *Service) updateOne(ctx context.Context, site string, req *types.EnrollmentRequest) ([]Document, error) {
	user, err := s.helper.Resolve(ctx, requestQuery(req, site))
	if err != nil {
		return nil, err
	}

	if req.CourseID == "" {
		return nil, apierrors.NewValidationError(MissingUpdateCourseMessage, "enrollments.UpdateEnrollments")
	}

	e, err := s.backend.UpdateEnrollment(ctx, user, types.CanonicalCourseID(req.CourseID), req.Mode, req)
	if err != nil {
		return nil, err
	}

	return []Document{{Enrollment: e}}, nil
}

// GetEnrollment reads the enrollment of one user, failures of the lookup
// are reported as not found.
func (s *Service) GetEnrollment(ctx context.Context, q types.UserQuery, courseID string) (*types.Enrollment, error) {
	ctx, span := s.tracer.Start(ctx, "enrollments.Service.GetEnrollment")
	defer span.End()

	if courseID == "" {
		return nil, apierrors.NewValidationError(MissingCourseMessage, "enrollments.GetEnrollment")
	}

	user, err := s.helper.Resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	e, err := s.backend.GetEnrollment(ctx, user.Username, types.CanonicalCourseID(courseID))
	if err != nil {
		return nil, asNotFound(err, "enrollments.GetEnrollment")
	}

	return e, nil
}

// ListEnrollments returns every enrollment of the course with its
// attributes.
func (s *Service) ListEnrollments(ctx context.Context, courseID string) ([]*types.Enrollment, error) {
	ctx, span := s.tracer.Start(ctx, "enrollments.Service.ListEnrollments")
	defer span.End()

	if courseID == "" {
		return nil, apierrors.NewValidationError(MissingCourseMessage, "enrollments.ListEnrollments")
	}

	if !s.allowListAll {
		return nil, apierrors.NewValidationError(userquery.MissingIdentityMessage, "enrollments.ListEnrollments")
	}

	courseID = types.CanonicalCourseID(courseID)

	list, err := s.backend.ListCourseEnrollments(ctx, courseID)
	if err != nil {
		return nil, asNotFound(err, "enrollments.ListEnrollments")
	}

	for _, e := range list {
		attrs, err := s.backend.GetEnrollmentAttributes(ctx, e.Username, courseID)
		if err != nil {
			return nil, err
		}
		e.EnrollmentAttributes = attrs
		e.CourseID = courseID
	}

	return list, nil
}

func (s *Service) DeleteEnrollment(ctx context.Context, q types.UserQuery, courseID string) error {
	ctx, span := s.tracer.Start(ctx, "enrollments.Service.DeleteEnrollment")
	defer span.End()

	user, err := s.helper.Resolve(ctx, q)
	if err != nil {
		return err
	}

	if courseID == "" {
		return apierrors.NewValidationError(MissingCourseMessage, "enrollments.DeleteEnrollment")
	}

	return s.backend.DeleteEnrollment(ctx, user, types.CanonicalCourseID(courseID))
}

func requestQuery(req *types.EnrollmentRequest, site string) types.UserQuery {
	q := types.UserQuery{Site: site}
	if req.Username != "" {
		q.Username = req.Username
	} else {
		q.Email = req.Email
	}
	return q
}

func asNotFound(err error, op string) error {
	if errors.Is(err, apierrors.ErrNotFound) {
		return err
	}

	apiErr, ok := apierrors.As(err)
	if !ok {
		return err
	}

	return apierrors.NewNotFoundError(apiErr.Detail, op)
}

func NewService(backend backends.EnrollmentBackend, helper *userquery.Helper, allowListAll bool, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	s := new(Service)

	s.backend = backend
	s.helper = helper
	s.allowListAll = allowListAll

	s.monitor = monitor
	s.tracer = tracer
	s.logger = logger

	return s
}
