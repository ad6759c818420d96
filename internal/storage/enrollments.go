// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/lms-bridge/internal/types"
)

var enrollmentColumns = []string{
	"e.id",
	"u.username",
	"e.course_id",
	"e.mode",
	"e.is_active",
	"e.created",
}

func (s *Storage) selectEnrollments(ctx context.Context) sq.SelectBuilder {
	return s.db.Statement(ctx).
		Select(enrollmentColumns...).
		From("student_courseenrollment e").
		Join("auth_user u ON u.id = e.user_id")
}

// UpsertEnrollment creates the enrollment or updates mode and state of an
// existing one, attributes are merged.
func (s *Storage) UpsertEnrollment(ctx context.Context, userID int64, enrollment *types.Enrollment) error {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.UpsertEnrollment")
	defer span.End()

	if enrollment.Created.IsZero() {
		enrollment.Created = time.Now().UTC()
	}

	return s.db.WithTx(ctx, func(ctx context.Context) error {
		_, err := s.db.Statement(ctx).
			Insert("student_courseenrollment").
			Columns("user_id", "course_id", "mode", "is_active", "created").
			Values(userID, enrollment.CourseID, enrollment.Mode, enrollment.IsActive, enrollment.Created).
			Suffix("ON CONFLICT (user_id, course_id) DO UPDATE SET mode = excluded.mode, is_active = excluded.is_active").
			ExecContext(ctx)
		if err != nil {
			if IsForeignKeyViolation(err) {
				return WrapForeignKeyError(err, "unknown user or course")
			}
			return fmt.Errorf("failed to upsert enrollment: %v", err)
		}

		return s.SetEnrollmentAttributes(ctx, userID, enrollment.CourseID, enrollment.EnrollmentAttributes)
	})
}

func (s *Storage) GetEnrollment(ctx context.Context, userID int64, courseID string) (*types.Enrollment, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetEnrollment")
	defer span.End()

	row := s.selectEnrollments(ctx).
		Where(sq.Eq{"e.user_id": userID, "e.course_id": courseID}).
		QueryRowContext(ctx)

	id, e, err := scanEnrollment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %v", err)
	}

	attrs, err := s.attributes(ctx, sq.Eq{"a.enrollment_id": id})
	if err != nil {
		return nil, err
	}
	e.EnrollmentAttributes = attrs

	return e, nil
}

// ListEnrollmentsForCourse returns the course enrollments ordered by
// username, without attributes.
func (s *Storage) ListEnrollmentsForCourse(ctx context.Context, courseID string) ([]*types.Enrollment, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListEnrollmentsForCourse")
	defer span.End()

	rows, err := s.selectEnrollments(ctx).
		Where(sq.Eq{"e.course_id": courseID}).
		OrderBy("u.username").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %v", err)
	}
	defer rows.Close()

	enrollments := make([]*types.Enrollment, 0)
	for rows.Next() {
		_, e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %v", err)
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %v", err)
	}

	return enrollments, nil
}

func (s *Storage) GetEnrollmentAttributes(ctx context.Context, username, courseID string) ([]types.EnrollmentAttribute, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetEnrollmentAttributes")
	defer span.End()

	return s.attributes(ctx, sq.Eq{"u.username": username, "e.course_id": courseID})
}

func (s *Storage) attributes(ctx context.Context, where sq.Eq) ([]types.EnrollmentAttribute, error) {
	rows, err := s.db.Statement(ctx).
		Select("a.namespace", "a.name", "a.value").
		From("student_courseenrollmentattribute a").
		Join("student_courseenrollment e ON e.id = a.enrollment_id").
		Join("auth_user u ON u.id = e.user_id").
		Where(where).
		OrderBy("a.namespace", "a.name").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment attributes: %v", err)
	}
	defer rows.Close()

	attrs := make([]types.EnrollmentAttribute, 0)
	for rows.Next() {
		var a types.EnrollmentAttribute
		if err := rows.Scan(&a.Namespace, &a.Name, &a.Value); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment attribute: %v", err)
		}
		attrs = append(attrs, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get enrollment attributes: %v", err)
	}

	return attrs, nil
}

func (s *Storage) SetEnrollmentAttributes(ctx context.Context, userID int64, courseID string, attrs []types.EnrollmentAttribute) error {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.SetEnrollmentAttributes")
	defer span.End()

	if len(attrs) == 0 {
		return nil
	}

	return s.db.WithTx(ctx, func(ctx context.Context) error {
		var enrollmentID int64
		err := s.db.Statement(ctx).
			Select("id").
			From("student_courseenrollment").
			Where(sq.Eq{"user_id": userID, "course_id": courseID}).
			QueryRowContext(ctx).
			Scan(&enrollmentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get enrollment: %v", err)
		}

		for _, a := range attrs {
			_, err := s.db.Statement(ctx).
				Insert("student_courseenrollmentattribute").
				Columns("enrollment_id", "namespace", "name", "value").
				Values(enrollmentID, a.Namespace, a.Name, a.Value).
				Suffix("ON CONFLICT (enrollment_id, namespace, name) DO UPDATE SET value = excluded.value").
				ExecContext(ctx)
			if err != nil {
				return fmt.Errorf("failed to set enrollment attribute: %v", err)
			}
		}
		return nil
	})
}

func (s *Storage) DeleteEnrollment(ctx context.Context, userID int64, courseID string) error {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.DeleteEnrollment")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Delete("student_courseenrollment").
		Where(sq.Eq{"user_id": userID, "course_id": courseID}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %v", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %v", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func scanEnrollment(row interface{ Scan(...interface{}) error }) (int64, *types.Enrollment, error) {
	var (
		id int64
		e  types.Enrollment
	)

	if err := row.Scan(&id, &e.Username, &e.CourseID, &e.Mode, &e.IsActive, &e.Created); err != nil {
		return 0, nil, err
	}

	return id, &e, nil
}
