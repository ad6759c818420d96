// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/lms-bridge/internal/types"
)

func (s *Storage) CreateCourse(ctx context.Context, course *types.Course) error {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateCourse")
	defer span.End()

	return s.db.WithTx(ctx, func(ctx context.Context) error {
		_, err := s.db.Statement(ctx).
			Insert("course_overviews").
			Columns("id").
			Values(course.ID).
			ExecContext(ctx)
		if err != nil {
			if IsDuplicateKeyError(err) {
				return WrapDuplicateKeyError(err, "course already exists")
			}
			return fmt.Errorf("failed to insert course: %v", err)
		}

		if len(course.Modes) == 0 {
			return nil
		}

		q := s.db.Statement(ctx).Insert("course_modes").Columns("course_id", "mode_slug")
		for _, mode := range course.Modes {
			q = q.Values(course.ID, mode)
		}
		if _, err := q.ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to insert course modes: %v", err)
		}
		return nil
	})
}

func (s *Storage) GetCourse(ctx context.Context, id string) (*types.Course, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetCourse")
	defer span.End()

	var courseID string
	err := s.db.Statement(ctx).
		Select("id").
		From("course_overviews").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx).
		Scan(&courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get course: %v", err)
	}

	modes, err := s.selectStrings(ctx, s.db.Statement(ctx).
		Select("mode_slug").
		From("course_modes").
		Where(sq.Eq{"course_id": id}).
		OrderBy("mode_slug"))
	if err != nil {
		return nil, fmt.Errorf("failed to get course modes: %v", err)
	}

	return &types.Course{ID: courseID, Modes: modes}, nil
}

func (s *Storage) CreateBundle(ctx context.Context, bundle *types.Bundle) error {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateBundle")
	defer span.End()

	return s.db.WithTx(ctx, func(ctx context.Context) error {
		_, err := s.db.Statement(ctx).
			Insert("course_bundles").
			Columns("id").
			Values(bundle.ID).
			ExecContext(ctx)
		if err != nil {
			if IsDuplicateKeyError(err) {
				return WrapDuplicateKeyError(err, "bundle already exists")
			}
			return fmt.Errorf("failed to insert bundle: %v", err)
		}

		if len(bundle.CourseIDs) == 0 {
			return nil
		}

		q := s.db.Statement(ctx).Insert("course_bundle_items").Columns("bundle_id", "course_id", "position")
		for i, courseID := range bundle.CourseIDs {
			q = q.Values(bundle.ID, courseID, i)
		}
		if _, err := q.ExecContext(ctx); err != nil {
			if IsForeignKeyViolation(err) {
				return WrapForeignKeyError(err, "bundle references an unknown course")
			}
			return fmt.Errorf("failed to insert bundle items: %v", err)
		}
		return nil
	})
}

func (s *Storage) GetBundle(ctx context.Context, id string) (*types.Bundle, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetBundle")
	defer span.End()

	var bundleID string
	err := s.db.Statement(ctx).
		Select("id").
		From("course_bundles").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx).
		Scan(&bundleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bundle: %v", err)
	}

	courses, err := s.selectStrings(ctx, s.db.Statement(ctx).
		Select("course_id").
		From("course_bundle_items").
		Where(sq.Eq{"bundle_id": id}).
		OrderBy("position"))
	if err != nil {
		return nil, fmt.Errorf("failed to get bundle courses: %v", err)
	}

	return &types.Bundle{ID: bundleID, CourseIDs: courses}, nil
}

func (s *Storage) selectStrings(ctx context.Context, q sq.SelectBuilder) ([]string, error) {
	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, rows.Err()
}
