// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package enrollments

import (
	"context"

	"github.com/canonical/lms-bridge/internal/types"
)

type ServiceInterface interface {
	CreateEnrollments(ctx context.Context, site string, batch *Batch) (*BatchResult, error)
	UpdateEnrollments(ctx context.Context, site string, batch *Batch) (*BatchResult, error)
	GetEnrollment(ctx context.Context, q types.UserQuery, courseID string) (*types.Enrollment, error)
	ListEnrollments(ctx context.Context, courseID string) ([]*types.Enrollment, error)
	DeleteEnrollment(ctx context.Context, q types.UserQuery, courseID string) error
}
