// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package lilac implements the backends on top of the platform database,
// reading and writing its tables directly.
package lilac

import (
	"errors"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/backends"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/storage"
	"github.com/canonical/lms-bridge/internal/tracing"
)

const Tag = "lilac_v1"

// pageSize bounds the rows read per query when listing users.
const pageSize uint64 = 500

var (
	_ backends.UserBackend       = (*Backend)(nil)
	_ backends.EnrollmentBackend = (*Backend)(nil)
	_ backends.GroupBackend      = (*Backend)(nil)
	_ backends.SocialAuthBackend = (*Backend)(nil)
)

type Backend struct {
	store storage.StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Set exposes the backend as every capability.
func (b *Backend) Set() *backends.Set {
	return &backends.Set{
		Users:       b,
		Enrollments: b,
		Groups:      b,
		SocialAuth:  b,
	}
}

// translate turns storage sentinels into API errors, anything else is
// returned untouched.
func translate(err error, notFound string, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return apierrors.NewNotFoundError(notFound, op)
	case errors.Is(err, storage.ErrDuplicateKey):
		return apierrors.NewConflictError("The resource already exists", op)
	case errors.Is(err, storage.ErrForeignKeyViolation):
		return apierrors.NewNotFoundError(notFound, op)
	}
	return err
}

func NewBackend(store storage.StorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Backend {
	b := new(Backend)

	b.store = store

	b.tracer = tracer
	b.monitor = monitor
	b.logger = logger

	return b
}
