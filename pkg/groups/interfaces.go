// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package groups

import (
	"context"

	"github.com/canonical/lms-bridge/internal/types"
)

type ServiceInterface interface {
	ListGroups(context.Context) ([]string, error)
	// Apply adds and removes the user's memberships, unknown group names
	// fail with a not found error.
	Apply(context.Context, *types.User, types.GroupEdit) error
	// Check fails with a not found error on the first unknown group name.
	Check(context.Context, []string) error
	// Names lists the user's group names, sorted.
	Names(context.Context, *types.User) ([]string, error)
}
