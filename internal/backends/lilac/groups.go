// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package lilac

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/storage"
	"github.com/canonical/lms-bridge/internal/types"
)

func (b *Backend) GetGroup(ctx context.Context, name string) (*types.Group, error) {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.GetGroup")
	defer span.End()

	g, err := b.store.GetGroupByName(ctx, name)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("Group %s does not exist", name), "lilac.GetGroup")
	}
	return g, nil
}

func (b *Backend) GetAllGroups(ctx context.Context) ([]*types.Group, error) {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.GetAllGroups")
	defer span.End()

	return b.store.ListGroups(ctx)
}

func (b *Backend) GetGroups(ctx context.Context, user *types.User) ([]*types.Group, error) {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.GetGroups")
	defer span.End()

	return b.store.ListGroupsForUser(ctx, user.ID)
}

func (b *Backend) CreateGroup(ctx context.Context, name string, groupType types.GroupType) (*types.Group, error) {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.CreateGroup")
	defer span.End()

	g, err := b.store.CreateGroup(ctx, &types.Group{Name: name, Type: groupType})
	if errors.Is(err, storage.ErrDuplicateKey) {
		return nil, apierrors.NewConflictError(fmt.Sprintf("Group %s already exists", name), "lilac.CreateGroup")
	}
	if err != nil {
		return nil, translate(err, "", "lilac.CreateGroup")
	}
	return g, nil
}

func (b *Backend) AddUserToGroup(ctx context.Context, user *types.User, group *types.Group) error {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.AddUserToGroup")
	defer span.End()

	err := b.store.AddUserToGroup(ctx, group.ID, user.ID)
	return translate(err, fmt.Sprintf("Group %s does not exist", group.Name), "lilac.AddUserToGroup")
}

func (b *Backend) RemoveUserFromGroup(ctx context.Context, user *types.User, group *types.Group) error {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.RemoveUserFromGroup")
	defer span.End()

	err := b.store.RemoveUserFromGroup(ctx, group.ID, user.ID)
	return translate(err, fmt.Sprintf("Group %s does not exist", group.Name), "lilac.RemoveUserFromGroup")
}
