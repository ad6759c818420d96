// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/canonical/lms-bridge/internal/types"
)

func (b *Backend) listGroups(ctx context.Context, path string, params map[string]string, op string) ([]*types.Group, error) {
	var out []*types.Group
	resp, err := b.client.R().
		SetContext(ctx).
		SetPathParams(params).
		SetResult(&out).
		Get(path)
	b.reportAvailability(resp, err)
	if err != nil {
		return nil, fmt.Errorf("list groups request: %w", err)
	}
	if err := mapHTTPError(resp, op); err != nil {
		return nil, err
	}

	if out == nil {
		out = make([]*types.Group, 0)
	}
	return out, nil
}

func (b *Backend) GetGroup(ctx context.Context, name string) (*types.Group, error) {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.GetGroup")
	defer span.End()

	var out types.Group
	resp, err := b.client.R().
		SetContext(ctx).
		SetPathParam("name", name).
		SetResult(&out).
		Get("/groups/{name}")
	b.reportAvailability(resp, err)
	if err != nil {
		return nil, fmt.Errorf("get group request: %w", err)
	}
	if err := mapHTTPError(resp, "remote.GetGroup"); err != nil {
		return nil, err
	}

	return &out, nil
}

func (b *Backend) GetAllGroups(ctx context.Context) ([]*types.Group, error) {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.GetAllGroups")
	defer span.End()

	return b.listGroups(ctx, "/groups", nil, "remote.GetAllGroups")
}

func (b *Backend) GetGroups(ctx context.Context, user *types.User) ([]*types.Group, error) {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.GetGroups")
	defer span.End()

	return b.listGroups(ctx, "/users/{username}/groups", map[string]string{"username": user.Username}, "remote.GetGroups")
}

func (b *Backend) CreateGroup(ctx context.Context, name string, groupType types.GroupType) (*types.Group, error) {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.CreateGroup")
	defer span.End()

	var out types.Group
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(createGroupRequest{Name: name, Type: groupType}).
		SetResult(&out).
		Post("/groups")
	b.reportAvailability(resp, err)
	if err != nil {
		return nil, fmt.Errorf("create group request: %w", err)
	}
	if err := mapHTTPError(resp, "remote.CreateGroup"); err != nil {
		return nil, err
	}

	return &out, nil
}

func (b *Backend) membership(ctx context.Context, method string, user *types.User, group *types.Group, op string) error {
	resp, err := b.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"name": group.Name, "username": user.Username}).
		Execute(method, "/groups/{name}/members/{username}")
	b.reportAvailability(resp, err)
	if err != nil {
		return fmt.Errorf("group membership request: %w", err)
	}

	return mapHTTPError(resp, op)
}

func (b *Backend) AddUserToGroup(ctx context.Context, user *types.User, group *types.Group) error {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.AddUserToGroup")
	defer span.End()

	return b.membership(ctx, http.MethodPut, user, group, "remote.AddUserToGroup")
}

func (b *Backend) RemoveUserFromGroup(ctx context.Context, user *types.User, group *types.Group) error {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.RemoveUserFromGroup")
	defer span.End()

	return b.membership(ctx, http.MethodDelete, user, group, "remote.RemoveUserFromGroup")
}
