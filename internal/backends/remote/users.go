// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package remote

import (
	"context"
	"fmt"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/backends"
	"github.com/canonical/lms-bridge/internal/types"
)

func (b *Backend) CreateUser(ctx context.Context, uc *types.UserCreate) (*types.User, []string, error) {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.CreateUser")
	defer span.End()

	var out createUserResponse
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(createUserRequest{
			Username:     uc.Username,
			Email:        uc.Email,
			Password:     uc.Password,
			Name:         uc.FullName,
			ActivateUser: uc.ActivateUser,
			SkipPassword: uc.SkipPassword,
			Site:         uc.Site,
			Extra:        uc.Extra,
		}).
		SetResult(&out).
		Post("/users")
	b.reportAvailability(resp, err)
	if err != nil {
		return nil, nil, fmt.Errorf("create user request: %w", err)
	}
	if err := mapHTTPError(resp, "remote.CreateUser"); err != nil {
		return nil, nil, err
	}

	return out.User.user(), out.Messages, nil
}

func (b *Backend) GetUser(ctx context.Context, q types.UserQuery) (*types.User, error) {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.GetUser")
	defer span.End()

	if !q.IsSingle() {
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("No user found by %s", backends.DescribeQuery(q)), "remote.GetUser")
	}

	params := map[string]string{}
	if q.Username != "" {
		params["username"] = q.Username
	} else {
		params["email"] = q.Email
	}
	if q.Site != "" {
		params["site"] = q.Site
	}

	var out userPayload
	resp, err := b.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get("/users/lookup")
	b.reportAvailability(resp, err)
	if err != nil {
		return nil, fmt.Errorf("get user request: %w", err)
	}
	if err := mapHTTPError(resp, "remote.GetUser"); err != nil {
		return nil, err
	}

	return out.user(), nil
}

func (b *Backend) ListUsers(ctx context.Context) ([]*types.User, error) {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.ListUsers")
	defer span.End()

	var out []userPayload
	resp, err := b.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/users")
	b.reportAvailability(resp, err)
	if err != nil {
		return nil, fmt.Errorf("list users request: %w", err)
	}
	if err := mapHTTPError(resp, "remote.ListUsers"); err != nil {
		return nil, err
	}

	users := make([]*types.User, 0, len(out))
	for i := range out {
		users = append(users, out[i].user())
	}
	return users, nil
}

func (b *Backend) UpdateUser(ctx context.Context, user *types.User, uu *types.UserUpdate) (*types.User, error) {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.UpdateUser")
	defer span.End()

	var out userPayload
	resp, err := b.client.R().
		SetContext(ctx).
		SetPathParam("username", user.Username).
		SetBody(updateUserRequest{IsActive: uu.IsActive, Password: uu.Password, Fields: uu.Fields}).
		SetResult(&out).
		Patch("/users/{username}")
	b.reportAvailability(resp, err)
	if err != nil {
		return nil, fmt.Errorf("update user request: %w", err)
	}
	if err := mapHTTPError(resp, "remote.UpdateUser"); err != nil {
		return nil, err
	}

	return out.user(), nil
}
