// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package remote

import (
	"context"
	"fmt"

	"github.com/canonical/lms-bridge/internal/types"
)

func (b *Backend) GetUserSocialAuths(ctx context.Context, f types.SocialAuthFilter) ([]*types.UserSocialAuth, error) {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.GetUserSocialAuths")
	defer span.End()

	params := map[string]string{}
	if f.Username != "" {
		params["username"] = f.Username
	}
	if f.Provider != "" {
		params["provider"] = f.Provider
	}
	if f.UID != "" {
		params["uid"] = f.UID
	}

	var out []*types.UserSocialAuth
	resp, err := b.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get("/social-auth")
	b.reportAvailability(resp, err)
	if err != nil {
		return nil, fmt.Errorf("list social auth request: %w", err)
	}
	if err := mapHTTPError(resp, "remote.GetUserSocialAuths"); err != nil {
		return nil, err
	}

	if out == nil {
		out = make([]*types.UserSocialAuth, 0)
	}
	return out, nil
}

func (b *Backend) AddUserSocialAuth(ctx context.Context, sa *types.UserSocialAuth) (*types.UserSocialAuth, error) {
	ctx, span := b.tracer.Start(ctx, "remote.Backend.AddUserSocialAuth")
	defer span.End()

	var out types.UserSocialAuth
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(sa).
		SetResult(&out).
		Post("/social-auth")
	b.reportAvailability(resp, err)
	if err != nil {
		return nil, fmt.Errorf("add social auth request: %w", err)
	}
	if err := mapHTTPError(resp, "remote.AddUserSocialAuth"); err != nil {
		return nil, err
	}

	return &out, nil
}
