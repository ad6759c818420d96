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

func (b *Backend) GetUserSocialAuths(ctx context.Context, f types.SocialAuthFilter) ([]*types.UserSocialAuth, error) {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.GetUserSocialAuths")
	defer span.End()

	return b.store.ListSocialAuths(ctx, f)
}

func (b *Backend) AddUserSocialAuth(ctx context.Context, sa *types.UserSocialAuth) (*types.UserSocialAuth, error) {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.AddUserSocialAuth")
	defer span.End()

	u, err := b.store.GetUserByUsername(ctx, sa.Username)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("No user found by username %s", sa.Username), "lilac.AddUserSocialAuth")
	}

	created, err := b.store.CreateSocialAuth(ctx, u.ID, sa)
	if errors.Is(err, storage.ErrDuplicateKey) {
		return nil, apierrors.NewConflictError(fmt.Sprintf("The %s identity %s is already linked", sa.Provider, sa.UID), "lilac.AddUserSocialAuth")
	}
	if err != nil {
		return nil, translate(err, "", "lilac.AddUserSocialAuth")
	}

	created.Username = u.Username
	if created.ExtraData == nil {
		created.ExtraData = map[string]interface{}{}
	}

	return created, nil
}
