// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package lilac

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/backends"
	"github.com/canonical/lms-bridge/internal/storage"
	"github.com/canonical/lms-bridge/internal/types"
)

func (b *Backend) CreateUser(ctx context.Context, uc *types.UserCreate) (*types.User, []string, error) {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.CreateUser")
	defer span.End()

	conflicts := apierrors.FieldErrors{}
	if _, err := b.store.GetUserByUsername(ctx, uc.Username); err == nil {
		conflicts["username"] = []string{fmt.Sprintf("An account with the username %s already exists", uc.Username)}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, err
	}
	if _, err := b.store.GetUserByEmail(ctx, uc.Email); err == nil {
		conflicts["email"] = []string{fmt.Sprintf("An account with the email %s already exists", uc.Email)}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, err
	}
	if len(conflicts) > 0 {
		return nil, nil, apierrors.NewConflictError(conflicts, "lilac.CreateUser")
	}

	hash := backends.UnusablePassword
	if !uc.SkipPassword {
		var err error
		if hash, err = backends.HashPassword(uc.Password); err != nil {
			return nil, nil, err
		}
	}

	u := &types.User{
		Username:     uc.Username,
		Email:        uc.Email,
		PasswordHash: hash,
		IsActive:     uc.ActivateUser,
		DateJoined:   time.Now().UTC(),
		Site:         uc.Site,
		Profile:      types.Profile{Name: uc.FullName},
	}

	for k, v := range uc.Extra {
		if err := u.Profile.Set(k, v); err != nil {
			return nil, nil, apierrors.NewFieldError(k, err.Error(), "lilac.CreateUser")
		}
	}

	u, err := b.store.CreateUser(ctx, u)
	if err != nil {
		return nil, nil, translate(err, "", "lilac.CreateUser")
	}

	var msgs []string
	if !u.IsActive {
		msgs = append(msgs, "The account was created inactive and requires activation")
	}

	b.logger.Debugf("created user %s", u.Username)

	return u, msgs, nil
}

func (b *Backend) GetUser(ctx context.Context, q types.UserQuery) (*types.User, error) {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.GetUser")
	defer span.End()

	var (
		u   *types.User
		err error
	)

	switch {
	case q.Username != "":
		u, err = b.store.GetUserByUsername(ctx, q.Username)
	case q.Email != "":
		u, err = b.store.GetUserByEmail(ctx, q.Email)
	default:
		err = storage.ErrNotFound
	}

	if err != nil {
		return nil, translate(err, fmt.Sprintf("No user found by %s", backends.DescribeQuery(q)), "lilac.GetUser")
	}

	if !backends.SiteMatches(u, q.Site) {
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("User %s does not belong to site %s", u.Username, q.Site), "lilac.GetUser")
	}

	return u, nil
}

func (b *Backend) ListUsers(ctx context.Context) ([]*types.User, error) {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.ListUsers")
	defer span.End()

	users := make([]*types.User, 0)
	for page := int64(1); ; page++ {
		batch, err := b.store.ListUsers(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}

		users = append(users, batch...)

		if uint64(len(batch)) < pageSize {
			break
		}
	}

	return users, nil
}

func (b *Backend) UpdateUser(ctx context.Context, user *types.User, uu *types.UserUpdate) (*types.User, error) {
	ctx, span := b.tracer.Start(ctx, "lilac.Backend.UpdateUser")
	defer span.End()

	notFound := fmt.Sprintf("No user found by username %s", user.Username)

	current, err := b.store.GetUserByID(ctx, user.ID)
	if err != nil {
		return nil, translate(err, notFound, "lilac.UpdateUser")
	}

	updated := *current
	updated.Profile.Meta = maps.Clone(current.Profile.Meta)

	if uu.IsActive != nil {
		updated.IsActive = *uu.IsActive
	}

	if uu.Password != nil {
		hash, err := backends.HashPassword(*uu.Password)
		if err != nil {
			return nil, err
		}
		updated.PasswordHash = hash
	}

	for k, v := range uu.Fields {
		if err := updated.Profile.Set(k, v); err != nil {
			return nil, apierrors.NewFieldError(k, err.Error(), "lilac.UpdateUser")
		}
	}

	if err := b.store.UpdateUser(ctx, &updated); err != nil {
		return nil, translate(err, notFound, "lilac.UpdateUser")
	}

	return &updated, nil
}
