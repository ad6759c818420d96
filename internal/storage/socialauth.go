// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/lms-bridge/internal/types"
)

func (s *Storage) CreateSocialAuth(ctx context.Context, userID int64, sa *types.UserSocialAuth) (*types.UserSocialAuth, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateSocialAuth")
	defer span.End()

	extra := "{}"
	if len(sa.ExtraData) > 0 {
		b, err := json.Marshal(sa.ExtraData)
		if err != nil {
			return nil, fmt.Errorf("failed to encode extra data: %v", err)
		}
		extra = string(b)
	}

	now := time.Now().UTC()
	sa.Created = now
	sa.Modified = now

	err := s.db.Statement(ctx).
		Insert("social_auth_usersocialauth").
		Columns("user_id", "provider", "uid", "extra_data", "created", "modified").
		Values(userID, sa.Provider, sa.UID, extra, sa.Created, sa.Modified).
		Suffix("RETURNING id").
		QueryRowContext(ctx).
		Scan(&sa.ID)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, WrapDuplicateKeyError(err, "social auth already linked")
		}
		if IsForeignKeyViolation(err) {
			return nil, WrapForeignKeyError(err, "unknown user")
		}
		return nil, fmt.Errorf("failed to insert social auth: %v", err)
	}

	return sa, nil
}

func (s *Storage) ListSocialAuths(ctx context.Context, filter types.SocialAuthFilter) ([]*types.UserSocialAuth, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListSocialAuths")
	defer span.End()

	where := sq.Eq{}
	if filter.Username != "" {
		where["u.username"] = filter.Username
	}
	if filter.Provider != "" {
		where["s.provider"] = filter.Provider
	}
	if filter.UID != "" {
		where["s.uid"] = filter.UID
	}

	rows, err := s.db.Statement(ctx).
		Select("s.id", "u.username", "s.provider", "s.uid", "s.extra_data", "s.created", "s.modified").
		From("social_auth_usersocialauth s").
		Join("auth_user u ON u.id = s.user_id").
		Where(where).
		OrderBy("s.id").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list social auths: %v", err)
	}
	defer rows.Close()

	auths := make([]*types.UserSocialAuth, 0)
	for rows.Next() {
		var (
			sa    types.UserSocialAuth
			extra string
		)
		if err := rows.Scan(&sa.ID, &sa.Username, &sa.Provider, &sa.UID, &extra, &sa.Created, &sa.Modified); err != nil {
			return nil, fmt.Errorf("failed to scan social auth: %v", err)
		}
		if extra != "" {
			if err := json.Unmarshal([]byte(extra), &sa.ExtraData); err != nil {
				return nil, fmt.Errorf("invalid extra data: %v", err)
			}
		}
		auths = append(auths, &sa)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list social auths: %v", err)
	}

	return auths, nil
}
