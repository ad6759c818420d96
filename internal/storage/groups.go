// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/lms-bridge/internal/types"
)

func (s *Storage) CreateGroup(ctx context.Context, group *types.Group) (*types.Group, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateGroup")
	defer span.End()

	if group.Type == "" {
		group.Type = types.GroupTypeLocal
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}

	var id int64
	err := s.db.Statement(ctx).
		Insert("auth_group").
		Columns("name", "type", "created_at").
		Values(group.Name, string(group.Type), group.CreatedAt).
		Suffix("RETURNING id").
		QueryRowContext(ctx).
		Scan(&id)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, WrapDuplicateKeyError(err, "group already exists")
		}
		return nil, fmt.Errorf("failed to insert group: %v", err)
	}

	group.ID = strconv.FormatInt(id, 10)
	return group, nil
}

func (s *Storage) GetGroupByName(ctx context.Context, name string) (*types.Group, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetGroupByName")
	defer span.End()

	row := s.db.Statement(ctx).
		Select("id", "name", "type", "created_at").
		From("auth_group").
		Where(sq.Eq{"name": name}).
		QueryRowContext(ctx)

	group, err := scanGroup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get group: %v", err)
	}
	return group, nil
}

func (s *Storage) ListGroups(ctx context.Context) ([]*types.Group, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListGroups")
	defer span.End()

	return s.queryGroups(ctx, s.db.Statement(ctx).
		Select("id", "name", "type", "created_at").
		From("auth_group").
		OrderBy("name"))
}

func (s *Storage) ListGroupsForUser(ctx context.Context, userID int64) ([]*types.Group, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListGroupsForUser")
	defer span.End()

	return s.queryGroups(ctx, s.db.Statement(ctx).
		Select("g.id", "g.name", "g.type", "g.created_at").
		From("auth_group g").
		Join("auth_user_groups ug ON ug.group_id = g.id").
		Where(sq.Eq{"ug.user_id": userID}).
		OrderBy("g.name"))
}

func (s *Storage) queryGroups(ctx context.Context, q sq.SelectBuilder) ([]*types.Group, error) {
	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %v", err)
	}
	defer rows.Close()

	groups := make([]*types.Group, 0)
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %v", err)
		}
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list groups: %v", err)
	}

	return groups, nil
}

// AddUserToGroup is idempotent.
func (s *Storage) AddUserToGroup(ctx context.Context, groupID string, userID int64) error {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.AddUserToGroup")
	defer span.End()

	gid, err := parseGroupID(groupID)
	if err != nil {
		return err
	}

	_, err = s.db.Statement(ctx).
		Insert("auth_user_groups").
		Columns("group_id", "user_id").
		Values(gid, userID).
		Suffix("ON CONFLICT (group_id, user_id) DO NOTHING").
		ExecContext(ctx)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return WrapForeignKeyError(err, "unknown user or group")
		}
		return fmt.Errorf("failed to add user to group: %v", err)
	}

	return nil
}

func (s *Storage) RemoveUserFromGroup(ctx context.Context, groupID string, userID int64) error {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.RemoveUserFromGroup")
	defer span.End()

	gid, err := parseGroupID(groupID)
	if err != nil {
		return err
	}

	_, err = s.db.Statement(ctx).
		Delete("auth_user_groups").
		Where(sq.Eq{"group_id": gid, "user_id": userID}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove user from group: %v", err)
	}

	return nil
}

func parseGroupID(id string) (int64, error) {
	gid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, ErrNotFound
	}
	return gid, nil
}

func scanGroup(row interface{ Scan(...interface{}) error }) (*types.Group, error) {
	var (
		id    int64
		gtype string
		g     types.Group
	)

	if err := row.Scan(&id, &g.Name, &gtype, &g.CreatedAt); err != nil {
		return nil, err
	}

	g.ID = strconv.FormatInt(id, 10)
	g.Type = types.GroupType(gtype)

	return &g, nil
}
