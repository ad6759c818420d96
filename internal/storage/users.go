// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/lms-bridge/internal/db"
	"github.com/canonical/lms-bridge/internal/types"
)

var userColumns = []string{
	"u.id",
	"u.username",
	"u.email",
	"u.password",
	"u.is_active",
	"u.is_staff",
	"u.date_joined",
	"u.site",
	"p.name",
	"p.gender",
	"p.country",
	"p.level_of_education",
	"p.year_of_birth",
	"p.bio",
	"p.goals",
	"p.mailing_address",
	"p.city",
	"p.phone_number",
	"p.meta",
}

func (s *Storage) selectUsers(ctx context.Context) sq.SelectBuilder {
	return s.db.Statement(ctx).
		Select(userColumns...).
		From("auth_user u").
		Join("auth_userprofile p ON p.user_id = u.id")
}

func (s *Storage) CreateUser(ctx context.Context, user *types.User) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateUser")
	defer span.End()

	meta, err := encodeMeta(user.Profile.Meta)
	if err != nil {
		return nil, err
	}

	err = s.db.WithTx(ctx, func(ctx context.Context) error {
		err := s.db.Statement(ctx).
			Insert("auth_user").
			Columns("username", "email", "password", "is_active", "is_staff", "date_joined", "site").
			Values(user.Username, user.Email, user.PasswordHash, user.IsActive, user.IsStaff, user.DateJoined, user.Site).
			Suffix("RETURNING id").
			QueryRowContext(ctx).
			Scan(&user.ID)
		if err != nil {
			if IsDuplicateKeyError(err) {
				return WrapDuplicateKeyError(err, "user already exists")
			}
			return fmt.Errorf("failed to insert user: %v", err)
		}

		p := user.Profile
		_, err = s.db.Statement(ctx).
			Insert("auth_userprofile").
			Columns("user_id", "name", "gender", "country", "level_of_education", "year_of_birth", "bio", "goals", "mailing_address", "city", "phone_number", "meta").
			Values(user.ID, p.Name, p.Gender, p.Country, p.LevelOfEducation, nullableInt(p.YearOfBirth), p.Bio, p.Goals, p.MailingAddress, p.City, p.PhoneNumber, meta).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert user profile: %v", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Storage) GetUserByID(ctx context.Context, id int64) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetUserByID")
	defer span.End()

	return s.getUser(ctx, sq.Eq{"u.id": id})
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetUserByUsername")
	defer span.End()

	return s.getUser(ctx, sq.Eq{"u.username": username})
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetUserByEmail")
	defer span.End()

	return s.getUser(ctx, sq.Eq{"u.email": email})
}

func (s *Storage) getUser(ctx context.Context, where sq.Eq) (*types.User, error) {
	row := s.selectUsers(ctx).Where(where).QueryRowContext(ctx)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return user, nil
}

func (s *Storage) ListUsers(ctx context.Context, page int64, size uint64) ([]*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListUsers")
	defer span.End()

	size = db.PageSize(int64(size))

	rows, err := s.selectUsers(ctx).
		OrderBy("u.id").
		Limit(size).
		Offset(db.Offset(page, size)).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %v", err)
	}
	defer rows.Close()

	users := make([]*types.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %v", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %v", err)
	}

	return users, nil
}

func (s *Storage) UpdateUser(ctx context.Context, user *types.User) error {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.UpdateUser")
	defer span.End()

	meta, err := encodeMeta(user.Profile.Meta)
	if err != nil {
		return err
	}

	return s.db.WithTx(ctx, func(ctx context.Context) error {
		res, err := s.db.Statement(ctx).
			Update("auth_user").
			Set("email", user.Email).
			Set("password", user.PasswordHash).
			Set("is_active", user.IsActive).
			Set("is_staff", user.IsStaff).
			Where(sq.Eq{"id": user.ID}).
			ExecContext(ctx)
		if err != nil {
			if IsDuplicateKeyError(err) {
				return WrapDuplicateKeyError(err, "email already in use")
			}
			return fmt.Errorf("failed to update user: %v", err)
		}

		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrNotFound
		}

		p := user.Profile
		_, err = s.db.Statement(ctx).
			Update("auth_userprofile").
			Set("name", p.Name).
			Set("gender", p.Gender).
			Set("country", p.Country).
			Set("level_of_education", p.LevelOfEducation).
			Set("year_of_birth", nullableInt(p.YearOfBirth)).
			Set("bio", p.Bio).
			Set("goals", p.Goals).
			Set("mailing_address", p.MailingAddress).
			Set("city", p.City).
			Set("phone_number", p.PhoneNumber).
			Set("meta", meta).
			Where(sq.Eq{"user_id": user.ID}).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to update user profile: %v", err)
		}
		return nil
	})
}

func scanUser(row interface{ Scan(...interface{}) error }) (*types.User, error) {
	var (
		u    types.User
		yob  sql.NullInt64
		meta string
	)

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsStaff,
		&u.DateJoined,
		&u.Site,
		&u.Profile.Name,
		&u.Profile.Gender,
		&u.Profile.Country,
		&u.Profile.LevelOfEducation,
		&yob,
		&u.Profile.Bio,
		&u.Profile.Goals,
		&u.Profile.MailingAddress,
		&u.Profile.City,
		&u.Profile.PhoneNumber,
		&meta,
	)
	if err != nil {
		return nil, err
	}

	if yob.Valid {
		y := int(yob.Int64)
		u.Profile.YearOfBirth = &y
	}

	if meta != "" {
		if err := json.Unmarshal([]byte(meta), &u.Profile.Meta); err != nil {
			return nil, fmt.Errorf("invalid profile meta: %v", err)
		}
	}

	return &u, nil
}

func encodeMeta(meta map[string]string) (string, error) {
	if len(meta) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to encode profile meta: %v", err)
	}
	return string(b), nil
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return int64(*v)
}
