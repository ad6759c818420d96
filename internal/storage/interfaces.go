// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"

	"github.com/canonical/lms-bridge/internal/types"
)

type StorageInterface interface {
	WithTx(ctx context.Context, fn func(context.Context) error) error

	// Users
	CreateUser(ctx context.Context, user *types.User) (*types.User, error)
	GetUserByID(ctx context.Context, id int64) (*types.User, error)
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	ListUsers(ctx context.Context, page int64, size uint64) ([]*types.User, error)
	UpdateUser(ctx context.Context, user *types.User) error

	// Courses and bundles
	CreateCourse(ctx context.Context, course *types.Course) error
	GetCourse(ctx context.Context, id string) (*types.Course, error)
	CreateBundle(ctx context.Context, bundle *types.Bundle) error
	GetBundle(ctx context.Context, id string) (*types.Bundle, error)

	// Enrollments
	UpsertEnrollment(ctx context.Context, userID int64, enrollment *types.Enrollment) error
	GetEnrollment(ctx context.Context, userID int64, courseID string) (*types.Enrollment, error)
	ListEnrollmentsForCourse(ctx context.Context, courseID string) ([]*types.Enrollment, error)
	GetEnrollmentAttributes(ctx context.Context, username, courseID string) ([]types.EnrollmentAttribute, error)
	SetEnrollmentAttributes(ctx context.Context, userID int64, courseID string, attrs []types.EnrollmentAttribute) error
	DeleteEnrollment(ctx context.Context, userID int64, courseID string) error

	// Groups
	CreateGroup(ctx context.Context, group *types.Group) (*types.Group, error)
	GetGroupByName(ctx context.Context, name string) (*types.Group, error)
	ListGroups(ctx context.Context) ([]*types.Group, error)
	ListGroupsForUser(ctx context.Context, userID int64) ([]*types.Group, error)
	AddUserToGroup(ctx context.Context, groupID string, userID int64) error
	RemoveUserFromGroup(ctx context.Context, groupID string, userID int64) error

	// User social auth
	CreateSocialAuth(ctx context.Context, userID int64, sa *types.UserSocialAuth) (*types.UserSocialAuth, error)
	ListSocialAuths(ctx context.Context, filter types.SocialAuthFilter) ([]*types.UserSocialAuth, error)
}
