// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package backends

import (
	"context"

	"github.com/canonical/lms-bridge/internal/types"
)

// UserBackend manages platform accounts.
type UserBackend interface {
	// CreateUser registers a user, the messages are informational notes
	// returned to the caller.
	CreateUser(context.Context, *types.UserCreate) (*types.User, []string, error)
	// GetUser returns an apierrors not found error when nothing matches.
	GetUser(context.Context, types.UserQuery) (*types.User, error)
	ListUsers(context.Context) ([]*types.User, error)
	UpdateUser(context.Context, *types.User, *types.UserUpdate) (*types.User, error)
}

// EnrollmentBackend manages course enrollments.
type EnrollmentBackend interface {
	// CreateEnrollment returns several enrollments when the request names a
	// bundle.
	CreateEnrollment(context.Context, *types.User, *types.EnrollmentRequest) ([]types.CreatedEnrollment, error)
	UpdateEnrollment(ctx context.Context, user *types.User, courseID, mode string, req *types.EnrollmentRequest) (*types.Enrollment, error)
	GetEnrollment(ctx context.Context, username, courseID string) (*types.Enrollment, error)
	ListCourseEnrollments(ctx context.Context, courseID string) ([]*types.Enrollment, error)
	GetEnrollmentAttributes(ctx context.Context, username, courseID string) ([]types.EnrollmentAttribute, error)
	DeleteEnrollment(ctx context.Context, user *types.User, courseID string) error
}

// GroupBackend manages groups and their members.
type GroupBackend interface {
	// GetGroup returns an apierrors not found error for unknown names.
	GetGroup(ctx context.Context, name string) (*types.Group, error)
	GetAllGroups(context.Context) ([]*types.Group, error)
	GetGroups(context.Context, *types.User) ([]*types.Group, error)
	CreateGroup(ctx context.Context, name string, groupType types.GroupType) (*types.Group, error)
	AddUserToGroup(context.Context, *types.User, *types.Group) error
	RemoveUserFromGroup(context.Context, *types.User, *types.Group) error
}

// SocialAuthBackend manages links between users and third party identities.
type SocialAuthBackend interface {
	GetUserSocialAuths(context.Context, types.SocialAuthFilter) ([]*types.UserSocialAuth, error)
	AddUserSocialAuth(context.Context, *types.UserSocialAuth) (*types.UserSocialAuth, error)
}
