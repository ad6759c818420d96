// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package lilac

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/backends"
	"github.com/canonical/lms-bridge/internal/db"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/storage"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/internal/types"
	"github.com/canonical/lms-bridge/migrations"
)

func setup(t *testing.T) (*Backend, *storage.Storage) {
	t.Helper()

	logger := logging.NewNoopLogger()
	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("test", logger)

	client, err := db.NewDBClient(db.Config{Driver: db.DriverSQLite, DSN: ":memory:"}, tracer, monitor, logger)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	require.NoError(t, migrations.Up(client.DB(), client.Dialect()))

	s := storage.NewStorage(client, tracer, monitor, logger)
	ctx := context.Background()
	require.NoError(t, s.CreateCourse(ctx, &types.Course{ID: "course-v1:X+Y+Z", Modes: []string{"audit", "verified"}}))
	require.NoError(t, s.CreateCourse(ctx, &types.Course{ID: "course-v1:X+Y+W", Modes: []string{"honor"}}))
	require.NoError(t, s.CreateBundle(ctx, &types.Bundle{ID: "bundle", CourseIDs: []string{"course-v1:X+Y+Z", "course-v1:X+Y+W"}}))

	return NewBackend(s, tracer, monitor, logger), s
}

func createUser(t *testing.T, b *Backend, username string, active bool) *types.User {
	t.Helper()

	u, _, err := b.CreateUser(context.Background(), &types.UserCreate{
		Username:     username,
		Email:        username + "@example.com",
		Password:     "secret",
		FullName:     "Test " + username,
		ActivateUser: active,
		Site:         "lms.example.com",
	})
	require.NoError(t, err)
	return u
}

func TestCreateUser(t *testing.T) {
	b, _ := setup(t)
	ctx := context.Background()

	u, msgs, err := b.CreateUser(ctx, &types.UserCreate{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret",
		FullName: "Alice",
		Site:     "lms.example.com",
		Extra:    map[string]string{"city": "Athens", "company": "Canonical"},
	})
	require.NoError(t, err)
	assert.False(t, u.IsActive)
	assert.Equal(t, []string{"The account was created inactive and requires activation"}, msgs)
	assert.True(t, backends.CheckPassword(u.PasswordHash, "secret"))
	assert.Equal(t, "Athens", u.Profile.City)
	assert.Equal(t, "Canonical", u.Profile.Meta["company"])

	_, _, err = b.CreateUser(ctx, &types.UserCreate{Username: "alice", Email: "alice@example.com", Password: "x"})
	var apiErr *apierrors.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierrors.ErrCodeConflict, apiErr.Code)
	fields, ok := apiErr.Detail.(apierrors.FieldErrors)
	require.True(t, ok)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")

	_, _, err = b.CreateUser(ctx, &types.UserCreate{Username: "bob", Email: "bob@example.com", Extra: map[string]string{"year_of_birth": "soon"}})
	assert.ErrorIs(t, err, apierrors.ErrValidation)

	u, _, err = b.CreateUser(ctx, &types.UserCreate{Username: "carol", Email: "carol@example.com", SkipPassword: true, ActivateUser: true})
	require.NoError(t, err)
	assert.Equal(t, backends.UnusablePassword, u.PasswordHash)
}

func TestGetUser(t *testing.T) {
	b, _ := setup(t)
	ctx := context.Background()
	createUser(t, b, "alice", true)

	tests := []struct {
		name    string
		query   types.UserQuery
		wantErr bool
	}{
		{name: "by username", query: types.UserQuery{Username: "alice"}},
		{name: "by email", query: types.UserQuery{Email: "alice@example.com"}},
		{name: "username wins over email", query: types.UserQuery{Username: "alice", Email: "nobody@example.com"}},
		{name: "same site", query: types.UserQuery{Username: "alice", Site: "lms.example.com"}},
		{name: "other site", query: types.UserQuery{Username: "alice", Site: "other.example.com"}, wantErr: true},
		{name: "missing", query: types.UserQuery{Username: "nobody"}, wantErr: true},
		{name: "empty", query: types.UserQuery{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := b.GetUser(ctx, tt.query)
			if tt.wantErr {
				assert.ErrorIs(t, err, apierrors.ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", u.Username)
		})
	}
}

func TestListAndUpdateUsers(t *testing.T) {
	b, _ := setup(t)
	ctx := context.Background()
	alice := createUser(t, b, "alice", false)
	createUser(t, b, "bob", true)

	users, err := b.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)

	active := true
	password := "changed"
	updated, err := b.UpdateUser(ctx, alice, &types.UserUpdate{
		IsActive: &active,
		Password: &password,
		Fields:   map[string]string{"fullname": "Alice A.", "bio": "hello"},
	})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
	assert.Equal(t, "Alice A.", updated.Profile.Name)
	assert.True(t, backends.CheckPassword(updated.PasswordHash, "changed"))

	got, err := b.GetUser(ctx, types.UserQuery{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Profile.Bio)

	_, err = b.UpdateUser(ctx, got, &types.UserUpdate{Fields: map[string]string{"year_of_birth": "abc"}})
	assert.ErrorIs(t, err, apierrors.ErrValidation)

	_, err = b.UpdateUser(ctx, &types.User{ID: 999, Username: "ghost"}, &types.UserUpdate{})
	assert.ErrorIs(t, err, apierrors.ErrNotFound)
}

func TestCreateEnrollment(t *testing.T) {
	b, _ := setup(t)
	ctx := context.Background()
	alice := createUser(t, b, "alice", true)
	inactive := createUser(t, b, "bob", false)

	created, err := b.CreateEnrollment(ctx, alice, &types.EnrollmentRequest{
		CourseID: "course-v1:X+Y+Z",
		Mode:     "verified",
		EnrollmentAttributes: []types.EnrollmentAttribute{
			{Namespace: "credit", Name: "provider_id", Value: "hogwarts"},
		},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "verified", created[0].Enrollment.Mode)
	assert.True(t, created[0].Enrollment.IsActive)
	assert.Len(t, created[0].Enrollment.EnrollmentAttributes, 1)
	assert.Empty(t, created[0].Messages)

	created, err = b.CreateEnrollment(ctx, alice, &types.EnrollmentRequest{CourseID: "course-v1:X+Y+Z"})
	require.NoError(t, err)
	assert.Equal(t, "audit", created[0].Enrollment.Mode)
	assert.Len(t, created[0].Messages, 1)

	_, err = b.CreateEnrollment(ctx, alice, &types.EnrollmentRequest{CourseID: "course-v1:X+Y+Z", Mode: "professional"})
	assert.ErrorIs(t, err, apierrors.ErrBusinessRule)

	created, err = b.CreateEnrollment(ctx, alice, &types.EnrollmentRequest{CourseID: "course-v1:X+Y+Z", Mode: "professional", Force: types.NewFlexBool(true)})
	require.NoError(t, err)
	assert.Equal(t, "professional", created[0].Enrollment.Mode)

	_, err = b.CreateEnrollment(ctx, alice, &types.EnrollmentRequest{CourseID: "course-v1:missing"})
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	_, err = b.CreateEnrollment(ctx, inactive, &types.EnrollmentRequest{CourseID: "course-v1:X+Y+Z"})
	assert.ErrorIs(t, err, apierrors.ErrBusinessRule)
}

func TestCreateBundleEnrollment(t *testing.T) {
	b, _ := setup(t)
	ctx := context.Background()
	alice := createUser(t, b, "alice", true)

	created, err := b.CreateEnrollment(ctx, alice, &types.EnrollmentRequest{BundleID: "bundle"})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "course-v1:X+Y+Z", created[0].Enrollment.CourseID)
	assert.Equal(t, "audit", created[0].Enrollment.Mode)
	assert.Equal(t, "course-v1:X+Y+W", created[1].Enrollment.CourseID)
	assert.Equal(t, "honor", created[1].Enrollment.Mode)

	bob := createUser(t, b, "bob", true)
	_, err = b.CreateEnrollment(ctx, bob, &types.EnrollmentRequest{BundleID: "bundle", Mode: "verified"})
	assert.ErrorIs(t, err, apierrors.ErrBusinessRule)

	// the bundle is all or nothing
	_, err = b.GetEnrollment(ctx, "bob", "course-v1:X+Y+Z")
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	_, err = b.CreateEnrollment(ctx, bob, &types.EnrollmentRequest{BundleID: "missing"})
	assert.ErrorIs(t, err, apierrors.ErrNotFound)
}

func TestUpdateGetDeleteEnrollment(t *testing.T) {
	b, _ := setup(t)
	ctx := context.Background()
	alice := createUser(t, b, "alice", true)

	_, err := b.UpdateEnrollment(ctx, alice, "course-v1:X+Y+Z", "verified", &types.EnrollmentRequest{})
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	_, err = b.CreateEnrollment(ctx, alice, &types.EnrollmentRequest{
		CourseID:             "course-v1:X+Y+Z",
		EnrollmentAttributes: []types.EnrollmentAttribute{{Namespace: "a", Name: "b", Value: "c"}},
	})
	require.NoError(t, err)

	e, err := b.UpdateEnrollment(ctx, alice, "course-v1:X+Y+Z", "verified", &types.EnrollmentRequest{
		IsActive:             types.NewFlexBool(false),
		EnrollmentAttributes: []types.EnrollmentAttribute{{Namespace: "a", Name: "d", Value: "e"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "verified", e.Mode)
	assert.False(t, e.IsActive)
	assert.Len(t, e.EnrollmentAttributes, 2)

	_, err = b.UpdateEnrollment(ctx, alice, "course-v1:X+Y+Z", "professional", &types.EnrollmentRequest{})
	assert.ErrorIs(t, err, apierrors.ErrBusinessRule)

	e, err = b.GetEnrollment(ctx, "alice", "course-v1:X+Y+Z")
	require.NoError(t, err)
	assert.Equal(t, "verified", e.Mode)

	list, err := b.ListCourseEnrollments(ctx, "course-v1:X+Y+Z")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = b.ListCourseEnrollments(ctx, "course-v1:missing")
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	attrs, err := b.GetEnrollmentAttributes(ctx, "alice", "course-v1:X+Y+Z")
	require.NoError(t, err)
	assert.Len(t, attrs, 2)

	require.NoError(t, b.DeleteEnrollment(ctx, alice, "course-v1:X+Y+Z"))
	assert.ErrorIs(t, b.DeleteEnrollment(ctx, alice, "course-v1:X+Y+Z"), apierrors.ErrNotFound)

	_, err = b.GetEnrollment(ctx, "nobody", "course-v1:X+Y+Z")
	assert.ErrorIs(t, err, apierrors.ErrNotFound)
}

func TestGroups(t *testing.T) {
	b, _ := setup(t)
	ctx := context.Background()
	alice := createUser(t, b, "alice", true)

	g, err := b.CreateGroup(ctx, "staff", types.GroupTypeLocal)
	require.NoError(t, err)

	_, err = b.CreateGroup(ctx, "staff", types.GroupTypeLocal)
	assert.ErrorIs(t, err, apierrors.ErrConflict)

	_, err = b.GetGroup(ctx, "missing")
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	got, err := b.GetGroup(ctx, "staff")
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ID)

	require.NoError(t, b.AddUserToGroup(ctx, alice, got))
	groups, err := b.GetGroups(ctx, alice)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	all, err := b.GetAllGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, b.RemoveUserFromGroup(ctx, alice, got))
	groups, err = b.GetGroups(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestSocialAuth(t *testing.T) {
	b, _ := setup(t)
	ctx := context.Background()
	createUser(t, b, "alice", true)

	sa, err := b.AddUserSocialAuth(ctx, &types.UserSocialAuth{Username: "alice", Provider: "oidc", UID: "alice-1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", sa.Username)
	assert.NotNil(t, sa.ExtraData)

	_, err = b.AddUserSocialAuth(ctx, &types.UserSocialAuth{Username: "alice", Provider: "oidc", UID: "alice-1"})
	assert.ErrorIs(t, err, apierrors.ErrConflict)

	_, err = b.AddUserSocialAuth(ctx, &types.UserSocialAuth{Username: "ghost", Provider: "oidc", UID: "ghost-1"})
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	found, err := b.GetUserSocialAuths(ctx, types.SocialAuthFilter{UID: "alice-1"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil, "x", "op"))
	assert.ErrorIs(t, translate(storage.ErrNotFound, "x", "op"), apierrors.ErrNotFound)
	assert.ErrorIs(t, translate(storage.ErrDuplicateKey, "x", "op"), apierrors.ErrConflict)
	assert.ErrorIs(t, translate(storage.ErrForeignKeyViolation, "x", "op"), apierrors.ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other, "x", "op"))
}
