// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package groups

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/backends/memory"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package groups -destination ./mock_groups.go -source=./interfaces.go

func setupService(t *testing.T) (*Service, *types.User) {
	t.Helper()

	ctx := context.Background()
	store := memory.NewStore()
	for _, name := range []string{"staff", "beta", "alumni"} {
		_, err := store.CreateGroup(ctx, name, types.GroupTypeLocal)
		require.NoError(t, err)
	}

	user, _, err := store.CreateUser(ctx, &types.UserCreate{
		Username: "alice", Email: "alice@example.com", Password: "secret", FullName: "Alice", ActivateUser: true,
	})
	require.NoError(t, err)

	logger := logging.NewNoopLogger()
	return NewService(store, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger), user
}

func TestServiceApply(t *testing.T) {
	tests := []struct {
		name          string
		initial       []string
		edit          types.GroupEdit
		expected      []string
		expectedError error
	}{
		{
			name:     "add groups",
			edit:     types.GroupEdit{Add: []string{"staff", "beta"}},
			expected: []string{"beta", "staff"},
		},
		{
			name:     "add and remove",
			initial:  []string{"staff", "alumni"},
			edit:     types.GroupEdit{Add: []string{"beta"}, Remove: []string{"staff"}},
			expected: []string{"alumni", "beta"},
		},
		{
			name:     "empty edit",
			initial:  []string{"staff"},
			expected: []string{"staff"},
		},
		{
			name:          "unknown group to add",
			edit:          types.GroupEdit{Add: []string{"staff", "missing"}},
			expected:      []string{"staff"},
			expectedError: apierrors.ErrNotFound,
		},
		{
			name:          "unknown group to remove",
			initial:       []string{"beta"},
			edit:          types.GroupEdit{Remove: []string{"missing"}},
			expected:      []string{"beta"},
			expectedError: apierrors.ErrNotFound,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, user := setupService(t)
			ctx := context.Background()

			require.NoError(t, s.Apply(ctx, user, types.GroupEdit{Add: test.initial}))

			err := s.Apply(ctx, user, test.edit)
			if test.expectedError != nil {
				assert.True(t, errors.Is(err, test.expectedError), "unexpected error %v", err)
			} else {
				assert.NoError(t, err)
			}

			names, err := s.Names(ctx, user)
			require.NoError(t, err)
			assert.Equal(t, test.expected, names)
		})
	}
}

func TestServiceCheck(t *testing.T) {
	s, user := setupService(t)
	ctx := context.Background()

	assert.NoError(t, s.Check(ctx, nil))
	assert.NoError(t, s.Check(ctx, []string{"staff", "beta"}))

	err := s.Check(ctx, []string{"staff", "ghosts"})
	assert.True(t, errors.Is(err, apierrors.ErrNotFound), "unexpected error %v", err)

	names, err := s.Names(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestServiceListGroups(t *testing.T) {
	s, _ := setupService(t)

	names, err := s.ListGroups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alumni", "beta", "staff"}, names)
}
