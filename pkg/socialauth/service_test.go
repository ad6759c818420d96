// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package socialauth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/backends/memory"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/sites"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/internal/types"
	"github.com/canonical/lms-bridge/internal/validation"
	"github.com/canonical/lms-bridge/pkg/groups"
	"github.com/canonical/lms-bridge/pkg/userquery"
)

func newService(t *testing.T) *Service {
	t.Helper()

	logger := logging.NewNoopLogger()
	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("test", logger)

	provider, err := sites.NewProvider("", logger)
	require.NoError(t, err)

	store := memory.NewStore()
	for _, u := range []string{"alice", "bob"} {
		_, _, err := store.CreateUser(context.Background(), &types.UserCreate{Username: u, Email: u + "@example.com", Password: "x", ActivateUser: true})
		require.NoError(t, err)
	}

	helper := userquery.NewHelper(store, groups.NewService(store, tracer, monitor, logger), provider, tracer, monitor, logger)

	return NewService(store, helper, validation.NewValidator(), tracer, monitor, logger)
}

func TestLinkSocialAuth(t *testing.T) {
	tests := []struct {
		name         string
		req          *LinkRequest
		expectedCode string
	}{
		{name: "by username", req: &LinkRequest{Username: "alice", Provider: "github", UID: "1"}},
		{name: "by email", req: &LinkRequest{Email: "bob@example.com", Provider: "github", UID: "2"}},
		{name: "no identity", req: &LinkRequest{Provider: "github", UID: "3"}, expectedCode: apierrors.ErrCodeValidation},
		{name: "no uid", req: &LinkRequest{Username: "alice", Provider: "github"}, expectedCode: apierrors.ErrCodeValidation},
		{name: "unknown user", req: &LinkRequest{Username: "zed", Provider: "github", UID: "4"}, expectedCode: apierrors.ErrCodeNotFound},
		{name: "duplicate identity", req: &LinkRequest{Username: "bob", Provider: "github", UID: "seed"}, expectedCode: apierrors.ErrCodeConflict},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := newService(t)
			ctx := context.Background()

			_, err := s.LinkSocialAuth(ctx, "", &LinkRequest{Username: "alice", Provider: "github", UID: "seed"})
			require.NoError(t, err)

			link, err := s.LinkSocialAuth(ctx, "", test.req)
			if test.expectedCode != "" {
				apiErr, ok := apierrors.As(err)
				require.True(t, ok, "expected an API error, got %v", err)
				assert.Equal(t, test.expectedCode, apiErr.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.req.UID, link.UID)
			assert.NotZero(t, link.ID)
		})
	}
}

func TestListSocialAuths(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	for _, req := range []*LinkRequest{
		{Username: "alice", Provider: "github", UID: "a1"},
		{Username: "alice", Provider: "google", UID: "a2"},
		{Username: "bob", Provider: "github", UID: "b1"},
	} {
		_, err := s.LinkSocialAuth(ctx, "", req)
		require.NoError(t, err)
	}

	tests := []struct {
		name     string
		q        types.UserQuery
		provider string
		uid      string
		expected []string
	}{
		{name: "all", expected: []string{"a1", "a2", "b1"}},
		{name: "provider", provider: "github", expected: []string{"a1", "b1"}},
		{name: "uid", uid: "a2", expected: []string{"a2"}},
		{name: "user by email", q: types.UserQuery{Email: "alice@example.com"}, expected: []string{"a1", "a2"}},
		{name: "user and provider", q: types.UserQuery{Username: "bob"}, provider: "google", expected: []string{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			links, err := s.ListSocialAuths(ctx, test.q, test.provider, test.uid)
			require.NoError(t, err)

			uids := make([]string, 0, len(links))
			for _, l := range links {
				uids = append(uids, l.UID)
			}
			assert.Equal(t, test.expected, uids)
		})
	}
}
