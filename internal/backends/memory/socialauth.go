// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package memory

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/types"
)

func cloneSocialAuth(s *types.UserSocialAuth) *types.UserSocialAuth {
	c := *s
	c.ExtraData = maps.Clone(s.ExtraData)
	return &c
}

func (m *Store) GetUserSocialAuths(ctx context.Context, f types.SocialAuthFilter) ([]*types.UserSocialAuth, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*types.UserSocialAuth, 0)
	for _, s := range m.socialAuths {
		if f.Username != "" && s.Username != f.Username {
			continue
		}
		if f.Provider != "" && s.Provider != f.Provider {
			continue
		}
		if f.UID != "" && s.UID != f.UID {
			continue
		}
		out = append(out, cloneSocialAuth(s))
	}

	return out, nil
}

func (m *Store) AddUserSocialAuth(ctx context.Context, sa *types.UserSocialAuth) (*types.UserSocialAuth, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findUser(types.UserQuery{Username: sa.Username}) == nil {
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("No user found by username %s", sa.Username), "memory.AddUserSocialAuth")
	}

	for _, s := range m.socialAuths {
		if s.Provider == sa.Provider && s.UID == sa.UID {
			return nil, apierrors.NewConflictError(
				fmt.Sprintf("The %s identity %s is already linked", sa.Provider, sa.UID),
				"memory.AddUserSocialAuth",
			)
		}
	}

	m.nextSocialID++
	now := time.Now().UTC()

	s := cloneSocialAuth(sa)
	s.ID = m.nextSocialID
	s.Created = now
	s.Modified = now
	if s.ExtraData == nil {
		s.ExtraData = map[string]interface{}{}
	}
	m.socialAuths = append(m.socialAuths, s)

	return cloneSocialAuth(s), nil
}
