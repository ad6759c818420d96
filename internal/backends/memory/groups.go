// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/types"
)

func sortGroups(groups []*types.Group) {
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
}

func (m *Store) GetGroup(ctx context.Context, name string) (*types.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.groups[name]
	if !ok {
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("Group %s does not exist", name), "memory.GetGroup")
	}

	c := *g
	return &c, nil
}

func (m *Store) GetAllGroups(ctx context.Context) ([]*types.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	groups := make([]*types.Group, 0, len(m.groups))
	for _, g := range m.groups {
		c := *g
		groups = append(groups, &c)
	}
	sortGroups(groups)

	return groups, nil
}

func (m *Store) GetGroups(ctx context.Context, user *types.User) ([]*types.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	groups := make([]*types.Group, 0)
	for name, members := range m.members {
		if _, ok := members[user.ID]; ok {
			c := *m.groups[name]
			groups = append(groups, &c)
		}
	}
	sortGroups(groups)

	return groups, nil
}

func (m *Store) CreateGroup(ctx context.Context, name string, groupType types.GroupType) (*types.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.groups[name]; ok {
		return nil, apierrors.NewConflictError(fmt.Sprintf("Group %s already exists", name), "memory.CreateGroup")
	}

	g := &types.Group{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      groupType,
		CreatedAt: time.Now().UTC(),
	}
	m.groups[name] = g
	m.members[name] = make(map[int64]struct{})

	c := *g
	return &c, nil
}

func (m *Store) AddUserToGroup(ctx context.Context, user *types.User, group *types.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	members, ok := m.members[group.Name]
	if !ok {
		return apierrors.NewNotFoundError(fmt.Sprintf("Group %s does not exist", group.Name), "memory.AddUserToGroup")
	}
	members[user.ID] = struct{}{}

	return nil
}

func (m *Store) RemoveUserFromGroup(ctx context.Context, user *types.User, group *types.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	members, ok := m.members[group.Name]
	if !ok {
		return apierrors.NewNotFoundError(fmt.Sprintf("Group %s does not exist", group.Name), "memory.RemoveUserFromGroup")
	}
	delete(members, user.ID)

	return nil
}
