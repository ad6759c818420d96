// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"time"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/backends"
	"github.com/canonical/lms-bridge/internal/types"
)

func cloneUser(u *types.User) *types.User {
	c := *u
	if u.Profile.YearOfBirth != nil {
		y := *u.Profile.YearOfBirth
		c.Profile.YearOfBirth = &y
	}
	c.Profile.Meta = maps.Clone(u.Profile.Meta)
	return &c
}

func (m *Store) findUser(q types.UserQuery) *types.User {
	for _, u := range m.users {
		if q.Username != "" {
			if u.Username == q.Username {
				return u
			}
			continue
		}
		if q.Email != "" && u.Email == q.Email {
			return u
		}
	}
	return nil
}

func (m *Store) CreateUser(ctx context.Context, uc *types.UserCreate) (*types.User, []string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conflicts := apierrors.FieldErrors{}
	if m.findUser(types.UserQuery{Username: uc.Username}) != nil {
		conflicts["username"] = []string{fmt.Sprintf("An account with the username %s already exists", uc.Username)}
	}
	if m.findUser(types.UserQuery{Email: uc.Email}) != nil {
		conflicts["email"] = []string{fmt.Sprintf("An account with the email %s already exists", uc.Email)}
	}
	if len(conflicts) > 0 {
		return nil, nil, apierrors.NewConflictError(conflicts, "memory.CreateUser")
	}

	hash := backends.UnusablePassword
	if !uc.SkipPassword {
		var err error
		if hash, err = backends.HashPassword(uc.Password); err != nil {
			return nil, nil, err
		}
	}

	m.nextUserID++
	u := &types.User{
		ID:           m.nextUserID,
		Username:     uc.Username,
		Email:        uc.Email,
		PasswordHash: hash,
		IsActive:     uc.ActivateUser,
		DateJoined:   time.Now().UTC(),
		Site:         uc.Site,
		Profile:      types.Profile{Name: uc.FullName},
	}

	for k, v := range uc.Extra {
		if err := u.Profile.Set(k, v); err != nil {
			return nil, nil, apierrors.NewFieldError(k, err.Error(), "memory.CreateUser")
		}
	}

	m.users[u.ID] = u

	var msgs []string
	if !u.IsActive {
		msgs = append(msgs, "The account was created inactive and requires activation")
	}

	return cloneUser(u), msgs, nil
}

func (m *Store) GetUser(ctx context.Context, q types.UserQuery) (*types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u := m.findUser(q)
	if u == nil || !q.IsSingle() {
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("No user found by %s", backends.DescribeQuery(q)), "memory.GetUser")
	}

	if !backends.SiteMatches(u, q.Site) {
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("User %s does not belong to site %s", u.Username, q.Site), "memory.GetUser")
	}

	return cloneUser(u), nil
}

func (m *Store) ListUsers(ctx context.Context) ([]*types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*types.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

func (m *Store) UpdateUser(ctx context.Context, user *types.User, uu *types.UserUpdate) (*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[user.ID]
	if !ok {
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("No user found by username %s", user.Username), "memory.UpdateUser")
	}

	// validate on a copy so that a failed update leaves the record intact
	updated := cloneUser(u)

	if uu.IsActive != nil {
		updated.IsActive = *uu.IsActive
	}

	if uu.Password != nil {
		hash, err := backends.HashPassword(*uu.Password)
		if err != nil {
			return nil, err
		}
		updated.PasswordHash = hash
	}

	for k, v := range uu.Fields {
		if err := updated.Profile.Set(k, v); err != nil {
			return nil, apierrors.NewFieldError(k, err.Error(), "memory.UpdateUser")
		}
	}

	m.users[u.ID] = updated

	return cloneUser(updated), nil
}
