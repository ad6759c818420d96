// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"errors"
	"time"
)

type GroupType string

const (
	GroupTypeExternal GroupType = "external"
	GroupTypeLocal    GroupType = "local"
)

var ErrInvalidGroupType = errors.New("invalid group type")

// Group is a named set of platform users.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      GroupType `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupEdit lists the group names to add to and remove from a user.
type GroupEdit struct {
	Add    []string `json:"add"`
	Remove []string `json:"remove"`
}

// Empty reports whether the edit is a no-op.
func (g GroupEdit) Empty() bool {
	return len(g.Add) == 0 && len(g.Remove) == 0
}

// ParseGroupType converts a string to a GroupType.
func ParseGroupType(s string) (GroupType, error) {
	switch s {
	case "local", "":
		return GroupTypeLocal, nil
	case "external":
		return GroupTypeExternal, nil
	default:
		return "", ErrInvalidGroupType
	}
}
