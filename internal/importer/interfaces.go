// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package importer

import "context"

// UserGroupMapping links a user, identified by email, to a group name.
type UserGroupMapping struct {
	Email     string
	GroupName string
}

// DriverInterface is an external directory that provides group memberships.
type DriverInterface interface {
	Prefix() string
	FetchAllUserGroups(ctx context.Context) ([]UserGroupMapping, error)
}
