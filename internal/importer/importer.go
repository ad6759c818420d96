// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/backends"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/internal/types"
)

// Report summarises an import run.
type Report struct {
	Groups       int
	Memberships  int
	UnknownUsers int
	Failures     int
}

// Importer syncs group memberships from an external driver into the
// configured group backend. Groups are created as external groups named
// "<prefix>:<name>", users are matched by email.
type Importer struct {
	driver DriverInterface
	groups backends.GroupBackend
	users  backends.UserBackend

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (i *Importer) Run(ctx context.Context) (*Report, error) {
	ctx, span := i.tracer.Start(ctx, "importer.Importer.Run")
	defer span.End()

	mappings, err := i.driver.FetchAllUserGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user groups from driver: %w", err)
	}

	i.logger.Infof("Fetched %d user-group mappings from driver", len(mappings))

	groupUsers := make(map[string][]string)
	for _, m := range mappings {
		name := fmt.Sprintf("%s:%s", i.driver.Prefix(), m.GroupName)
		groupUsers[name] = append(groupUsers[name], m.Email)
	}

	names := make([]string, 0, len(groupUsers))
	for name := range groupUsers {
		names = append(names, name)
	}
	sort.Strings(names)

	report := new(Report)
	resolved := make(map[string]*types.User)

	for _, name := range names {
		group, err := i.findOrCreateGroup(ctx, name)
		if err != nil {
			i.logger.Errorf("Failed to resolve group %q: %v", name, err)
			report.Failures++
			continue
		}
		report.Groups++

		for _, email := range groupUsers[name] {
			user, ok := resolved[email]
			if !ok {
				user, err = i.users.GetUser(ctx, types.UserQuery{Email: email})
				if errors.Is(err, apierrors.ErrNotFound) {
					i.logger.Debugf("Skipping unknown user %q", email)
					report.UnknownUsers++
					resolved[email] = nil
					continue
				}
				if err != nil {
					i.logger.Errorf("Failed to look up user %q: %v", email, err)
					report.Failures++
					continue
				}
				resolved[email] = user
			}
			if user == nil {
				continue
			}

			if err := i.groups.AddUserToGroup(ctx, user, group); err != nil {
				i.logger.Errorf("Failed to add %q to group %q: %v", email, name, err)
				report.Failures++
				continue
			}
			report.Memberships++
		}

		i.logger.Infof("Imported group %q with %d users", name, len(groupUsers[name]))
	}

	i.logger.Infof(
		"Import complete: %d groups, %d memberships, %d unknown users, %d failures",
		report.Groups, report.Memberships, report.UnknownUsers, report.Failures,
	)

	return report, nil
}

func (i *Importer) findOrCreateGroup(ctx context.Context, name string) (*types.Group, error) {
	group, err := i.groups.GetGroup(ctx, name)
	if err == nil {
		return group, nil
	}
	if !errors.Is(err, apierrors.ErrNotFound) {
		return nil, err
	}

	return i.groups.CreateGroup(ctx, name, types.GroupTypeExternal)
}

func NewImporter(
	driver DriverInterface,
	groups backends.GroupBackend,
	users backends.UserBackend,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Importer {
	i := new(Importer)

	i.driver = driver
	i.groups = groups
	i.users = users

	i.tracer = tracer
	i.monitor = monitor
	i.logger = logger

	return i
}
