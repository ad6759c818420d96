// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package groups

import (
	"context"
	"sort"

	"github.com/canonical/lms-bridge/internal/backends"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/internal/types"
)

var _ ServiceInterface = (*Service)(nil)

// Service is the group management helper shared by the user endpoints.
type Service struct {
	backend backends.GroupBackend

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *Service) ListGroups(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "groups.Service.ListGroups")
	defer span.End()

	groups, err := s.backend.GetAllGroups(ctx)
	if err != nil {
		return nil, err
	}

	return names(groups), nil
}

func (s *Service) Apply(ctx context.Context, user *types.User, edit types.GroupEdit) error {
	ctx, span := s.tracer.Start(ctx, "groups.Service.Apply")
	defer span.End()

	for _, name := range edit.Add {
		group, err := s.backend.GetGroup(ctx, name)
		if err != nil {
			return err
		}
		if err := s.backend.AddUserToGroup(ctx, user, group); err != nil {
			return err
		}
	}

	for _, name := range edit.Remove {
		group, err := s.backend.GetGroup(ctx, name)
		if err != nil {
			return err
		}
		if err := s.backend.RemoveUserFromGroup(ctx, user, group); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) Check(ctx context.Context, names []string) error {
	ctx, span := s.tracer.Start(ctx, "groups.Service.Check")
	defer span.End()

	for _, name := range names {
		if _, err := s.backend.GetGroup(ctx, name); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) Names(ctx context.Context, user *types.User) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "groups.Service.Names")
	defer span.End()

	groups, err := s.backend.GetGroups(ctx, user)
	if err != nil {
		return nil, err
	}

	return names(groups), nil
}

func names(groups []*types.Group) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Name)
	}
	sort.Strings(out)
	return out
}

func NewService(backend backends.GroupBackend, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	s := new(Service)

	s.backend = backend

	s.monitor = monitor
	s.tracer = tracer
	s.logger = logger

	return s
}
