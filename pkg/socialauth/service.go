// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package socialauth

import (
	"context"

	"github.com/canonical/lms-bridge/internal/backends"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/internal/types"
	"github.com/canonical/lms-bridge/internal/validation"
	"github.com/canonical/lms-bridge/pkg/userquery"
)

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	backend   backends.SocialAuthBackend
	helper    *userquery.Helper
	validator *validation.Validator

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// ListSocialAuths filters the links by provider and uid, and by user when q
// names one.
func (s *Service) ListSocialAuths(ctx context.Context, q types.UserQuery, provider, uid string) ([]*types.UserSocialAuth, error) {
	ctx, span := s.tracer.Start(ctx, "socialauth.Service.ListSocialAuths")
	defer span.End()

	filter := types.SocialAuthFilter{Provider: provider, UID: uid}

	if q.IsSingle() {
		user, err := s.helper.Resolve(ctx, q)
		if err != nil {
			return nil, err
		}
		filter.Username = user.Username
	}

	return s.backend.GetUserSocialAuths(ctx, filter)
}

func (s *Service) LinkSocialAuth(ctx context.Context, site string, req *LinkRequest) (*types.UserSocialAuth, error) {
	ctx, span := s.tracer.Start(ctx, "socialauth.Service.LinkSocialAuth")
	defer span.End()

	if err := s.validator.Struct(req, "socialauth.LinkSocialAuth"); err != nil {
		return nil, err
	}

	q := types.UserQuery{Username: req.Username, Site: site}
	if q.Username == "" {
		q.Email = req.Email
	}

	user, err := s.helper.Resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	return s.backend.AddUserSocialAuth(ctx, &types.UserSocialAuth{
		Username:  user.Username,
		Provider:  req.Provider,
		UID:       req.UID,
		ExtraData: req.ExtraData,
	})
}

func NewService(backend backends.SocialAuthBackend, helper *userquery.Helper, validator *validation.Validator, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	s := new(Service)

	s.backend = backend
	s.helper = helper
	s.validator = validator

	s.monitor = monitor
	s.tracer = tracer
	s.logger = logger

	return s
}
