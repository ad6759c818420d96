// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"
	"fmt"

	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/openfga"
	"github.com/canonical/lms-bridge/internal/tracing"
)

var ErrInvalidAuthModel = fmt.Errorf("invalid authorization model schema")

var _ AuthorizerInterface = (*Authorizer)(nil)

type Authorizer struct {
	client AuthzClientInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// CanAccess passes the principal's groups as contextual memberships, so
// group grants work without syncing memberships to OpenFGA.
func (a *Authorizer) CanAccess(ctx context.Context, subject string, groups []string, relation, resource string) (bool, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.CanAccess")
	defer span.End()

	if relation != READ_RELATION && relation != WRITE_RELATION {
		return false, fmt.Errorf("unknown relation %q", relation)
	}

	ctxTuples := make([]openfga.Tuple, 0, len(groups))
	for _, group := range groups {
		ctxTuples = append(ctxTuples, *openfga.NewTuple(UserTuple(subject), MEMBER_RELATION, GroupTuple(group)))
	}

	allowed, err := a.client.Check(ctx, UserTuple(subject), relation, APITuple(resource), ctxTuples...)
	if err != nil {
		return false, err
	}
	if !allowed {
		a.logger.Debugf("%s lacks %s on %s", subject, relation, APITuple(resource))
	}

	return allowed, nil
}

func (a *Authorizer) ValidateModel(ctx context.Context) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.ValidateModel")
	defer span.End()

	model, err := NewAuthorizationModelProvider("v0").GetModel()
	if err != nil {
		return err
	}

	eq, err := a.client.CompareModel(ctx, *model)
	if err != nil {
		return err
	}
	if !eq {
		return ErrInvalidAuthModel
	}
	return nil
}

// WriteModel stores the current model and returns its id.
func (a *Authorizer) WriteModel(ctx context.Context) (string, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.WriteModel")
	defer span.End()

	data, err := NewAuthorizationModelProvider("v0").JSON()
	if err != nil {
		return "", err
	}

	return a.client.WriteModel(ctx, data)
}

func NewAuthorizer(client AuthzClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Authorizer {
	authorizer := new(Authorizer)

	authorizer.client = client
	authorizer.tracer = tracer
	authorizer.monitor = monitor
	authorizer.logger = logger

	return authorizer
}
