// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package userquery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/backends"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/sites"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/internal/types"
	"github.com/canonical/lms-bridge/pkg/groups"
)

// MissingIdentityMessage is the detail of queries naming no user.
const MissingIdentityMessage = "Email or username needed"

// Helper resolves user queries and serializes users, it is shared by the
// user and enrollment endpoints.
type Helper struct {
	users  backends.UserBackend
	groups groups.ServiceInterface
	sites  sites.SettingsProviderInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// UserDocument is a serialized user, a map so that responses can be
// projected and extended.
type UserDocument map[string]json.RawMessage

// Set adds or replaces a member.
func (d UserDocument) Set(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	d[key] = data
	return nil
}

// Resolve finds the user named by q.
func (h *Helper) Resolve(ctx context.Context, q types.UserQuery) (*types.User, error) {
	ctx, span := h.tracer.Start(ctx, "userquery.Helper.Resolve")
	defer span.End()

	if !q.IsSingle() {
		return nil, apierrors.NewValidationError(MissingIdentityMessage, "userquery.Resolve")
	}

	return h.users.GetUser(ctx, q)
}

// Groups exposes the group management helper.
func (h *Helper) Groups() groups.ServiceInterface {
	return h.groups
}

// Settings returns the site's user endpoint settings.
func (h *Helper) Settings(site string) *sites.Settings {
	return h.sites.Settings(site)
}

// Serialize renders user with its group names. When the site configures
// admin fields only those are kept, together with username and groups.
func (h *Helper) Serialize(ctx context.Context, user *types.User, site string) (UserDocument, error) {
	ctx, span := h.tracer.Start(ctx, "userquery.Helper.Serialize")
	defer span.End()

	doc, err := h.SerializeFull(ctx, user)
	if err != nil {
		return nil, err
	}

	admin := h.sites.Settings(site).AdminFields
	if len(admin) == 0 {
		return doc, nil
	}

	projected := UserDocument{"username": doc["username"], "groups": doc["groups"]}
	for _, f := range admin {
		if v, ok := doc[f]; ok {
			projected[f] = v
		}
	}

	return projected, nil
}

// SerializeFull renders every user field with its group names.
func (h *Helper) SerializeFull(ctx context.Context, user *types.User) (UserDocument, error) {
	data, err := json.Marshal(user.Detail())
	if err != nil {
		return nil, fmt.Errorf("failed to serialize user: %v", err)
	}

	doc := UserDocument{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to serialize user: %v", err)
	}

	names, err := h.groups.Names(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := doc.Set("groups", names); err != nil {
		return nil, err
	}

	return doc, nil
}

func NewHelper(users backends.UserBackend, groupService groups.ServiceInterface, settings sites.SettingsProviderInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Helper {
	h := new(Helper)

	h.users = users
	h.groups = groupService
	h.sites = settings

	h.tracer = tracer
	h.monitor = monitor
	h.logger = logger

	return h
}
