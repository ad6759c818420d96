// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package users

import (
	"context"
	"encoding/json"

	"github.com/canonical/lms-bridge/internal/types"
	"github.com/canonical/lms-bridge/pkg/userquery"
)

type ServiceInterface interface {
	CreateUser(ctx context.Context, site string, req *CreateRequest) (userquery.UserDocument, error)
	GetUser(ctx context.Context, q types.UserQuery) (userquery.UserDocument, error)
	ListUsers(ctx context.Context, site string) ([]userquery.UserDocument, error)
	// UpdateUser applies the safe members of fields, identity members are
	// expected to be removed already.
	UpdateUser(ctx context.Context, q types.UserQuery, fields map[string]json.RawMessage) (userquery.UserDocument, error)
}
