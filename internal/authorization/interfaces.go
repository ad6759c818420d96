// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"

	fga "github.com/openfga/go-sdk"

	"github.com/canonical/lms-bridge/internal/openfga"
)

type AuthorizerInterface interface {
	// CanAccess checks relation on the api object of resource.
	CanAccess(ctx context.Context, subject string, groups []string, relation, resource string) (bool, error)
	ValidateModel(context.Context) error
}

type AuthzClientInterface interface {
	Check(context.Context, string, string, string, ...openfga.Tuple) (bool, error)
	ReadModel(context.Context) (*fga.AuthorizationModel, error)
	CompareModel(context.Context, fga.AuthorizationModel) (bool, error)
	WriteModel(context.Context, []byte) (string, error)
}
