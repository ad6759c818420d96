// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package openfga

import (
	"context"

	fga "github.com/openfga/go-sdk"
)

type OpenFGAClientInterface interface {
	Check(ctx context.Context, user, relation, object string, contextualTuples ...Tuple) (bool, error)
	ReadModel(ctx context.Context) (*fga.AuthorizationModel, error)
	CompareModel(ctx context.Context, model fga.AuthorizationModel) (bool, error)
	WriteModel(ctx context.Context, model []byte) (string, error)
}
