// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package socialauth

import (
	"context"

	"github.com/canonical/lms-bridge/internal/types"
)

type ServiceInterface interface {
	ListSocialAuths(ctx context.Context, q types.UserQuery, provider, uid string) ([]*types.UserSocialAuth, error)
	LinkSocialAuth(ctx context.Context, site string, req *LinkRequest) (*types.UserSocialAuth, error)
}
