// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package sites

import "context"

type SettingsProviderInterface interface {
	// Settings returns the effective settings of a site, the default block
	// fills whatever the site leaves unset.
	Settings(site string) *Settings
	Watch(ctx context.Context) error
}
