// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import "time"

// UserSocialAuth links a user to an identity on a third party provider.
type UserSocialAuth struct {
	ID        int64                  `json:"id"`
	Username  string                 `json:"username"`
	Provider  string                 `json:"provider"`
	UID       string                 `json:"uid"`
	ExtraData map[string]interface{} `json:"extra_data"`
	Created   time.Time              `json:"created"`
	Modified  time.Time              `json:"modified"`
}

// SocialAuthFilter narrows a social auth lookup, empty fields match all.
type SocialAuthFilter struct {
	Username string
	Provider string
	UID      string
}
