// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package socialauth

// LinkRequest attaches a third party identity to the user named by username
// or email.
type LinkRequest struct {
	Username  string                 `json:"username" validate:"required_without=Email"`
	Email     string                 `json:"email" validate:"omitempty,email"`
	Provider  string                 `json:"provider" validate:"required,max=32"`
	UID       string                 `json:"uid" validate:"required,max=255"`
	ExtraData map[string]interface{} `json:"extra_data"`
}
