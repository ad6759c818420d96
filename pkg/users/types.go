// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package users

import "github.com/canonical/lms-bridge/internal/types"

// CreateRequest is a user registration.
type CreateRequest struct {
	Username     string         `json:"username" validate:"required,max=150"`
	Email        string         `json:"email" validate:"required,email,max=254"`
	Password     string         `json:"password" validate:"required_unless=SkipPassword true"`
	FullName     string         `json:"fullname" validate:"required,max=255"`
	ActivateUser types.FlexBool `json:"activate_user"`
	SkipPassword types.FlexBool `json:"skip_password"`
	Groups       []string       `json:"groups"`

	// Fields holds the scalar members of the body as text, the extra
	// registration fields are read from it.
	Fields map[string]string `json:"-"`
}
