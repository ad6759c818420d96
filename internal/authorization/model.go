// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"encoding/json"
	"fmt"

	fga "github.com/openfga/go-sdk"
	"github.com/openfga/language/pkg/go/transformer"
)

const modelDSLv0 = `model
  schema 1.1

type user

type group
  relations
    define member: [user]

type api
  relations
    define can_write: [user, user:*, group#member]
    define can_read: [user, user:*, group#member] or can_write
`

type AuthorizationModelProvider struct {
	version string
}

// JSON returns the model in the representation accepted by the OpenFGA
// write model API.
func (a *AuthorizationModelProvider) JSON() ([]byte, error) {
	if a.version != "v0" {
		return nil, fmt.Errorf("unknown authorization model version %q", a.version)
	}

	out, err := transformer.TransformDSLToJSON(modelDSLv0)
	if err != nil {
		return nil, fmt.Errorf("failed to transform authorization model: %v", err)
	}

	return []byte(out), nil
}

func (a *AuthorizationModelProvider) GetModel() (*fga.AuthorizationModel, error) {
	data, err := a.JSON()
	if err != nil {
		return nil, err
	}

	model := new(fga.AuthorizationModel)
	if err := json.Unmarshal(data, model); err != nil {
		return nil, fmt.Errorf("failed to parse authorization model: %v", err)
	}

	return model, nil
}

func NewAuthorizationModelProvider(version string) *AuthorizationModelProvider {
	return &AuthorizationModelProvider{version: version}
}
