// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"
	"errors"
	"testing"

	fga "github.com/openfga/go-sdk"
	"go.uber.org/mock/gomock"

	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/openfga"
	"github.com/canonical/lms-bridge/internal/tracing"
)

//go:generate mockgen -build_flags=--mod=mod -package authorization -destination ./mock_interfaces.go -source=./interfaces.go

func TestAuthorizerCanAccess(t *testing.T) {
	tests := []struct {
		name        string
		groups      []string
		relation    string
		resource    string
		allowed     bool
		checkErr    error
		expectCheck bool
		expectErr   bool
	}{
		{name: "read allowed without groups", relation: READ_RELATION, resource: ResourceUsers, allowed: true, expectCheck: true},
		{name: "write allowed through groups", groups: []string{"staff", "integrations"}, relation: WRITE_RELATION, resource: ResourceEnrollments, allowed: true, expectCheck: true},
		{name: "denied", groups: []string{"students"}, relation: WRITE_RELATION, resource: ResourceGroups, expectCheck: true},
		{name: "check failure", relation: READ_RELATION, resource: ResourceSocialAuth, checkErr: errors.New("unavailable"), expectCheck: true, expectErr: true},
		{name: "unknown relation", relation: "can_call", resource: ResourceUsers, expectErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			logger := logging.NewNoopLogger()
			mockClient := NewMockAuthzClientInterface(ctrl)
			a := NewAuthorizer(mockClient, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

			if test.expectCheck {
				args := []any{gomock.Any(), "user:svc-account", test.relation, "api:" + test.resource}
				for _, g := range test.groups {
					args = append(args, *openfga.NewTuple("user:svc-account", MEMBER_RELATION, "group:"+g))
				}
				mockClient.EXPECT().Check(args[0], args[1], args[2], args[3], args[4:]...).Return(test.allowed, test.checkErr)
			}

			allowed, err := a.CanAccess(context.Background(), "svc-account", test.groups, test.relation, test.resource)
			if test.expectErr != (err != nil) {
				t.Fatalf("expected error %v, got %v", test.expectErr, err)
			}
			if test.checkErr != nil && !errors.Is(err, test.checkErr) {
				t.Fatalf("expected error %v, got %v", test.checkErr, err)
			}
			if allowed != test.allowed {
				t.Fatalf("expected allowed %v, got %v", test.allowed, allowed)
			}
		})
	}
}

func TestRelationFor(t *testing.T) {
	for method, expected := range map[string]string{
		"GET":    READ_RELATION,
		"HEAD":   READ_RELATION,
		"POST":   WRITE_RELATION,
		"PUT":    WRITE_RELATION,
		"PATCH":  WRITE_RELATION,
		"DELETE": WRITE_RELATION,
	} {
		if got := RelationFor(method); got != expected {
			t.Errorf("%s: expected %s, got %s", method, expected, got)
		}
	}
}

func TestAuthorizerValidateModel(t *testing.T) {
	tests := []struct {
		name     string
		eq       bool
		cmpErr   error
		expected error
	}{
		{name: "model matches", eq: true},
		{name: "model differs", expected: ErrInvalidAuthModel},
		{name: "read failure", cmpErr: errors.New("boom")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			logger := logging.NewNoopLogger()
			mockClient := NewMockAuthzClientInterface(ctrl)
			a := NewAuthorizer(mockClient, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

			mockClient.EXPECT().CompareModel(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, model fga.AuthorizationModel) (bool, error) {
					if len(model.GetTypeDefinitions()) != 3 {
						t.Errorf("expected 3 type definitions, got %d", len(model.GetTypeDefinitions()))
					}
					return test.eq, test.cmpErr
				},
			)

			err := a.ValidateModel(context.Background())
			expected := test.expected
			if test.cmpErr != nil {
				expected = test.cmpErr
			}
			if !errors.Is(err, expected) {
				t.Fatalf("expected error %v, got %v", expected, err)
			}
		})
	}
}

func TestAuthorizerWriteModel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger := logging.NewNoopLogger()
	mockClient := NewMockAuthzClientInterface(ctrl)
	a := NewAuthorizer(mockClient, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

	mockClient.EXPECT().WriteModel(gomock.Any(), gomock.Any()).Return("01MODEL", nil)

	id, err := a.WriteModel(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "01MODEL" {
		t.Fatalf("expected model id 01MODEL, got %s", id)
	}
}

func TestModelProvider(t *testing.T) {
	model, err := NewAuthorizationModelProvider("v0").GetModel()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.GetSchemaVersion() != "1.1" {
		t.Fatalf("expected schema 1.1, got %s", model.GetSchemaVersion())
	}

	types := map[string]bool{}
	for _, td := range model.GetTypeDefinitions() {
		types[td.GetType()] = true
	}
	for _, tp := range []string{"user", "group", "api"} {
		if !types[tp] {
			t.Errorf("missing type %s", tp)
		}
	}

	if _, err := NewAuthorizationModelProvider("v9").GetModel(); err == nil {
		t.Fatal("expected error for unknown version")
	}
}
