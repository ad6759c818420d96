// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package socialauth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package socialauth -destination ./mock_socialauth.go -source=./interfaces.go

func newMux(service ServiceInterface) *chi.Mux {
	logger := logging.NewNoopLogger()

	mux := chi.NewMux()
	NewAPI(service, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger).RegisterEndpoints(mux)

	return mux
}

func TestHandleList(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		expectedQuery  types.UserQuery
		provider       string
		uid            string
		links          []*types.UserSocialAuth
		err            error
		expectedStatus int
	}{
		{
			name:           "by provider and uid",
			target:         "/user-social-auth?provider=github&uid=42",
			expectedQuery:  types.UserQuery{Site: "lms.example.com"},
			provider:       "github",
			uid:            "42",
			links:          []*types.UserSocialAuth{{ID: 1, Username: "alice", Provider: "github", UID: "42"}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "by email",
			target:         "/user-social-auth?email=alice@example.com",
			expectedQuery:  types.UserQuery{Email: "alice@example.com", Site: "lms.example.com"},
			links:          []*types.UserSocialAuth{},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown user",
			target:         "/user-social-auth?username=zed",
			expectedQuery:  types.UserQuery{Username: "zed", Site: "lms.example.com"},
			err:            apierrors.NewNotFoundError("No user found by username zed", "test"),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "backend failure",
			target:         "/user-social-auth",
			expectedQuery:  types.UserQuery{Site: "lms.example.com"},
			err:            errors.New("db down"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockServiceInterface(ctrl)
			mockService.EXPECT().
				ListSocialAuths(gomock.Any(), test.expectedQuery, test.provider, test.uid).
				Return(test.links, test.err)

			req := httptest.NewRequest(http.MethodGet, test.target, nil)
			req.Host = "lms.example.com:8000"
			w := httptest.NewRecorder()
			newMux(mockService).ServeHTTP(w, req)

			require.Equal(t, test.expectedStatus, w.Code, w.Body.String())
			if test.err != nil {
				return
			}

			var got []*types.UserSocialAuth
			require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
			assert.Len(t, got, len(test.links))
		})
	}
}

func TestHandleLink(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(m *MockServiceInterface)
		expectedStatus int
	}{
		{
			name: "linked",
			body: `{"username": "alice", "provider": "github", "uid": "42", "extra_data": {"login": "alice"}}`,
			setup: func(m *MockServiceInterface) {
				m.EXPECT().
					LinkSocialAuth(gomock.Any(), "lms.example.com", &LinkRequest{Username: "alice", Provider: "github", UID: "42", ExtraData: map[string]interface{}{"login": "alice"}}).
					Return(&types.UserSocialAuth{ID: 7, Username: "alice", Provider: "github", UID: "42"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "already linked",
			body: `{"username": "alice", "provider": "github", "uid": "42"}`,
			setup: func(m *MockServiceInterface) {
				m.EXPECT().
					LinkSocialAuth(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, apierrors.NewConflictError("The github identity 42 is already linked", "test"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "uid not a string",
			body:           `{"username": "alice", "provider": "github", "uid": 42}`,
			setup:          func(m *MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockServiceInterface(ctrl)
			test.setup(mockService)

			req := httptest.NewRequest(http.MethodPost, "/user-social-auth", strings.NewReader(test.body))
			req.Host = "lms.example.com"
			w := httptest.NewRecorder()
			newMux(mockService).ServeHTTP(w, req)

			assert.Equal(t, test.expectedStatus, w.Code, w.Body.String())
		})
	}
}
