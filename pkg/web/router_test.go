// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/lms-bridge/internal/authorization"
	"github.com/canonical/lms-bridge/internal/backends/memory"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/openfga"
	"github.com/canonical/lms-bridge/internal/sites"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/pkg/authentication"
)

const (
	testPrefix = "/lms/api/v1"
	testSecret = "router-test-secret"
)

func newRouter(t *testing.T, authenticationEnabled bool) http.Handler {
	t.Helper()

	logger := logging.NewNoopLogger()
	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("test", logger)

	provider, err := sites.NewProvider("", logger)
	require.NoError(t, err)

	verifier := authentication.NewHMACVerifier(testSecret, "", tracer, monitor, logger)
	authn := authentication.NewMiddleware(authenticationEnabled, verifier, nil, "sessionid", tracer, monitor, logger)
	authz := authorization.NewAuthorizer(openfga.NewNoopClient(tracer, monitor, logger), tracer, monitor, logger)

	return NewRouter(
		testPrefix,
		memory.NewStore().Set(),
		provider,
		ListPolicy{Users: true, Enrollments: true},
		authn,
		authz,
		tracer,
		monitor,
		logger,
	)
}

func TestRouter(t *testing.T) {
	token, err := authentication.SignHMACToken([]byte(testSecret), "", "admin", nil, time.Now().Add(time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name           string
		authn          bool
		method         string
		target         string
		body           string
		token          string
		expectedStatus int
	}{
		{name: "status", method: http.MethodGet, target: "/api/v0/status", expectedStatus: http.StatusOK},
		{name: "metrics", authn: true, method: http.MethodGet, target: "/api/v0/metrics", expectedStatus: http.StatusOK},
		{name: "trailing slash", method: http.MethodGet, target: testPrefix + "/groups/", expectedStatus: http.StatusOK},
		{
			name:           "create user",
			method:         http.MethodPost,
			target:         testPrefix + "/user/",
			body:           `{"username": "alice", "email": "alice@example.com", "password": "x", "fullname": "Alice"}`,
			expectedStatus: http.StatusOK,
		},
		{name: "enrollment needs course", method: http.MethodGet, target: testPrefix + "/enrollment/", expectedStatus: http.StatusBadRequest},
		{name: "social auth", method: http.MethodGet, target: testPrefix + "/user-social-auth/", expectedStatus: http.StatusOK},
		{name: "missing credentials", authn: true, method: http.MethodGet, target: testPrefix + "/groups/", expectedStatus: http.StatusUnauthorized},
		{name: "bad token", authn: true, method: http.MethodGet, target: testPrefix + "/groups/", token: "nope", expectedStatus: http.StatusUnauthorized},
		{name: "valid token", authn: true, method: http.MethodGet, target: testPrefix + "/groups/", token: token, expectedStatus: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, target: testPrefix + "/courses", expectedStatus: http.StatusNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(test.method, test.target, strings.NewReader(test.body))
			req.Header.Set("Content-Type", "application/json")
			if test.token != "" {
				req.Header.Set("Authorization", "Bearer "+test.token)
			}
			w := httptest.NewRecorder()

			newRouter(t, test.authn).ServeHTTP(w, req)

			assert.Equal(t, test.expectedStatus, w.Code, w.Body.String())
		})
	}
}
