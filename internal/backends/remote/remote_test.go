// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/internal/types"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type recorded struct {
	auth      string
	requestID string
	body      map[string]interface{}
}

// fakePlatform serves a small subset of the platform API.
func fakePlatform(t *testing.T, rec *recorded) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			rec.auth = req.Header.Get("Authorization")
			rec.requestID = req.Header.Get("X-Request-Id")
			if req.Body != nil && req.ContentLength != 0 {
				rec.body = map[string]interface{}{}
				json.NewDecoder(req.Body).Decode(&rec.body)
			}
			next.ServeHTTP(w, req)
		})
	})

	r.Post("/users", func(w http.ResponseWriter, req *http.Request) {
		if rec.body["username"] == "taken" {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"detail": map[string][]string{"username": {"already exists"}}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"user":     map[string]interface{}{"id": 1, "username": rec.body["username"], "email": rec.body["email"], "name": rec.body["name"], "extended_profile": map[string]string{"company": "Canonical"}},
			"messages": []string{"created"},
		})
	})
	r.Get("/users/lookup", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("username") != "alice" {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No user found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": 1, "username": "alice", "site": req.URL.Query().Get("site")})
	})
	r.Get("/users", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{{"id": 1, "username": "alice"}, {"id": 2, "username": "bob"}})
	})
	r.Patch("/users/{username}", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": 1, "username": chi.URLParam(req, "username"), "is_active": rec.body["is_active"]})
	})
	r.Post("/enrollments", func(w http.ResponseWriter, req *http.Request) {
		if rec.body["mode"] == "professional" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "Enrollment mode mismatch"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"enrollments": []map[string]interface{}{
			{"enrollment": map[string]interface{}{"username": rec.body["username"], "course_id": "course-v1:X+Y+Z", "mode": "audit", "is_active": true}},
			{"enrollment": map[string]interface{}{"username": rec.body["username"], "course_id": "course-v1:X+Y+W", "mode": "audit", "is_active": true}, "messages": []string{"note"}},
		}})
	})
	r.Get("/enrollments/{username}/{course_id}", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"username": chi.URLParam(req, "username"), "course_id": chi.URLParam(req, "course_id"), "mode": "audit"})
	})
	r.Delete("/enrollments/{username}/{course_id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/courses/{course_id}/enrollments", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{{"username": "alice", "course_id": chi.URLParam(req, "course_id")}})
	})
	r.Get("/groups/{name}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "name") != "staff" {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Group does not exist"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": "1", "name": "staff", "type": "local"})
	})
	r.Put("/groups/{name}/members/{username}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/social-auth", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{{"id": 3, "username": "alice", "provider": req.URL.Query().Get("provider"), "uid": "a"}})
	})
	r.Get("/broken", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newTestBackend(t *testing.T, url string) *Backend {
	logger := logging.NewNoopLogger()
	return NewBackend(Config{BaseURL: url + "/", Token: "secret"}, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)
}

func TestUsers(t *testing.T) {
	rec := new(recorded)
	b := newTestBackend(t, fakePlatform(t, rec).URL)
	ctx := context.Background()

	u, msgs, err := b.CreateUser(ctx, &types.UserCreate{Username: "alice", Email: "alice@example.com", FullName: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "Alice", u.Profile.Name)
	assert.Equal(t, "Canonical", u.Profile.Meta["company"])
	assert.Equal(t, []string{"created"}, msgs)
	assert.Equal(t, "Bearer secret", rec.auth)
	assert.NotEmpty(t, rec.requestID)

	_, _, err = b.CreateUser(ctx, &types.UserCreate{Username: "taken"})
	apiErr, ok := apierrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apierrors.ErrCodeValidation, apiErr.Code)
	assert.Equal(t, apierrors.FieldErrors{"username": {"already exists"}}, apiErr.Detail)

	u, err = b.GetUser(ctx, types.UserQuery{Username: "alice", Site: "lms.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "lms.example.com", u.Site)

	_, err = b.GetUser(ctx, types.UserQuery{Username: "nobody"})
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	_, err = b.GetUser(ctx, types.UserQuery{})
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	users, err := b.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	active := true
	u, err = b.UpdateUser(ctx, &types.User{Username: "alice"}, &types.UserUpdate{IsActive: &active})
	require.NoError(t, err)
	assert.True(t, u.IsActive)
}

func TestEnrollments(t *testing.T) {
	rec := new(recorded)
	b := newTestBackend(t, fakePlatform(t, rec).URL)
	ctx := context.Background()
	alice := &types.User{Username: "alice"}

	created, err := b.CreateEnrollment(ctx, alice, &types.EnrollmentRequest{Email: "alice@example.com", BundleID: "bundle"})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, []string{"note"}, created[1].Messages)
	assert.Equal(t, "alice", rec.body["username"])
	assert.NotContains(t, rec.body, "email")

	_, err = b.CreateEnrollment(ctx, alice, &types.EnrollmentRequest{CourseID: "course-v1:X+Y+Z", Mode: "professional"})
	assert.ErrorIs(t, err, apierrors.ErrBusinessRule)

	e, err := b.GetEnrollment(ctx, "alice", "course-v1:X+Y+Z")
	require.NoError(t, err)
	assert.Equal(t, "course-v1:X+Y+Z", e.CourseID)

	list, err := b.ListCourseEnrollments(ctx, "course-v1:X+Y+Z")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.NoError(t, b.DeleteEnrollment(ctx, alice, "course-v1:X+Y+Z"))
}

func TestGroupsAndSocialAuth(t *testing.T) {
	rec := new(recorded)
	b := newTestBackend(t, fakePlatform(t, rec).URL)
	ctx := context.Background()

	g, err := b.GetGroup(ctx, "staff")
	require.NoError(t, err)
	assert.Equal(t, "staff", g.Name)

	_, err = b.GetGroup(ctx, "missing")
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	assert.NoError(t, b.AddUserToGroup(ctx, &types.User{Username: "alice"}, g))

	found, err := b.GetUserSocialAuths(ctx, types.SocialAuthFilter{Provider: "oidc"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "oidc", found[0].Provider)
}

func TestServerErrorIsNotAnAPIError(t *testing.T) {
	rec := new(recorded)
	b := newTestBackend(t, fakePlatform(t, rec).URL)

	_, err := b.listGroups(context.Background(), "/broken", nil, "remote.test")
	require.Error(t, err)
	_, ok := apierrors.As(err)
	assert.False(t, ok)
}
