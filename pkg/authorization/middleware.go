// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/lms-bridge/internal/authorization"
	"github.com/canonical/lms-bridge/internal/http/types"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/pkg/authentication"
)

// routeResources maps the last segment of an API route to the resource
// guarding it.
var routeResources = map[string]string{
	"user":             authorization.ResourceUsers,
	"update-user":      authorization.ResourceUsers,
	"enrollment":       authorization.ResourceEnrollments,
	"groups":           authorization.ResourceGroups,
	"user-social-auth": authorization.ResourceSocialAuth,
}

// resourceFor returns "" for routes outside the permission model.
func resourceFor(r *http.Request) string {
	p := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePath != "" {
		p = rctx.RoutePath
	}

	return routeResources[path.Base(strings.TrimRight(p, "/"))]
}

// Middleware rejects principals lacking the read or write permission on the
// requested resource. It must run after authentication.
type Middleware struct {
	authorizer authorization.AuthorizerInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (m *Middleware) Authorize() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.tracer.Start(r.Context(), "authorization.Middleware.Authorize")
			defer span.End()

			resource := resourceFor(r)
			if resource == "" {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			principal, ok := authentication.PrincipalFromContext(ctx)
			if !ok {
				m.forbidden(w, "", resource)
				return
			}

			relation := authorization.RelationFor(r.Method)
			allowed, err := m.authorizer.CanAccess(ctx, principal.Subject, principal.Groups, relation, resource)
			if err != nil {
				m.logger.Errorf("permission check failed for %s: %v", principal.Subject, err)
				types.WriteError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), nil) //nolint:errcheck
				return
			}
			if !allowed {
				m.forbidden(w, principal.Subject, resource)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *Middleware) forbidden(w http.ResponseWriter, subject, resource string) {
	m.logger.Security().AuthzFailure(subject, authorization.APITuple(resource))
	if err := types.WriteError(w, http.StatusForbidden, "You do not have permission to perform this action.", nil); err != nil {
		m.logger.Errorf("failed to encode forbidden response: %v", err)
	}
}

func NewMiddleware(authorizer authorization.AuthorizerInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Middleware {
	m := new(Middleware)

	m.authorizer = authorizer
	m.tracer = tracer
	m.monitor = monitor
	m.logger = logger

	return m
}
