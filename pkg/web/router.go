// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/canonical/lms-bridge/internal/authorization"
	"github.com/canonical/lms-bridge/internal/backends"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/sites"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/internal/validation"
	"github.com/canonical/lms-bridge/pkg/authentication"
	authz_api "github.com/canonical/lms-bridge/pkg/authorization"
	"github.com/canonical/lms-bridge/pkg/enrollments"
	"github.com/canonical/lms-bridge/pkg/groups"
	"github.com/canonical/lms-bridge/pkg/metrics"
	"github.com/canonical/lms-bridge/pkg/socialauth"
	"github.com/canonical/lms-bridge/pkg/status"
	"github.com/canonical/lms-bridge/pkg/userquery"
	"github.com/canonical/lms-bridge/pkg/users"
)

// ListPolicy decides whether identity-less reads list everything.
type ListPolicy struct {
	Users       bool
	Enrollments bool
}

func NewRouter(
	apiPrefix string,
	set *backends.Set,
	settings sites.SettingsProviderInterface,
	policy ListPolicy,
	authn *authentication.Middleware,
	authz authorization.AuthorizerInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	middlewares := make(chi.Middlewares, 0)
	middlewares = append(
		middlewares,
		middleware.RequestID,
		middleware.StripSlashes,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		middlewareCORS([]string{"*"}),
		// LogFormatter will only work if logger is set to DEBUG level
		middleware.RequestLogger(logging.NewLogFormatter(logger)),
	)

	router.Use(middlewares...)

	validator := validation.NewValidator()
	groupService := groups.NewService(set.Groups, tracer, monitor, logger)
	helper := userquery.NewHelper(set.Users, groupService, settings, tracer, monitor, logger)

	apiRouter := chi.NewRouter()
	apiRouter.Use(
		authn.Authenticate(),
		authz_api.NewMiddleware(authz, tracer, monitor, logger).Authorize(),
	)

	users.NewAPI(
		users.NewService(set.Users, helper, validator, policy.Users, tracer, monitor, logger),
		tracer,
		monitor,
		logger,
	).RegisterEndpoints(apiRouter)
	enrollments.NewAPI(
		enrollments.NewService(set.Enrollments, helper, policy.Enrollments, tracer, monitor, logger),
		validator,
		tracer,
		monitor,
		logger,
	).RegisterEndpoints(apiRouter)
	socialauth.NewAPI(
		socialauth.NewService(set.SocialAuth, helper, validator, tracer, monitor, logger),
		tracer,
		monitor,
		logger,
	).RegisterEndpoints(apiRouter)
	groups.NewAPI(groupService, tracer, monitor, logger).RegisterEndpoints(apiRouter)

	// Register unprotected HTTP handlers
	metrics.NewAPI(logger).RegisterEndpoints(router)
	status.NewAPI(tracer, monitor, logger).RegisterEndpoints(router)

	router.Mount(apiPrefix, apiRouter)

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}
