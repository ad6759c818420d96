// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package groups

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/http/types"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
)

type API struct {
	service ServiceInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get("/groups", a.handleGetGroups)
}

func (a *API) handleGetGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := a.service.ListGroups(r.Context())
	if err != nil {
		apierrors.WriteHTTP(w, err, a.logger)
		return
	}

	if err := types.WriteJSON(w, http.StatusOK, groups); err != nil {
		a.logger.Errorf("failed to encode groups: %v", err)
	}
}

func NewAPI(service ServiceInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.service = service

	a.monitor = monitor
	a.tracer = tracer
	a.logger = logger

	return a
}
