// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package socialauth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/http/types"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/internal/validation"
	"github.com/canonical/lms-bridge/pkg/userquery"
)

type API struct {
	service ServiceInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get("/user-social-auth", a.handleList)
	mux.Post("/user-social-auth", a.handleLink)
}

func (a *API) handleList(w http.ResponseWriter, r *http.Request) {
	q, params := userquery.FromRequest(r)

	links, err := a.service.ListSocialAuths(r.Context(), q, params.Get("provider"), params.Get("uid"))
	if err != nil {
		apierrors.WriteHTTP(w, err, a.logger)
		return
	}

	a.write(w, links)
}

func (a *API) handleLink(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	req := new(LinkRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		apierrors.WriteHTTP(w, validation.DecodeError(err, "socialauth.handleLink"), a.logger)
		return
	}

	link, err := a.service.LinkSocialAuth(r.Context(), userquery.Site(r), req)
	if err != nil {
		apierrors.WriteHTTP(w, err, a.logger)
		return
	}

	a.write(w, link)
}

func (a *API) write(w http.ResponseWriter, payload interface{}) {
	if err := types.WriteJSON(w, http.StatusOK, payload); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
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
