// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package users

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
	mux.Post("/user", a.handleCreateUser)
	mux.Get("/user", a.handleGetUser)
	mux.Patch("/user", a.handleUpdateUser)
	mux.Patch("/update-user", a.handleUpdateUser)
}

func (a *API) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	raw := map[string]json.RawMessage{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		apierrors.WriteHTTP(w, validation.DecodeError(err, "users.handleCreateUser"), a.logger)
		return
	}

	req, err := decodeCreate(raw)
	if err != nil {
		apierrors.WriteHTTP(w, err, a.logger)
		return
	}

	doc, err := a.service.CreateUser(r.Context(), userquery.Site(r), req)
	if err != nil {
		apierrors.WriteHTTP(w, err, a.logger)
		return
	}

	a.write(w, doc)
}

func (a *API) handleGetUser(w http.ResponseWriter, r *http.Request) {
	q, _ := userquery.FromRequest(r)

	if q.IsSingle() {
		doc, err := a.service.GetUser(r.Context(), q)
		if err != nil {
			apierrors.WriteHTTP(w, err, a.logger)
			return
		}
		a.write(w, doc)
		return
	}

	docs, err := a.service.ListUsers(r.Context(), q.Site)
	if err != nil {
		apierrors.WriteHTTP(w, err, a.logger)
		return
	}
	a.write(w, docs)
}

func (a *API) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	fields := map[string]json.RawMessage{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		apierrors.WriteHTTP(w, validation.DecodeError(err, "users.handleUpdateUser"), a.logger)
		return
	}

	identity := validation.TextFields(map[string]json.RawMessage{
		"username": fields["username"],
		"email":    fields["email"],
	})
	delete(fields, "username")
	delete(fields, "email")

	params := r.URL.Query()
	for k, v := range identity {
		params.Set(k, v)
	}
	q := userquery.FromParams(params, userquery.Site(r))

	doc, err := a.service.UpdateUser(r.Context(), q, fields)
	if err != nil {
		apierrors.WriteHTTP(w, err, a.logger)
		return
	}

	a.write(w, doc)
}

func (a *API) write(w http.ResponseWriter, payload interface{}) {
	if err := types.WriteJSON(w, http.StatusOK, payload); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}

func decodeCreate(raw map[string]json.RawMessage) (*CreateRequest, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}

	req := new(CreateRequest)
	if err := json.Unmarshal(data, req); err != nil {
		return nil, validation.DecodeError(err, "users.decodeCreate")
	}
	req.Fields = validation.TextFields(raw)

	return req, nil
}

func NewAPI(service ServiceInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.service = service

	a.monitor = monitor
	a.tracer = tracer
	a.logger = logger

	return a
}
