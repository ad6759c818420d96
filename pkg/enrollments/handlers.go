// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package enrollments

import (
	"context"
	"io"
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

const maxBatchBody = 4 << 20

type API struct {
	service   ServiceInterface
	validator *validation.Validator

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Post("/enrollment", a.handleCreate)
	mux.Put("/enrollment", a.handleUpdate)
	mux.Get("/enrollment", a.handleGet)
	mux.Delete("/enrollment", a.handleDelete)
}

func (a *API) handleCreate(w http.ResponseWriter, r *http.Request) {
	a.handleBatch(w, r, a.service.CreateEnrollments)
}

func (a *API) handleUpdate(w http.ResponseWriter, r *http.Request) {
	a.handleBatch(w, r, a.service.UpdateEnrollments)
}

func (a *API) handleBatch(w http.ResponseWriter, r *http.Request, run func(context.Context, string, *Batch) (*BatchResult, error)) {
	defer r.Body.Close()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBatchBody))
	if err != nil {
		apierrors.WriteHTTP(w, apierrors.NewValidationError("Invalid request body", "enrollments.handleBatch"), a.logger)
		return
	}

	batch, err := ParseBatch(data, a.validator)
	if err != nil {
		apierrors.WriteHTTP(w, err, a.logger)
		return
	}

	result, err := run(r.Context(), userquery.Site(r), batch)
	if err != nil {
		apierrors.WriteHTTP(w, err, a.logger)
		return
	}

	if result.Failed {
		a.logger.Warnf("enrollment batch finished with failed items")
	}

	a.write(w, result.Status(), result.Payload())
}

func (a *API) handleGet(w http.ResponseWriter, r *http.Request) {
	q, params := userquery.FromRequest(r)
	courseID := params.Get("course_id")

	if q.IsSingle() {
		e, err := a.service.GetEnrollment(r.Context(), q, courseID)
		if err != nil {
			apierrors.WriteHTTP(w, err, a.logger)
			return
		}
		a.write(w, http.StatusOK, e)
		return
	}

	list, err := a.service.ListEnrollments(r.Context(), courseID)
	if err != nil {
		apierrors.WriteHTTP(w, err, a.logger)
		return
	}
	a.write(w, http.StatusOK, list)
}

func (a *API) handleDelete(w http.ResponseWriter, r *http.Request) {
	q, params := userquery.FromRequest(r)

	if err := a.service.DeleteEnrollment(r.Context(), q, params.Get("course_id")); err != nil {
		apierrors.WriteHTTP(w, err, a.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) write(w http.ResponseWriter, status int, payload interface{}) {
	if err := types.WriteJSON(w, status, payload); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}

func NewAPI(service ServiceInterface, validator *validation.Validator, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.service = service
	a.validator = validator

	a.monitor = monitor
	a.tracer = tracer
	a.logger = logger

	return a
}
