// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package remote implements the backends against the platform REST API.
package remote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/backends"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
)

const Tag = "remote_v1"

const defaultTimeout = 15 * time.Second

var (
	_ backends.UserBackend       = (*Backend)(nil)
	_ backends.EnrollmentBackend = (*Backend)(nil)
	_ backends.GroupBackend      = (*Backend)(nil)
	_ backends.SocialAuthBackend = (*Backend)(nil)
)

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type Backend struct {
	client *resty.Client

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Set exposes the backend as every capability.
func (b *Backend) Set() *backends.Set {
	return &backends.Set{
		Users:       b,
		Enrollments: b,
		Groups:      b,
		SocialAuth:  b,
	}
}

func (b *Backend) reportAvailability(resp *resty.Response, err error) {
	available := 1.0
	if err != nil || resp.StatusCode() >= http.StatusInternalServerError {
		available = 0
	}
	if mErr := b.monitor.SetDependencyAvailability(map[string]string{"component": "platform"}, available); mErr != nil {
		b.logger.Debugf("failed to set platform availability: %v", mErr)
	}
}

type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

// detail extracts the most specific error description the platform sent,
// a field map is kept as field errors.
func detail(resp *resty.Response) interface{} {
	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		if len(body.Detail) > 0 {
			var fields apierrors.FieldErrors
			if err := json.Unmarshal(body.Detail, &fields); err == nil {
				return fields
			}
			var s string
			if err := json.Unmarshal(body.Detail, &s); err == nil {
				return s
			}
		}
		if body.Message != "" {
			return body.Message
		}
	}

	if text := strings.TrimSpace(string(resp.Body())); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode())
}

func mapHTTPError(resp *resty.Response, op string) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return apierrors.NewValidationError(detail(resp), op)
	case http.StatusNotFound:
		return apierrors.NewNotFoundError(detail(resp), op)
	case http.StatusConflict:
		return apierrors.NewConflictError(detail(resp), op)
	case http.StatusUnprocessableEntity:
		return apierrors.NewBusinessRuleError(detail(resp), op)
	default:
		return fmt.Errorf("platform answered %d: %v", resp.StatusCode(), detail(resp))
	}
}

func NewBackend(cfg Config, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Backend {
	b := new(Backend)

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	b.client = resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			r.SetHeader("X-Request-Id", uuid.NewString())
			return nil
		})

	if cfg.Token != "" {
		b.client.SetAuthToken(cfg.Token)
	}

	b.tracer = tracer
	b.monitor = monitor
	b.logger = logger

	return b
}
