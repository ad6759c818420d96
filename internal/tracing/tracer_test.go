// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
)

func TestNoopTracerStart(t *testing.T) {
	tracer := NewNoopTracer()

	ctx, span := tracer.Start(context.Background(), "tracing.Test")
	defer span.End()

	if ctx == nil {
		t.Fatal("expected a context")
	}

	if span.IsRecording() {
		t.Fatal("noop span must not record")
	}
}

func TestStdoutTracerWhenNoEndpoint(t *testing.T) {
	tracer := NewTracer(NewConfig(true, "", "", logging.NewNoopLogger()))

	_, span := tracer.Start(context.Background(), "tracing.Test")
	defer span.End()

	if !span.SpanContext().IsValid() {
		t.Fatal("expected a valid span context from the sdk tracer")
	}
}

func TestMiddlewareServesRequest(t *testing.T) {
	called := false
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})

	wrapped := NewMiddleware(monitoring.NewNoopMonitor("test", logging.NewNoopLogger()), logging.NewNoopLogger()).OpenTelemetry(h)

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Fatal("expected wrapped handler to be called")
	}

	if w.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, w.Code)
	}
}
