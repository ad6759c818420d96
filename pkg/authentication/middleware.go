// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"net/http"
	"strings"

	"github.com/canonical/lms-bridge/internal/http/types"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
)

// Middleware accepts either a bearer token or a session cookie. When
// disabled every request carries the anonymous principal.
type Middleware struct {
	enabled    bool
	verifier   TokenVerifierInterface
	sessions   SessionStoreInterface
	cookieName string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (m *Middleware) Authenticate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.tracer.Start(r.Context(), "authentication.Middleware.Authenticate")
			defer span.End()

			if !m.enabled {
				p := &Principal{Subject: AnonymousSubject, Method: MethodNone}
				next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, p)))
				return
			}

			if token, found := m.getBearerToken(r.Header); found && m.verifier != nil {
				p, err := m.verifier.VerifyToken(ctx, token)
				if err != nil {
					m.logger.Debugf("JWT verification failed: %v", err)
					m.logger.Security().AuthnFailure(MethodBearer, "invalid token")
					m.unauthorizedResponse(w, "Invalid token.")
					return
				}
				next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, p)))
				return
			}

			if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" && m.sessions != nil {
				p, err := m.sessions.Lookup(ctx, cookie.Value)
				if err != nil {
					m.logger.Debugf("session lookup failed: %v", err)
					m.logger.Security().AuthnFailure(MethodSession, "invalid session")
					m.unauthorizedResponse(w, "Invalid session.")
					return
				}
				next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, p)))
				return
			}

			m.logger.Security().AuthnFailure(MethodNone, "missing credentials")
			m.unauthorizedResponse(w, "Authentication credentials were not provided.")
		})
	}
}

func (m *Middleware) getBearerToken(headers http.Header) (string, bool) {
	bearer := headers.Get("Authorization")
	if bearer == "" {
		return "", false
	}

	// Only support "Bearer <token>" format (RFC 6750)
	if !strings.HasPrefix(bearer, "Bearer ") {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(bearer, "Bearer "))
	return token, token != ""
}

func (m *Middleware) unauthorizedResponse(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	if err := types.WriteError(w, http.StatusUnauthorized, message, nil); err != nil {
		m.logger.Errorf("failed to encode unauthorized response: %v", err)
	}
}

func NewMiddleware(enabled bool, verifier TokenVerifierInterface, sessions SessionStoreInterface, cookieName string, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Middleware {
	return &Middleware{
		enabled:    enabled,
		verifier:   verifier,
		sessions:   sessions,
		cookieName: cookieName,
		tracer:     tracer,
		monitor:    monitor,
		logger:     logger,
	}
}
