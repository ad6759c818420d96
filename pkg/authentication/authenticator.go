// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"fmt"

	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
)

// NewTokenVerifier picks the bearer verifier for cfg: HMAC when a secret is
// set, OIDC with a fixed JWKS URL, or OIDC discovery. It returns nil when
// no bearer method is configured.
func NewTokenVerifier(
	ctx context.Context,
	cfg *Config,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) (TokenVerifierInterface, error) {
	switch {
	case !cfg.Enabled:
		return NewNoopVerifier(), nil
	case cfg.HMACSecret != "":
		logger.Info("JWT authentication is enabled with a shared secret")
		return NewHMACVerifier(cfg.HMACSecret, cfg.Issuer, tracer, monitor, logger), nil
	case cfg.Issuer != "" && cfg.JwksURL != "":
		logger.Infof("Using manual JWKS URL: %s", cfg.JwksURL)
		return NewJWTVerifierDirect(NewVerifierWithJWKS(ctx, cfg.Issuer, cfg.JwksURL), tracer, monitor, logger), nil
	case cfg.Issuer != "":
		logger.Infof("Using OIDC discovery for issuer: %s", cfg.Issuer)
		provider, err := NewProvider(ctx, cfg.Issuer)
		if err != nil {
			return nil, err
		}
		return NewJWTVerifier(provider, tracer, monitor, logger), nil
	default:
		return nil, nil
	}
}

// NewAuthenticator builds the request middleware from cfg.
func NewAuthenticator(
	ctx context.Context,
	cfg *Config,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) (*Middleware, error) {
	if !cfg.Enabled {
		logger.Info("Authentication is disabled")
		return NewMiddleware(false, nil, nil, cfg.CookieName, tracer, monitor, logger), nil
	}

	verifier, err := NewTokenVerifier(ctx, cfg, tracer, monitor, logger)
	if err != nil {
		return nil, err
	}

	var sessions SessionStoreInterface
	if cfg.RedisAddr != "" {
		logger.Infof("Session authentication is enabled with redis at %s", cfg.RedisAddr)
		client := NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis is not reachable yet: %v", err)
		}
		sessions = NewRedisSessionStore(client, cfg.SessionPrefix, tracer, monitor, logger)
	}

	if verifier == nil && sessions == nil {
		return nil, fmt.Errorf("authentication is enabled but neither a token verifier nor a session store is configured")
	}

	return NewMiddleware(true, verifier, sessions, cfg.CookieName, tracer, monitor, logger), nil
}
