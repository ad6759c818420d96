// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
)

var _ TokenVerifierInterface = (*JWTVerifier)(nil)

type groupClaims struct {
	Groups []string `json:"groups"`
}

// JWTVerifier checks tokens signed by an OIDC issuer.
type JWTVerifier struct {
	verifier *oidc.IDTokenVerifier

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (v *JWTVerifier) VerifyToken(ctx context.Context, rawToken string) (*Principal, error) {
	ctx, span := v.tracer.Start(ctx, "authentication.JWTVerifier.VerifyToken")
	defer span.End()

	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	var claims groupClaims
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse token claims: %v", err)
	}

	if token.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &Principal{Subject: token.Subject, Groups: claims.Groups, Method: MethodBearer}, nil
}

func NewJWTVerifier(provider ProviderInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *JWTVerifier {
	return NewJWTVerifierDirect(provider.Verifier(verifierConfig()), tracer, monitor, logger)
}

func NewJWTVerifierDirect(verifier *oidc.IDTokenVerifier, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *JWTVerifier {
	v := new(JWTVerifier)

	v.verifier = verifier
	v.tracer = tracer
	v.monitor = monitor
	v.logger = logger

	return v
}
