// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
)

const (
	eventSystemStartup  = "sys_startup"
	eventSystemShutdown = "sys_shutdown"
	eventAuthnFailure   = "authn_login_fail"
	eventAuthzFailure   = "authz_fail"
)

type SecurityLogger struct {
	logger *zap.Logger
}

func (s *SecurityLogger) SystemStartup() {
	s.logger.Warn("system startup", zap.String("event", eventSystemStartup), zap.String("level", "WARN"))
}

func (s *SecurityLogger) SystemShutdown() {
	s.logger.Warn("system shutdown", zap.String("event", eventSystemShutdown), zap.String("level", "WARN"))
}

func (s *SecurityLogger) AuthnFailure(principal, reason string) {
	s.logger.Warn(
		"authentication failed",
		zap.String("event", eventAuthnFailure+":"+principal),
		zap.String("reason", reason),
	)
}

func (s *SecurityLogger) AuthzFailure(principal, resource string) {
	s.logger.Warn(
		"authorization failed",
		zap.String("event", eventAuthzFailure+":"+principal+","+resource),
	)
}

func newSecurityLogger(l *zap.Logger) *SecurityLogger {
	s := new(SecurityLogger)
	s.logger = l

	return s
}
