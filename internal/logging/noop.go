// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
)

// NewNoopLogger returns a logger discarding everything, used by tests and
// one-shot commands.
func NewNoopLogger() *Logger {
	logger := new(Logger)
	logger.SugaredLogger = zap.NewNop().Sugar()
	logger.security = newSecurityLogger(zap.NewNop())

	return logger
}
