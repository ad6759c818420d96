// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package apierrors

import (
	"net/http"

	"github.com/canonical/lms-bridge/internal/http/types"
	"github.com/canonical/lms-bridge/internal/logging"
)

// WriteHTTP renders err with the service envelope. API errors keep their
// status and detail, anything else becomes a 500.
func WriteHTTP(w http.ResponseWriter, err error, logger logging.LoggerInterface) {
	apiErr, ok := As(err)
	if !ok {
		logger.Errorf("unexpected error: %v", err)
		types.WriteError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), nil)
		return
	}

	logger.Errorf("API Error: %v", apiErr.Detail)

	var data interface{}
	if fe, ok := apiErr.Detail.(FieldErrors); ok {
		data = fe
	}

	types.WriteError(w, apiErr.Status, apiErr.Message(), data)
}
