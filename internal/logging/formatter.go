// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type LogFormatter struct {
	Logger LoggerInterface
}

// NewLogEntry creates a new LogEntry for the request.
func (l *LogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	entry := &LogEntry{
		Logger:    l.Logger,
		method:    r.Method,
		uri:       r.RequestURI,
		requestID: middleware.GetReqID(r.Context()),
		ip:        r.RemoteAddr,
	}

	return entry
}

type LogEntry struct {
	Logger LoggerInterface

	method    string
	uri       string
	requestID string
	ip        string
}

func (l *LogEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	l.Logger.Debugf(
		"request_id: %s - ip: %s - method: %s - uri: %s - status: %d - size: %d - elapsed: %s",
		l.requestID, l.ip, l.method, l.uri, status, bytes, elapsed,
	)
}

func (l *LogEntry) Panic(v interface{}, stack []byte) {
	l.Logger.Errorf("request_id: %s - panic: %v - stack: %s", l.requestID, v, stack)
}

func NewLogFormatter(logger LoggerInterface) *LogFormatter {
	l := new(LogFormatter)
	l.Logger = logger

	return l
}
