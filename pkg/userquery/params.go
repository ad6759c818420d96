// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package userquery

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/canonical/lms-bridge/internal/types"
)

const maxParamsBody = 1 << 20

// Params reads request parameters forgivingly: the query string wins, and
// when it is empty the top level string members of a JSON object body are
// used instead. The body stays readable for the handler.
func Params(r *http.Request) url.Values {
	params := r.URL.Query()
	if len(params) > 0 || r.Body == nil || r.Body == http.NoBody {
		return params
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxParamsBody))
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return params
	}

	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err != nil {
		return params
	}

	for k, v := range body {
		if s, ok := v.(string); ok {
			params.Set(k, s)
		}
	}

	return params
}

// Site is the request host without its port.
func Site(r *http.Request) string {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(host)
}

// FromParams builds the user query, username prevails over email.
func FromParams(params url.Values, site string) types.UserQuery {
	q := types.UserQuery{Site: site}

	if username := strings.TrimSpace(params.Get("username")); username != "" {
		q.Username = username
	} else if email := strings.TrimSpace(params.Get("email")); email != "" {
		q.Email = email
	}

	return q
}

// FromRequest is FromParams over Params and Site.
func FromRequest(r *http.Request) (types.UserQuery, url.Values) {
	params := Params(r)
	return FromParams(params, Site(r)), params
}
