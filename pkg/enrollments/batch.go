// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package enrollments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/types"
	"github.com/canonical/lms-bridge/internal/validation"
)

const errorField = "error"

// requestFields are the item keys echoed back for a failed item.
var requestFields = []string{
	"username", "email", "course_id", "bundle_id", "mode", "is_active", "force", "enrollment_attributes",
}

// Item is one request of a batch, raw records which fields were sent so
// that a failed item can be echoed back.
type Item struct {
	Request types.EnrollmentRequest
	raw     map[string]json.RawMessage
}

// Batch is a validated enrollment create or update call.
type Batch struct {
	Items []*Item
	// Many is set when the body was a list.
	Many bool
	// Bundle is set when a single object body carried bundle_id.
	Bundle bool
}

// ListResponse reports whether the response must be a list.
func (b *Batch) ListResponse() bool {
	return b.Many || b.Bundle
}

// Document is a processed enrollment with the backend notes about it.
type Document struct {
	*types.Enrollment
	Messages []string `json:"messages,omitempty"`
}

// BatchResult holds the outcome of every item in input order. A bundle item
// contributes one entry per course.
type BatchResult struct {
	Entries []interface{}
	Failed  bool

	list bool
}

// Status is 202 when any item failed, 200 otherwise.
func (r *BatchResult) Status() int {
	if r.Failed {
		return http.StatusAccepted
	}
	return http.StatusOK
}

// Payload is the response body, a list or the single entry.
func (r *BatchResult) Payload() interface{} {
	if r.list {
		return r.Entries
	}
	if len(r.Entries) == 0 {
		return nil
	}
	return r.Entries[0]
}

type itemFunc func(context.Context, *types.EnrollmentRequest) ([]Document, error)

// process runs fn for each item. Items failing with an API error are echoed
// with the error detail, any other error aborts the batch.
func (b *Batch) process(ctx context.Context, fn itemFunc) (*BatchResult, error) {
	result := &BatchResult{Entries: make([]interface{}, 0, len(b.Items)), list: b.ListResponse()}

	for _, item := range b.Items {
		docs, err := fn(ctx, &item.Request)
		if err == nil {
			for _, d := range docs {
				result.Entries = append(result.Entries, d)
			}
			continue
		}

		apiErr, ok := apierrors.As(err)
		if !ok {
			return nil, err
		}

		result.Failed = true
		result.Entries = append(result.Entries, item.echo(apiErr.Detail))
	}

	return result, nil
}

// echo returns the validated item: flags as booleans, unknown keys dropped.
// Known keys sent with empty values are kept as sent.
func (i *Item) echo(detail interface{}) map[string]interface{} {
	decoded := map[string]json.RawMessage{}
	if data, err := json.Marshal(&i.Request); err == nil {
		_ = json.Unmarshal(data, &decoded)
	}

	out := make(map[string]interface{}, len(requestFields)+1)
	for _, k := range requestFields {
		raw, sent := i.raw[k]
		if !sent {
			continue
		}
		if v, ok := decoded[k]; ok {
			out[k] = v
			continue
		}
		out[k] = raw
	}
	out[errorField] = map[string]interface{}{"detail": detail}
	return out
}

// ParseBatch checks the shape of the whole body before any item is
// processed: an object or a list of objects whose fields have the right
// types and whose attributes are complete. An empty list is a batch of no
// items.
func ParseBatch(data []byte, v *validation.Validator) (*Batch, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, apierrors.NewValidationError("No data provided", "enrollments.ParseBatch")
	}

	batch := new(Batch)

	var raws []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, validation.DecodeError(err, "enrollments.ParseBatch")
		}
		batch.Many = true
	case '{':
		raws = []json.RawMessage{data}
	default:
		var decoded interface{}
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil, validation.DecodeError(err, "enrollments.ParseBatch")
		}
		return nil, apierrors.NewValidationError(invalidData(decoded), "enrollments.ParseBatch")
	}

	errs := apierrors.FieldErrors{}
	for idx, raw := range raws {
		item, err := parseItem(raw, v)
		if err != nil {
			if !batch.Many {
				return nil, err
			}
			prefixErrors(errs, idx, err)
			continue
		}
		batch.Items = append(batch.Items, item)
	}

	if len(errs) > 0 {
		return nil, apierrors.NewValidationError(errs, "enrollments.ParseBatch")
	}

	if !batch.Many {
		_, batch.Bundle = batch.Items[0].raw["bundle_id"]
	}

	return batch, nil
}

func parseItem(raw json.RawMessage, v *validation.Validator) (*Item, error) {
	item := new(Item)

	if err := json.Unmarshal(raw, &item.raw); err != nil || item.raw == nil {
		var decoded interface{}
		if json.Unmarshal(raw, &decoded) != nil {
			return nil, apierrors.NewValidationError("Invalid request body", "enrollments.parseItem")
		}
		return nil, apierrors.NewValidationError(invalidData(decoded), "enrollments.parseItem")
	}

	if err := json.Unmarshal(raw, &item.Request); err != nil {
		return nil, validation.DecodeError(err, "enrollments.parseItem")
	}

	if err := v.Struct(&item.Request, "enrollments.parseItem"); err != nil {
		return nil, err
	}

	return item, nil
}

// prefixErrors files the errors of a list item under its index.
func prefixErrors(errs apierrors.FieldErrors, idx int, err error) {
	key := strconv.Itoa(idx)

	apiErr, ok := apierrors.As(err)
	if !ok {
		errs[key] = append(errs[key], err.Error())
		return
	}

	fields, ok := apiErr.Detail.(apierrors.FieldErrors)
	if !ok {
		errs[key] = append(errs[key], apiErr.Message())
		return
	}

	for name, msgs := range fields {
		errs[key+"."+name] = append(errs[key+"."+name], msgs...)
	}
}

func invalidData(v interface{}) string {
	kind := "null"
	switch v.(type) {
	case string:
		kind = "str"
	case float64:
		kind = "number"
	case bool:
		kind = "bool"
	case []interface{}:
		kind = "list"
	}
	return fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", kind)
}
