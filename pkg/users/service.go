// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package users

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/canonical/lms-bridge/internal/apierrors"
	"github.com/canonical/lms-bridge/internal/backends"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/internal/types"
	"github.com/canonical/lms-bridge/internal/validation"
	"github.com/canonical/lms-bridge/pkg/userquery"
)

const (
	blankMessage = "This field may not be blank."
	groupsField  = "groups"
)

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	backend      backends.UserBackend
	helper       *userquery.Helper
	validator    *validation.Validator
	allowListAll bool

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *Service) CreateUser(ctx context.Context, site string, req *CreateRequest) (userquery.UserDocument, error) {
	ctx, span := s.tracer.Start(ctx, "users.Service.CreateUser")
	defer span.End()

	settings := s.helper.Settings(site)

	fieldErrs := apierrors.FieldErrors{}
	if err := s.validator.Struct(req, "users.CreateUser"); err != nil {
		apiErr, ok := apierrors.As(err)
		if !ok {
			return nil, err
		}
		if fe, ok := apiErr.Detail.(apierrors.FieldErrors); ok {
			fieldErrs = fe
		}
	}

	extra := make(map[string]string)
	for _, name := range settings.ExtraFields() {
		value, ok := req.Fields[name]
		if settings.IsRequired(name) && strings.TrimSpace(value) == "" {
			fieldErrs[name] = append(fieldErrs[name], validation.RequiredMessage)
			continue
		}
		if ok {
			extra[name] = value
		}
	}

	if len(fieldErrs) > 0 {
		return nil, apierrors.NewValidationError(fieldErrs, "users.CreateUser")
	}

	// unknown groups must fail before the account exists
	if err := s.helper.Groups().Check(ctx, req.Groups); err != nil {
		return nil, err
	}

	user, messages, err := s.backend.CreateUser(ctx, &types.UserCreate{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		FullName:     req.FullName,
		ActivateUser: bool(req.ActivateUser),
		SkipPassword: bool(req.SkipPassword),
		Site:         site,
		Extra:        extra,
	})
	if err != nil {
		return nil, err
	}

	if len(req.Groups) > 0 {
		if err := s.helper.Groups().Apply(ctx, user, types.GroupEdit{Add: req.Groups}); err != nil {
			return nil, err
		}
	}

	doc, err := s.helper.SerializeFull(ctx, user)
	if err != nil {
		return nil, err
	}
	if len(messages) > 0 {
		if err := doc.Set("messages", messages); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func (s *Service) GetUser(ctx context.Context, q types.UserQuery) (userquery.UserDocument, error) {
	ctx, span := s.tracer.Start(ctx, "users.Service.GetUser")
	defer span.End()

	user, err := s.helper.Resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	return s.helper.Serialize(ctx, user, q.Site)
}

func (s *Service) ListUsers(ctx context.Context, site string) ([]userquery.UserDocument, error) {
	ctx, span := s.tracer.Start(ctx, "users.Service.ListUsers")
	defer span.End()

	if !s.allowListAll {
		return nil, apierrors.NewValidationError(userquery.MissingIdentityMessage, "users.ListUsers")
	}

	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]userquery.UserDocument, 0, len(users))
	for _, u := range users {
		doc, err := s.helper.Serialize(ctx, u, site)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func (s *Service) UpdateUser(ctx context.Context, q types.UserQuery, fields map[string]json.RawMessage) (userquery.UserDocument, error) {
	ctx, span := s.tracer.Start(ctx, "users.Service.UpdateUser")
	defer span.End()

	user, err := s.helper.Resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	edit, err := groupEdit(fields)
	if err != nil {
		return nil, err
	}

	update, err := s.buildUpdate(q.Site, fields)
	if err != nil {
		return nil, err
	}

	if err := s.helper.Groups().Check(ctx, append(append([]string{}, edit.Add...), edit.Remove...)); err != nil {
		return nil, err
	}

	updated, err := s.backend.UpdateUser(ctx, user, update)
	if err != nil {
		return nil, err
	}

	if !edit.Empty() {
		if err := s.helper.Groups().Apply(ctx, updated, edit); err != nil {
			return nil, err
		}
	}

	return s.helper.Serialize(ctx, updated, q.Site)
}

// buildUpdate keeps the safe fields of the site, anything else is ignored.
func (s *Service) buildUpdate(site string, fields map[string]json.RawMessage) (*types.UserUpdate, error) {
	settings := s.helper.Settings(site)
	text := validation.TextFields(fields)

	update := &types.UserUpdate{Fields: map[string]string{}}
	fieldErrs := apierrors.FieldErrors{}

	for name, raw := range fields {
		if name == groupsField || !settings.IsSafe(name) {
			continue
		}

		switch name {
		case "is_active":
			var active types.FlexBool
			if err := json.Unmarshal(raw, &active); err != nil {
				fieldErrs[name] = append(fieldErrs[name], "Must be a valid boolean.")
				continue
			}
			v := bool(active)
			update.IsActive = &v
		case "password":
			password, ok := text[name]
			if !ok || password == "" {
				fieldErrs[name] = append(fieldErrs[name], blankMessage)
				continue
			}
			update.Password = &password
		default:
			value, ok := text[name]
			if !ok {
				fieldErrs[name] = append(fieldErrs[name], "Not a valid string.")
				continue
			}
			if (name == "fullname" || settings.IsRequired(name)) && strings.TrimSpace(value) == "" {
				fieldErrs[name] = append(fieldErrs[name], blankMessage)
				continue
			}
			if name == "year_of_birth" {
				var p types.Profile
				if err := p.Set(name, value); err != nil {
					fieldErrs[name] = append(fieldErrs[name], "A valid integer is required.")
					continue
				}
			}
			update.Fields[name] = value
		}
	}

	if len(fieldErrs) > 0 {
		return nil, apierrors.NewValidationError(fieldErrs, "users.UpdateUser")
	}

	return update, nil
}

func groupEdit(fields map[string]json.RawMessage) (types.GroupEdit, error) {
	var edit types.GroupEdit

	raw, ok := fields[groupsField]
	if !ok || string(raw) == "null" {
		return edit, nil
	}

	if err := json.Unmarshal(raw, &edit); err != nil {
		return edit, apierrors.NewFieldError(groupsField, "Expected a dictionary with add and remove lists.", "users.UpdateUser")
	}

	return edit, nil
}

func NewService(backend backends.UserBackend, helper *userquery.Helper, validator *validation.Validator, allowListAll bool, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	s := new(Service)

	s.backend = backend
	s.helper = helper
	s.validator = validator
	s.allowListAll = allowListAll

	s.monitor = monitor
	s.tracer = tracer
	s.logger = logger

	return s
}
