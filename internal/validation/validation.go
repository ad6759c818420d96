// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/canonical/lms-bridge/internal/apierrors"
)

const RequiredMessage = "This field is required."

// Validator checks payload structs and reports failures as field errors
// keyed by their JSON names.
type Validator struct {
	validate *validator.Validate
}

// Struct validates v, the returned error is an apierrors validation error
// carrying apierrors.FieldErrors.
func (v *Validator) Struct(s interface{}, op string) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate payload: %v", err)
	}

	return apierrors.NewValidationError(FieldErrors(verrs), op)
}

// FieldErrors converts validator errors, nested fields use dotted paths
// below the top level struct.
func FieldErrors(verrs validator.ValidationErrors) apierrors.FieldErrors {
	fields := apierrors.FieldErrors{}
	for _, fe := range verrs {
		name := fe.Namespace()
		if i := strings.Index(name, "."); i >= 0 {
			name = name[i+1:]
		}
		fields[name] = append(fields[name], message(fe))
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without", "required_unless":
		return RequiredMessage
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Select one of: %s.", fe.Param())
	default:
		return "Invalid value."
	}
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func NewValidator() *Validator {
	v := new(Validator)

	v.validate = validator.New(validator.WithRequiredStructEnabled())
	v.validate.RegisterTagNameFunc(jsonName)

	return v
}
