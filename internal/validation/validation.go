// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validation checks request payloads before they reach the store.
// Struct tags declare the rules; failures aggregate into one client-facing
// message listing every bad field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mllab/labsite/internal/model"
	"github.com/mllab/labsite/internal/util"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Error messages carry the JSON field name, not the Go one.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	must(v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return util.IsValidSlug(fl.Field().String())
	}))
	must(v.RegisterValidation("layout", func(fl validator.FieldLevel) bool {
		return model.IsValidLayout(fl.Field().String())
	}))
	must(v.RegisterValidation("pubyear", func(fl validator.FieldLevel) bool {
		y := fl.Field().Int()
		return y >= model.PublicationYearMin &&
			y <= int64(time.Now().Year()+model.PublicationYearHeadroom)
	}))

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Error is a request validation failure. Its message is safe to return to
// clients.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

// IsValidationError reports whether err came from Struct.
func IsValidationError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// Struct validates s against its tags. All failing fields are folded into a
// single error.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), describe(fe)))
	}
	return &Error{msg: strings.Join(msgs, ", ")}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "slug":
		return "must contain only lowercase letters, digits, and hyphens"
	case "layout":
		return "must be one of " + strings.Join(model.SectionLayouts, ", ")
	case "pubyear":
		return fmt.Sprintf("must be between %d and %d",
			model.PublicationYearMin, time.Now().Year()+model.PublicationYearHeadroom)
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
