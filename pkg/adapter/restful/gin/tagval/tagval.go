// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package tagval implements the validation.Structs interface using the
// go-playground validator package, checking the `validate` struct tags
// of the entities. Each violated tag is reported with a code like
// District.Name.required which is formed by the struct namespace of
// the violating field and the violated tag name.
package tagval

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/momeni/clean-sales/pkg/core/log"
	"github.com/momeni/clean-sales/pkg/core/validation"
)

// InvalidCode is reported when a non-struct value is validated.
const InvalidCode = "invalid"

// Validator checks struct fields based on their `validate` tags.
// It caches the parsed tags per type and may be used concurrently.
type Validator struct {
	v *validator.Validate
}

// New instantiates a Validator.
func New() *Validator {
	return &Validator{
		v: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ValidateStruct validates s fields and returns all violations.
func (tv *Validator) ValidateStruct(
	ctx context.Context, s any,
) []validation.FieldError {
	err := tv.v.StructCtx(ctx, s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		log.Warn(ctx, "struct validation failed", log.Err("err", err))
		return []validation.FieldError{{Code: InvalidCode}}
	}
	errs := make([]validation.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, validation.FieldError{
			Field: fe.StructField(),
			Code:  fe.StructNamespace() + "." + fe.Tag(),
		})
	}
	return errs
}
