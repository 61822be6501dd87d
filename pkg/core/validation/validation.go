// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package validation defines the field-level validation contract of
// entities. A validator is optional per entity type and its absence
// (None) means that every entity is valid. When present (Some), a new
// Validator is created for each validation, so no state may leak from
// one request to another.
package validation

import (
	"context"
	"strings"
)

// CodesSeparator joins the codes of all failed fields when they are
// reported as one error message.
const CodesSeparator = ";\n"

// FieldError describes one failed field rule.
// The Code is a machine-readable identifier such as
// "customer.socialSecurityNumber.invalid".
type FieldError struct {
	Field string
	Code  string
}

// Validator checks an entity and returns all of its field errors.
// An empty result means that the entity is valid.
type Validator[E any] interface {
	Validate(ctx context.Context, e E) []FieldError
}

// Func adapts a function to the Validator interface.
type Func[E any] func(ctx context.Context, e E) []FieldError

// Validate calls f.
func (f Func[E]) Validate(ctx context.Context, e E) []FieldError {
	return f(ctx, e)
}

// Optional holds an optional Validator factory.
// Its zero value is equivalent to None.
type Optional[E any] struct {
	factory func() Validator[E]
}

// Some wraps the factory of a Validator. The factory is called once
// per validation.
func Some[E any](factory func() Validator[E]) Optional[E] {
	return Optional[E]{factory: factory}
}

// None indicates that all E entities are valid.
func None[E any]() Optional[E] {
	return Optional[E]{}
}

// IsSome reports if o holds a validator factory.
func (o Optional[E]) IsSome() bool {
	return o.factory != nil
}

// Validate creates a fresh Validator (if any) and uses it for checking
// e. A None instance returns no errors.
func (o Optional[E]) Validate(ctx context.Context, e E) []FieldError {
	if o.factory == nil {
		return nil
	}
	return o.factory().Validate(ctx, e)
}

// Chain combines multiple optional validators. All of them run and
// their errors are concatenated in order. The result is None when all
// of the given validators are None.
func Chain[E any](opts ...Optional[E]) Optional[E] {
	var some []Optional[E]
	for _, o := range opts {
		if o.IsSome() {
			some = append(some, o)
		}
	}
	switch len(some) {
	case 0:
		return None[E]()
	case 1:
		return some[0]
	}
	return Some(func() Validator[E] {
		return Func[E](func(ctx context.Context, e E) (errs []FieldError) {
			for _, o := range some {
				errs = append(errs, o.Validate(ctx, e)...)
			}
			return errs
		})
	})
}

// JoinCodes returns the codes of errs joined by CodesSeparator.
func JoinCodes(errs []FieldError) string {
	codes := make([]string, 0, len(errs))
	for _, fe := range errs {
		codes = append(codes, fe.Code)
	}
	return strings.Join(codes, CodesSeparator)
}

// Structs validates arbitrary structs, e.g., based on their field tags.
// Implementations must be safe for concurrent use.
type Structs interface {
	ValidateStruct(ctx context.Context, s any) []FieldError
}

// OfStructs adapts s in order to validate E entities.
// A nil s results in None.
func OfStructs[E any](s Structs) Optional[E] {
	if s == nil {
		return None[E]()
	}
	return Some(func() Validator[E] {
		return Func[E](func(ctx context.Context, e E) []FieldError {
			return s.ValidateStruct(ctx, e)
		})
	})
}
