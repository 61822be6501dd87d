// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package validation_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/momeni/clean-sales/pkg/core/validation"
	"github.com/stretchr/testify/assert"
)

type counting struct {
	calls int
}

func (c *counting) Validate(_ context.Context, s string) []validation.FieldError {
	c.calls++
	if s == "" {
		return []validation.FieldError{{Field: "s", Code: "s.required"}}
	}
	return nil
}

func TestNoneAcceptsEverything(t *testing.T) {
	var zero validation.Optional[string]
	assert.False(t, zero.IsSome())
	assert.Empty(t, zero.Validate(context.Background(), ""))
	assert.Empty(t, validation.None[string]().Validate(context.Background(), ""))
}

func TestSomeCreatesValidatorPerCall(t *testing.T) {
	var created []*counting
	o := validation.Some(func() validation.Validator[string] {
		c := &counting{}
		created = append(created, c)
		return c
	})
	ctx := context.Background()
	assert.Len(t, o.Validate(ctx, ""), 1)
	assert.Empty(t, o.Validate(ctx, "x"))
	if assert.Len(t, created, 2) {
		assert.Equal(t, 1, created[0].calls)
		assert.Equal(t, 1, created[1].calls)
	}
}

func TestChain(t *testing.T) {
	required := validation.Some(func() validation.Validator[string] {
		return &counting{}
	})
	short := validation.Some(func() validation.Validator[string] {
		return validation.Func[string](func(_ context.Context, s string) []validation.FieldError {
			if len(s) < 3 {
				return []validation.FieldError{{Field: "s", Code: "s.min"}}
			}
			return nil
		})
	})
	assert.False(t, validation.Chain(validation.None[string]()).IsSome())
	c := validation.Chain(required, validation.None[string](), short)
	errs := c.Validate(context.Background(), "")
	assert.Equal(t, "s.required;\ns.min", validation.JoinCodes(errs))
}

func ExampleJoinCodes() {
	fmt.Println(validation.JoinCodes([]validation.FieldError{
		{Field: "Name", Code: "district.name.required"},
		{Field: "Abbreviation", Code: "district.abbreviation.min"},
	}))
	// Output:
	// district.name.required;
	// district.abbreviation.min
}
