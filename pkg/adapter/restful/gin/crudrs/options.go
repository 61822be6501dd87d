// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package crudrs

import (
	"context"

	"github.com/momeni/clean-sales/pkg/core/model"
)

type search[E model.Entity] struct {
	query string
	find  func(ctx context.Context, value string) ([]E, error)
}

type settings[E model.Entity] struct {
	searches []search[E]
}

// Option is a functional option for the Register function.
type Option[E model.Entity] func(s *settings[E])

// WithSearch option makes the listing API to call find (instead of
// listing all entities) when the query parameter is present.
// The first matching search wins if multiple ones are configured.
func WithSearch[E model.Entity](
	query string, find func(ctx context.Context, value string) ([]E, error),
) Option[E] {
	return func(s *settings[E]) {
		s.searches = append(s.searches, search[E]{query: query, find: find})
	}
}
