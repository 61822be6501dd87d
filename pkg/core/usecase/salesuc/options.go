// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package salesuc

import (
	"errors"
	"time"

	"github.com/momeni/clean-sales/pkg/core/validation"
)

// Option is a functional option for the sales use cases.
type Option func(s *settings) error

// WithStructValidator option configures a validator which checks all
// entities (e.g., based on their field tags) before saving them.
func WithStructValidator(v validation.Structs) Option {
	return func(s *settings) error {
		if v == nil {
			return errors.New("nil struct validator")
		}
		if s.structs != nil {
			return errors.New("struct validator is already configured")
		}
		s.structs = v
		return nil
	}
}

// WithStockReservation option enables the atomic reservation of the
// purchased products. Inserting a purchase decreases the stock of its
// products and marks it as reserved. Deleting a reserved purchase
// increases them again, regardless of this option. Without this option,
// the stock is only checked, so concurrent purchases may oversell.
func WithStockReservation() Option {
	return func(s *settings) error {
		s.reserveStock = true
		return nil
	}
}

// WithClock option replaces the time.Now function which is used for
// filling the missing date time of inserting purchases.
func WithClock(now func() time.Time) Option {
	return func(s *settings) error {
		if now == nil {
			return errors.New("nil clock")
		}
		s.now = now
		return nil
	}
}
