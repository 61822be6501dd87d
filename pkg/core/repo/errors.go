// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"errors"
	"fmt"
)

// IntegrityViolation is returned by repositories when a write operation
// violates a database constraint (e.g., a foreign key or a unique
// constraint). The Message is the raw diagnostic text of the database,
// which may (or may not) embed the violated constraint name. When the
// database reports the constraint name separately, it is kept in the
// Constraint field too.
type IntegrityViolation struct {
	Message    string
	Constraint string
	Err        error
}

func (iv *IntegrityViolation) Error() string {
	if iv.Constraint == "" {
		return fmt.Sprintf("integrity violation: %s", iv.Message)
	}
	return fmt.Sprintf(
		"integrity violation (%s): %s", iv.Constraint, iv.Message,
	)
}

func (iv *IntegrityViolation) Unwrap() error {
	return iv.Err
}

// Diagnostic returns the raw message and the constraint name (if any)
// as one text, ready to be passed to the constraint translator.
func (iv *IntegrityViolation) Diagnostic() string {
	if iv.Constraint == "" {
		return iv.Message
	}
	return iv.Message + " " + iv.Constraint
}

// AsIntegrityViolation finds the first *IntegrityViolation in the err
// chain.
func AsIntegrityViolation(err error) (*IntegrityViolation, bool) {
	var iv *IntegrityViolation
	if errors.As(err, &iv) {
		return iv, true
	}
	return nil, false
}
