// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package crudsuc

import (
	"errors"

	"github.com/momeni/clean-sales/pkg/core/model"
	"github.com/momeni/clean-sales/pkg/core/validation"
)

// Option is a functional option for the CRUD use case.
type Option[E model.Entity] func(uc *UseCase[E]) error

// WithTypeName option overrides the human-readable name of E entities
// which is taken from the E.TypeName method by default.
func WithTypeName[E model.Entity](name string) Option[E] {
	return func(uc *UseCase[E]) error {
		if name == "" {
			return errors.New("type name is empty")
		}
		if uc.typeName != "" {
			return errors.New("type name is already configured")
		}
		uc.typeName = name
		return nil
	}
}

// WithValidator option configures the field validator of E entities.
// It may be passed once, so multiple validators must be combined with
// the validation.Chain function beforehand.
func WithValidator[E model.Entity](v validation.Optional[E]) Option[E] {
	return func(uc *UseCase[E]) error {
		if uc.validator.IsSome() {
			return errors.New("validator is already configured")
		}
		uc.validator = v
		return nil
	}
}

// WithBeforeSave option adds a hook which runs before inserting or
// updating an entity. Hooks run in the order of their options.
func WithBeforeSave[E model.Entity](h Hook[E]) Option[E] {
	return func(uc *UseCase[E]) error {
		if h == nil {
			return errors.New("nil before save hook")
		}
		uc.beforeSave = append(uc.beforeSave, h)
		return nil
	}
}

// WithBeforeDelete option adds a hook which runs before deleting an
// entity and may veto its deletion by returning an error.
func WithBeforeDelete[E model.Entity](h Hook[E]) Option[E] {
	return func(uc *UseCase[E]) error {
		if h == nil {
			return errors.New("nil before delete hook")
		}
		uc.beforeDelete = append(uc.beforeDelete, h)
		return nil
	}
}

// WithAfterDelete option adds a hook which runs after deleting an
// entity, in the same transaction.
func WithAfterDelete[E model.Entity](h Hook[E]) Option[E] {
	return func(uc *UseCase[E]) error {
		if h == nil {
			return errors.New("nil after delete hook")
		}
		uc.afterDelete = append(uc.afterDelete, h)
		return nil
	}
}
