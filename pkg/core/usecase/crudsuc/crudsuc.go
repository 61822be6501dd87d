// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package crudsuc contains the generic CRUD UseCase which supports
// finding, inserting, updating, and deleting entities of one type.
// Type specific business rules are not implemented here. Instead, they
// are injected as hooks (running in the same transaction as the write
// operation) and as optional field validators.
package crudsuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/momeni/clean-sales/pkg/core/cerr"
	"github.com/momeni/clean-sales/pkg/core/constraint"
	"github.com/momeni/clean-sales/pkg/core/log"
	"github.com/momeni/clean-sales/pkg/core/model"
	"github.com/momeni/clean-sales/pkg/core/repo"
	"github.com/momeni/clean-sales/pkg/core/validation"
)

// Hook is a business rule which runs in the transaction of a write
// operation. Returning an error aborts that operation and rolls back
// its transaction.
type Hook[E model.Entity] func(ctx context.Context, tx repo.Tx, e E) error

// UseCase represents a CRUD use case for E entities. It holds a
// database connection pool, the E entities repository instance (to be
// guided with the DB pool), and the injected business rules.
type UseCase[E model.Entity] struct {
	pool repo.Pool
	repo repo.Entities[E]

	typeName     string
	validator    validation.Optional[E]
	beforeSave   []Hook[E]
	beforeDelete []Hook[E]
	afterDelete  []Hook[E]
}

// New instantiates a CRUD use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New[E model.Entity](
	p repo.Pool, r repo.Entities[E], opts ...Option[E],
) (*UseCase[E], error) {
	uc := &UseCase[E]{pool: p, repo: r}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.typeName == "" {
		var zero E // a nil pointer, which is enough for TypeName
		uc.typeName = zero.TypeName()
	}
	return uc, nil
}

// TypeName returns the human-readable name of E entities.
func (uc *UseCase[E]) TypeName() string {
	return uc.typeName
}

// FindByID finds the id entity. The found flag is false (and err is
// nil) if no such entity exists. Entities have positive identities, so
// other ids are not looked up.
func (uc *UseCase[E]) FindByID(ctx context.Context, id int64) (
	e E, found bool, err error,
) {
	if id <= 0 {
		return e, false, nil
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		e, found, err = uc.repo.Conn(c).FindByID(ctx, id)
		return err
	})
	if err != nil {
		var zero E
		return zero, false, err
	}
	return e, found, nil
}

// FindAll lists all entities.
func (uc *UseCase[E]) FindAll(ctx context.Context) (es []E, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		es, err = uc.repo.Conn(c).FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return es, nil
}

// Insert validates the e entity, clears its identity, runs the before
// save hooks, and saves it in one transaction. The created entity is
// returned. A violated database constraint is reported as a
// ConstraintConflict error with a human-readable message.
func (uc *UseCase[E]) Insert(ctx context.Context, e E) (E, error) {
	if err := uc.Validate(ctx, e); err != nil {
		var zero E
		return zero, err
	}
	e.SetID(0)
	saved, err := uc.Save(ctx, e)
	if err != nil {
		var zero E
		return zero, translateIntegrityViolation(ctx, err)
	}
	log.Info(ctx, "entity is created", log.Entity(uc.typeName, saved.GetID()))
	return saved, nil
}

// Update checks that e has the same identity as given by the id
// argument, validates it, runs the before save hooks, and saves it in
// one transaction. An identity mismatch is reported before touching
// the database. A missing entity is reported as a NotFound error
// and a violated database constraint as a ConstraintConflict error.
func (uc *UseCase[E]) Update(ctx context.Context, id int64, e E) error {
	if eid := e.GetID(); eid != id {
		return cerr.IdentityMismatch(fmt.Errorf(
			"The provided ID (%d) does not match the %s ID (%d)",
			id, uc.typeName, eid,
		))
	}
	if id <= 0 {
		return uc.notFound()
	}
	if err := uc.Validate(ctx, e); err != nil {
		return err
	}
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			_, found, err := uc.repo.Tx(tx).FindByID(ctx, id)
			if err != nil {
				return cerr.Unexpected(fmt.Errorf(
					"finding %s: %w", uc.typeName, err,
				))
			}
			if !found {
				return uc.notFound()
			}
			_, err = uc.save(ctx, tx, e)
			return err
		})
	})
	return translateIntegrityViolation(ctx, err)
}

// Save runs the before save hooks and saves e in one transaction,
// inserting or updating it based on its lifecycle flag. It neither
// validates e, nor translates the integrity violation errors, so
// callers may inspect the *repo.IntegrityViolation themselves.
func (uc *UseCase[E]) Save(ctx context.Context, e E) (saved E, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			saved, err = uc.save(ctx, tx, e)
			return err
		})
	})
	if err != nil {
		var zero E
		return zero, err
	}
	return saved, nil
}

func (uc *UseCase[E]) save(ctx context.Context, tx repo.Tx, e E) (E, error) {
	for _, h := range uc.beforeSave {
		if err := h(ctx, tx, e); err != nil {
			var zero E
			return zero, err
		}
	}
	return uc.repo.Tx(tx).Save(ctx, e)
}

// DeleteByID deletes the id entity after running the before delete
// hooks (which may veto the deletion). The deleted flag is false if
// no such entity exists. A violated database constraint (e.g., when
// another entity refers to the deleting one) is reported as a
// ConstraintConflict error.
func (uc *UseCase[E]) DeleteByID(ctx context.Context, id int64) (
	deleted bool, err error,
) {
	if id <= 0 {
		return false, nil
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.repo.Tx(tx)
			e, found, err := q.FindByID(ctx, id)
			if err != nil {
				return cerr.Unexpected(fmt.Errorf(
					"finding %s: %w", uc.typeName, err,
				))
			}
			if !found {
				return nil
			}
			for _, h := range uc.beforeDelete {
				if err := h(ctx, tx, e); err != nil {
					return err
				}
			}
			if err := q.Delete(ctx, e); err != nil {
				return err
			}
			for _, h := range uc.afterDelete {
				if err := h(ctx, tx, e); err != nil {
					return err
				}
			}
			deleted = true
			return nil
		})
	})
	if err != nil {
		return false, translateIntegrityViolation(ctx, err)
	}
	if deleted {
		log.Info(ctx, "entity is deleted", log.Entity(uc.typeName, id))
	}
	return deleted, nil
}

// Validate runs the field validator of E entities (if any) and
// aggregates all of its reported codes as one ValidationConflict.
func (uc *UseCase[E]) Validate(ctx context.Context, e E) error {
	errs := uc.validator.Validate(ctx, e)
	if len(errs) == 0 {
		return nil
	}
	return cerr.ValidationConflict(errors.New(validation.JoinCodes(errs)))
}

func (uc *UseCase[E]) notFound() error {
	return cerr.NotFoundf("%s not found", uc.typeName)
}

// translateIntegrityViolation converts an *repo.IntegrityViolation in
// the err chain to a ConstraintConflict error, keeping other errors
// unchanged.
func translateIntegrityViolation(ctx context.Context, err error) error {
	iv, ok := repo.AsIntegrityViolation(err)
	if !ok {
		return err
	}
	msg := constraint.TranslateOrFallback(iv.Diagnostic())
	log.Debug(ctx, "integrity violation is translated",
		slog.String("constraint", iv.Constraint),
		slog.String("message", msg),
	)
	return cerr.ConstraintConflict(&translatedError{msg: msg, err: iv})
}

type translatedError struct {
	msg string
	err error
}

func (te *translatedError) Error() string {
	return te.msg
}

func (te *translatedError) Unwrap() error {
	return te.err
}
