// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package entityrp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/momeni/clean-sales/pkg/adapter/db/postgres"
	"github.com/momeni/clean-sales/pkg/core/model"
	"gorm.io/gorm"
)

// Ptr is the type constraint of entity types, as pointers to their
// T structs, so new instances may be created for GORM.
type Ptr[T any] interface {
	*T
	model.Entity
}

// FindByID finds the id entity, preloading its configured nested
// references. A missing entity is reported by a false found flag.
func FindByID[T any, E Ptr[T], Q postgres.Queryer](
	ctx context.Context, q Q, r *Repo[T, E], id int64,
) (E, bool, error) {
	e := E(new(T))
	err := r.preload(q.GORM(ctx)).Take(e, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("query: %w", err)
	}
	return e, true, nil
}

// FindAll lists all entities ordered by their identity.
func FindAll[T any, E Ptr[T], Q postgres.Queryer](
	ctx context.Context, q Q, r *Repo[T, E],
) ([]E, error) {
	var es []E
	err := r.preload(q.GORM(ctx)).Order("id").Find(&es).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return es, nil
}

// Save inserts or updates e (based on its identity) without its
// omitted associations. Thereafter, e is loaded again, so its database
// generated fields and nested references are filled.
func Save[T any, E Ptr[T], Q postgres.Queryer](
	ctx context.Context, q Q, r *Repo[T, E], e E,
) (E, error) {
	if rs, ok := any(e).(model.ReferenceSyncer); ok {
		rs.SyncReferences()
	}
	gdb := q.GORM(ctx)
	if len(r.omits) > 0 {
		gdb = gdb.Omit(r.omits...)
	}
	if err := gdb.Save(e).Error; err != nil {
		return nil, fmt.Errorf("saving: %w", postgres.IntegrityViolation(err))
	}
	saved, found, err := FindByID(ctx, q, r, e.GetID())
	switch {
	case err != nil:
		return nil, fmt.Errorf("reloading: %w", err)
	case !found:
		return nil, fmt.Errorf("reloading: %s %d vanished", e.TypeName(), e.GetID())
	}
	return saved, nil
}

// Delete removes e and its configured children associations.
func Delete[T any, E Ptr[T], Q postgres.Queryer](
	ctx context.Context, q Q, r *Repo[T, E], e E,
) error {
	gdb := q.GORM(ctx)
	if len(r.children) > 0 {
		gdb = gdb.Select(r.children)
	}
	if err := gdb.Delete(e).Error; err != nil {
		return fmt.Errorf("deleting: %w", postgres.IntegrityViolation(err))
	}
	return nil
}

// FindByNameContaining lists entities which their name column contains
// name, ignoring the letter cases. The LIKE wildcards of name are
// matched literally.
func FindByNameContaining[T any, E Ptr[T], Q postgres.Queryer](
	ctx context.Context, q Q, r *Repo[T, E], name string,
) ([]E, error) {
	var es []E
	err := r.preload(q.GORM(ctx)).Where(
		"LOWER(name) LIKE ?", "%"+escapeLike(strings.ToLower(name))+"%",
	).Order("id").Find(&es).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return es, nil
}

// FindBy lists entities which match the column = value condition.
// Caller is responsible to pass a trusted column name.
func FindBy[T any, E Ptr[T], Q postgres.Queryer](
	ctx context.Context, q Q, r *Repo[T, E], column string, value any,
) ([]E, error) {
	var es []E
	err := r.preload(q.GORM(ctx)).Where(
		column+" = ?", value,
	).Order("id").Find(&es).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return es, nil
}

// Reserve decreases the amount of productID product by quantity,
// only if it has enough items in stock.
func Reserve[Q postgres.Queryer](
	ctx context.Context, q Q, productID int64, quantity int,
) (bool, error) {
	tt := q.GORM(ctx).Model(&model.Product{}).Where(
		"id = ? AND amount >= ?", productID, quantity,
	).UpdateColumn("amount", gorm.Expr("amount - ?", quantity))
	if err := tt.Error; err != nil {
		return false, fmt.Errorf("reserving: %w", postgres.IntegrityViolation(err))
	}
	return tt.RowsAffected == 1, nil
}

// Release increases the amount of productID product by quantity.
func Release[Q postgres.Queryer](
	ctx context.Context, q Q, productID int64, quantity int,
) error {
	tt := q.GORM(ctx).Model(&model.Product{}).Where(
		"id = ?", productID,
	).UpdateColumn("amount", gorm.Expr("amount + ?", quantity))
	if err := tt.Error; err != nil {
		return fmt.Errorf("releasing: %w", postgres.IntegrityViolation(err))
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
