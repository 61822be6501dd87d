// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"database/sql"

	"github.com/momeni/clean-sales/pkg/core/repo"
	"gorm.io/gorm"
)

// Queryer is the type constraint of the generic query functions of
// repository packages, so they may be used with either a connection
// or a transaction.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer

	GORM(ctx context.Context) *gorm.DB
}

// session holds the *gorm.DB of a Conn or Tx and implements their
// common repo.Queryer methods. Placeholders may be written as ? or
// @name (expanded by GORM) or as $1, $2, etc.
type session struct {
	*gorm.DB
}

// Exec runs sql with args and returns the number of affected rows.
// Without args, sql may contain several semicolon separated statements.
// Violated integrity constraints are reported as *repo.IntegrityViolation.
func (s session) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tt := s.DB.WithContext(ctx).Exec(sql, args...)
	if err := tt.Error; err != nil {
		return 0, IntegrityViolation(err)
	}
	return tt.RowsAffected, nil
}

// Query runs a single sql statement with args and returns its result
// set. No other statement may run on the same session until the
// returned Rows is closed.
func (s session) Query(ctx context.Context, sql string, args ...any) (repo.Rows, error) {
	rows, err := s.DB.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	return rowsAdapter{rows}, nil
}

// GORM returns the wrapped *gorm.DB which operates on ctx.
func (s session) GORM(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

type rowsAdapter struct {
	*sql.Rows
}

// Close ignores the returned error; it is reported by Err() too.
func (ra rowsAdapter) Close() {
	_ = ra.Rows.Close()
}
