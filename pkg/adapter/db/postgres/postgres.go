// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres implements the repo.Pool, repo.Conn, and repo.Tx
// interfaces for a PostgreSQL database using GORM and the pgx driver.
// Repository packages (e.g., entityrp) unwrap the Conn and Tx types
// in order to run their queries with GORM.
package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/clean-sales/pkg/core/repo"
)

// integrityViolationClass is the SQLSTATE class of errors which are
// caused by violated integrity constraints, e.g., 23503 for foreign
// keys and 23505 for unique constraints.
const integrityViolationClass = "23"

// IntegrityViolation converts err to a *repo.IntegrityViolation if it
// is caused by a violated integrity constraint. Other errors (and nil)
// are returned unchanged.
func IntegrityViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if !strings.HasPrefix(pgErr.Code, integrityViolationClass) {
		return err
	}
	msg := pgErr.Message
	if pgErr.Detail != "" {
		msg += ": " + pgErr.Detail
	}
	return &repo.IntegrityViolation{
		Message:    msg,
		Constraint: pgErr.ConstraintName,
		Err:        err,
	}
}
