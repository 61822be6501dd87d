// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"

	"github.com/momeni/clean-sales/pkg/core/repo"
)

// Conn is the repo.Conn implementation. Its GORM method exposes the
// connection to the repository packages.
type Conn struct {
	session
}

type TxHandler = repo.TxHandler

// Tx begins a transaction and passes it to f. The transaction is
// committed if f returns nil, otherwise (or if f panics), it will be
// rolled back.
func (c *Conn) Tx(ctx context.Context, f TxHandler) (err error) {
	tx := c.GORM(ctx).Begin()
	if err = tx.Error; err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = tx.Rollback().Error
			if err == nil {
				err = fmt.Errorf("panicked: %v", r)
				return
			}
			err = fmt.Errorf("panicked: %v, rollback: %w", r, err)
			return
		}
		if err != nil {
			if err2 := tx.Rollback().Error; err2 != nil {
				err = fmt.Errorf("handler: %w, rollback: %w", err, err2)
				return
			}
			err = fmt.Errorf("handler: %w", err)
			return
		}
		err = tx.Commit().Error
		if err != nil {
			err = fmt.Errorf("commit: %w", IntegrityViolation(err))
		}
	}()
	return f(ctx, &Tx{session{tx}})
}

// IsConn method prevents a non-Conn object (such as a Tx) to
// mistakenly implement the Conn interface.
func (c *Conn) IsConn() {
}
