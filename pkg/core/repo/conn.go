// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// TxHandler is a function which runs in a transaction. Returning a
// non-nil error (or panicking) rolls back the transaction, otherwise,
// it will be committed.
type TxHandler func(context.Context, Tx) error

// Conn represents a database connection with auto-committed
// statements which may also begin a transaction.
type Conn interface {
	Queryer

	// Tx begins a transaction and calls handler with it.
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn method prevents a non-Conn object (such as a Tx) to
	// mistakenly implement the Conn interface.
	IsConn()
}
