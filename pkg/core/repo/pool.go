// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo specifies the persistence gateway of the use cases.
// Use cases acquire a Conn from a Pool (and a Tx from a Conn) and pass
// them to repositories, so repositories stay stateless and one use
// case may run multiple repositories in a single transaction.
package repo

import "context"

// ConnHandler is a function which uses a connection. The connection
// is released as soon as the handler returns.
type ConnHandler func(context.Context, Conn) error

// Pool represents a database connection pool.
type Pool interface {
	// Conn acquires a connection and passes it to handler, returning
	// its error.
	Conn(ctx context.Context, handler ConnHandler) error

	// Close closes all connections of the pool.
	Close() error
}
