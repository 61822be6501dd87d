// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"

	"github.com/momeni/clean-sales/pkg/core/repo"
)

// Settings is what the InitDBUseCase expects from the configuration
// settings. It is implemented by the config adapter, so this package
// does not depend on the configuration file format or the database
// driver.
type Settings interface {
	// ConnectionPool connects to the database as the r role. Role
	// passwords are kept in pgpass formatted files:
	//
	//	host:port:dbname:role:password
	//
	// If the renewed passwords file is used for the connection, it
	// replaces the main passwords file before returning.
	ConnectionPool(ctx context.Context, r repo.Role) (repo.Pool, error)

	// ConnectionInfo returns the database name, host, and port, so
	// they may be logged.
	ConnectionInfo() (dbName, host string, port int)

	// NewSchemaRepo instantiates a Schema repository which suffixes
	// the role names in the same way as ConnectionPool.
	NewSchemaRepo() repo.Schema

	// SchemaInitializer wraps tx, so the sales tables can be created
	// and filled in it.
	SchemaInitializer(tx repo.Tx) (repo.SchemaInitializer, error)

	// RenewPasswords generates new passwords for roles, keeps them in
	// a temporary passwords file, and calls change to apply them in
	// the database. The returned finalizer must be called after the
	// change transaction is committed, so the temporary file replaces
	// the main one.
	RenewPasswords(
		ctx context.Context,
		change func(
			ctx context.Context,
			roles []repo.Role,
			passwords []string,
		) error,
		roles ...repo.Role,
	) (finalizer func() error, err error)
}
