// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// SchemaInitializer creates the sales tables in an existing database
// schema and fills them with initial data. Each implementation holds
// the database transaction which must be used, so methods do not need
// any argument but the context.
type SchemaInitializer interface {
	// InitDevSchema creates tables and fills them with sample
	// districts, cities, customers, and products which are suitable
	// for a development environment.
	InitDevSchema(ctx context.Context) error

	// InitProdSchema creates empty tables, as suitable for a
	// production environment.
	InitProdSchema(ctx context.Context) error
}

// Schema is the repository which manages the sales schema and the
// database roles during the database initialization. Its operations
// run in a transaction of the admin role, so a half-initialized schema
// or a role without its renewed password never becomes visible.
type Schema interface {
	// Tx unwraps tx as required by the implementation.
	Tx(tx Tx) SchemaQueryer
}

// SchemaQueryer lists the schema and role management operations.
// Schema names must be trusted, since they are not passed as query
// parameters. Role names are suffixed by the role suffix of the
// repository (if any) before use.
type SchemaQueryer interface {
	// DropIfExists drops schema and all of its tables. A missing
	// schema is not an error.
	DropIfExists(ctx context.Context, schema string) error

	// CreateSchema creates schema, which must not exist.
	CreateSchema(ctx context.Context, schema string) error

	// CreateRoleIfNotExists creates role with the LOGIN option and no
	// password, unless it exists already.
	CreateRoleIfNotExists(ctx context.Context, role Role) error

	// GrantPrivileges grants ALL privileges on schema to role.
	GrantPrivileges(ctx context.Context, schema string, role Role) error

	// SetSearchPath makes schema the only search_path entry of role.
	SetSearchPath(ctx context.Context, schema string, role Role) error

	// ChangePasswords sets the passwords[i] password for roles[i].
	// Both slices must have the same length.
	ChangePasswords(
		ctx context.Context, roles []Role, passwords []string,
	) error
}
