// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Role names a database role. Passwords of roles are not part of the
// configuration file and are read from the .pgpass file of the pass
// dir instead, see migrationuc.Settings.ConnectionPool.
type Role string

// Database roles of csweb. Both are suffixed by the configured role
// suffix (if any), so parallel test cases may use distinct roles.
const (
	// AdminRole must be created manually with the SUPERUSER option. It
	// is used only by the db init use cases for recreating the schema,
	// creating the NormalRole, and renewing passwords.
	AdminRole Role = "admin"

	// NormalRole is a normal (unprivileged) role which owns the sales
	// tables. It creates and fills them during the database
	// initialization and serves all CRUD requests afterwards.
	NormalRole Role = "csweb"
)

// SchemaName is the database schema which holds all sales tables. It
// is created by the admin role and owned by the NormalRole.
const SchemaName = "csweb"
