// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemarp provides a reification of the repo.Schema interface
// making it possible to create or drop the sales schema and manage
// database user roles.
package schemarp

import (
	"github.com/jackc/pgx/v5"
	"github.com/momeni/clean-sales/pkg/adapter/db/postgres"
	"github.com/momeni/clean-sales/pkg/core/repo"
	"github.com/momeni/clean-sales/pkg/core/scram"
)

// Repo represents a schema management repository.
type Repo struct {
	roleSuffix repo.Role
	hasher     scram.Hasher
}

// New instantiates a schema management Repo struct. All role names
// are suffixed by roleSuffix (if it is not empty), so distinct roles
// may be used by parallel test cases. The hasher is used for computing
// the SCRAM hash of role passwords.
func New(roleSuffix repo.Role, hasher scram.Hasher) *Repo {
	return &Repo{roleSuffix: roleSuffix, hasher: hasher}
}

// Tx unwraps tx, expecting a *postgres.Tx as created by this adapter
// layer. Otherwise, it will panic.
func (schema *Repo) Tx(tx repo.Tx) repo.SchemaQueryer {
	return &queryer{Tx: tx.(*postgres.Tx), Repo: schema}
}

type queryer struct {
	*postgres.Tx
	*Repo
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func (q *queryer) roleIdent(role repo.Role) string {
	return ident(string(role + q.roleSuffix))
}
