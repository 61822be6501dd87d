// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/momeni/clean-sales/pkg/core/repo"
	"github.com/momeni/clean-sales/pkg/core/scram"
)

func (q *queryer) DropIfExists(ctx context.Context, schema string) error {
	_, err := q.Exec(ctx, "DROP SCHEMA IF EXISTS "+ident(schema)+" CASCADE")
	return err
}

func (q *queryer) CreateSchema(ctx context.Context, schema string) error {
	_, err := q.Exec(ctx, "CREATE SCHEMA "+ident(schema))
	return err
}

func (q *queryer) CreateRoleIfNotExists(
	ctx context.Context, role repo.Role,
) error {
	var n int64
	err := q.GORM(ctx).Raw(
		"SELECT COUNT(*) FROM pg_roles WHERE rolname=?",
		string(role+q.roleSuffix),
	).Scan(&n).Error
	if err != nil {
		return fmt.Errorf("querying pg_roles: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err = q.Exec(ctx, "CREATE ROLE "+q.roleIdent(role)+" LOGIN")
	return err
}

func (q *queryer) GrantPrivileges(
	ctx context.Context, schema string, role repo.Role,
) error {
	_, err := q.Exec(ctx, fmt.Sprintf(
		"GRANT ALL ON SCHEMA %s TO %s", ident(schema), q.roleIdent(role),
	))
	return err
}

func (q *queryer) SetSearchPath(
	ctx context.Context, schema string, role repo.Role,
) error {
	_, err := q.Exec(ctx, fmt.Sprintf(
		"ALTER ROLE %s SET search_path TO %s", q.roleIdent(role), ident(schema),
	))
	return err
}

// ChangePasswords sends the SCRAM hash of passwords to the DBMS, so
// they are not logged or stored in plaintext. ALTER ROLE does not
// accept parameters, hence, the hash is quoted as a literal.
func (q *queryer) ChangePasswords(
	ctx context.Context, roles []repo.Role, passwords []string,
) error {
	if len(roles) != len(passwords) {
		return fmt.Errorf(
			"roles (%d) and passwords (%d) do not match",
			len(roles), len(passwords),
		)
	}
	for i, role := range roles {
		if passwords[i] == "" {
			return errors.New("empty password for role " + string(role))
		}
		h, err := q.hasher.Hash(passwords[i], "", scram.DefaultIterations)
		if err != nil {
			return fmt.Errorf("hashing password of %q: %w", role, err)
		}
		_, err = q.Exec(ctx, fmt.Sprintf(
			"ALTER ROLE %s WITH PASSWORD '%s'",
			q.roleIdent(role), strings.ReplaceAll(h, "'", "''"),
		))
		if err != nil {
			return fmt.Errorf("altering role %q: %w", role, err)
		}
	}
	return nil
}
