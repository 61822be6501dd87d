// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package dbcontainer

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bitcomplete/sqltestutil"
	"github.com/momeni/clean-sales/pkg/adapter/config"
	"github.com/momeni/clean-sales/pkg/adapter/db/postgres"
	"github.com/momeni/clean-sales/pkg/adapter/hash/scram"
	"github.com/momeni/clean-sales/pkg/core/repo"
	corescram "github.com/momeni/clean-sales/pkg/core/scram"
)

// NewSalesDB creates an empty `name` database in the pg container and
// a superuser admin role for it, suffixed by "_"+name, so parallel test
// cases do not collide. The admin password is written in the .pgpass
// file of a fresh sub-directory of passRoot. The returned settings
// are validated and may be passed to the db init use cases.
// The `pool` must be connected with the container superuser role.
func NewSalesDB(
	ctx context.Context,
	pg *sqltestutil.PostgresContainer,
	pool *postgres.Pool,
	passRoot, name string,
) (*config.Config, error) {
	u, err := url.Parse(pg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing DB container URL: %w", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		return nil, fmt.Errorf("parsing DB container port: %w", err)
	}
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generating a random password: %w", err)
	}
	pass := fmt.Sprintf("%x", b)
	roleSuffix := repo.Role("_" + name)
	admin := repo.AdminRole + roleSuffix
	err = pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		// DDL statements are not parameterized, but name is trusted.
		if _, err := c.Exec(ctx, "CREATE DATABASE "+name); err != nil {
			return fmt.Errorf("creating %q database: %w", name, err)
		}
		hp, err := scram.SHA256().Hash(pass, "", corescram.DefaultIterations)
		if err != nil {
			return fmt.Errorf("hashing admin password: %w", err)
		}
		_, err = c.Exec(ctx, fmt.Sprintf(
			"CREATE ROLE %s WITH SUPERUSER LOGIN PASSWORD '%s'", admin, hp,
		))
		if err != nil {
			return fmt.Errorf("creating %q role: %w", admin, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(passRoot, name)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating pass dir: %w", err)
	}
	line := fmt.Sprintf("127.0.0.1:%d:%s:%s:%s\n", port, name, admin, pass)
	err = os.WriteFile(filepath.Join(dir, ".pgpass"), []byte(line), 0o600)
	if err != nil {
		return nil, fmt.Errorf("writing .pgpass file: %w", err)
	}
	c, err := config.Parse([]byte(fmt.Sprintf(`
database:
  host: 127.0.0.1
  port: %d
  name: %s
  pass-dir: %s
  role-suffix: %s
`, port, name, dir, roleSuffix)), map[string]string{})
	if err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	return c, nil
}
