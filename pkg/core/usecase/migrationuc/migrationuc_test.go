// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/momeni/clean-sales/internal/test/dbcontainer"
	"github.com/momeni/clean-sales/internal/test/schema"
	"github.com/momeni/clean-sales/pkg/adapter/config"
	"github.com/momeni/clean-sales/pkg/adapter/db/postgres"
	"github.com/momeni/clean-sales/pkg/core/repo"
	"github.com/momeni/clean-sales/pkg/core/usecase/migrationuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MigrationUseCasesTestSuite struct {
	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool

	dbDir string
}

func TestMigrationUseCasesTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	dbDir, err := os.MkdirTemp("", "miguc-db")
	if ok := assert.NoError(t, err, "creating temp db dir"); !ok {
		return
	}
	defer func() {
		err := os.RemoveAll(dbDir)
		assert.NoError(t, err, "removing temp db dir")
	}()
	migucts := &MigrationUseCasesTestSuite{
		Ctx:   ctx,
		Pg:    pg,
		Pool:  pool,
		dbDir: dbDir,
	}
	t.Run("initialization", migucts.TestInitDB)
}

func (migucts *MigrationUseCasesTestSuite) TestInitDB(t *testing.T) {
	for _, mode := range []string{"dev", "prod"} {
		mode := mode
		t.Run(mode, func(t *testing.T) {
			t.Parallel()
			r := require.New(t)
			c, err := dbcontainer.NewSalesDB(
				migucts.Ctx, migucts.Pg, migucts.Pool,
				migucts.dbDir, "miguc_"+mode,
			)
			r.NoError(err, "creating an empty database")
			dev := mode == "dev"
			migucts.initDBAndVerifySchema(t, r, c, dev)

			// repeating the initialization drops the old schema and
			// uses the renewed passwords
			migucts.initDBAndVerifySchema(t, r, c, dev)
			_, err = os.Stat(filepath.Join(c.Database.PassDir, ".pgpass.new"))
			r.ErrorIs(err, os.ErrNotExist, "new pass-file must be moved")
		})
	}
}

func (migucts *MigrationUseCasesTestSuite) initDBAndVerifySchema(
	t *testing.T,
	r *require.Assertions,
	c *config.Config,
	dev bool,
) {
	iduc := migrationuc.NewInitDB(c)
	if dev {
		err := iduc.InitDev(migucts.Ctx)
		r.NoError(err, "initializing database with dev suitable data")
	} else {
		err := iduc.InitProd(migucts.Ctx)
		r.NoError(err, "initializing database with prod suitable data")
	}
	verifySchema(migucts.Ctx, t, r, c,
		func(ctx context.Context, v *schema.Verifier, t *testing.T) {
			v.VerifySchema(ctx, t)
			if dev {
				v.VerifyDevData(ctx, t)
			} else {
				v.VerifyProdData(ctx, t)
			}
		},
	)
}

func verifySchema(
	ctx context.Context,
	t *testing.T,
	r *require.Assertions,
	s migrationuc.Settings,
	verify func(ctx context.Context, v *schema.Verifier, t *testing.T),
) {
	p, err := s.ConnectionPool(ctx, repo.NormalRole)
	r.NoError(err, "creating connection pool")
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		verify(ctx, schema.New(c), t)
		return nil
	})
	r.NoError(err, "verifying database schema")
}
