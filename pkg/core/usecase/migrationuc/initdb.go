// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/clean-sales/pkg/core/log"
	"github.com/momeni/clean-sales/pkg/core/repo"
)

// InitDBUseCase represents the database initialization use case. It
// recreates the repo.SchemaName schema and fills it with development
// or production suitable data as asked by InitDev or InitProd.
//
// Both of them run in two phases. The admin role drops the schema
// (with all sales records), creates it again, creates the normal role
// (if missing), grants it the schema privileges, and renews the
// passwords of both roles, all in one transaction. Then the normal role
// creates the tables and inserts the initial records in a second
// transaction. A failed initialization may be repeated, since the
// renewed passwords are kept in a temporary pass-file until the first
// transaction is committed (see Settings.RenewPasswords).
type InitDBUseCase struct {
	settings   Settings
	schemaRepo repo.Schema
}

// NewInitDB creates an InitDBUseCase instance. The ss settings provide
// the database connection information and the schema repository.
func NewInitDB(ss Settings) *InitDBUseCase {
	return &InitDBUseCase{
		settings:   ss,
		schemaRepo: ss.NewSchemaRepo(),
	}
}

// InitProd recreates the sales schema with empty tables.
func (iduc *InitDBUseCase) InitProd(ctx context.Context) error {
	return iduc.initDB(ctx, repo.SchemaInitializer.InitProdSchema)
}

// InitDev recreates the sales schema with a few districts, cities,
// customers, and products.
func (iduc *InitDBUseCase) InitDev(ctx context.Context) error {
	return iduc.initDB(ctx, repo.SchemaInitializer.InitDevSchema)
}

func (iduc *InitDBUseCase) initDB(
	ctx context.Context,
	fill func(repo.SchemaInitializer, context.Context) error,
) error {
	if err := iduc.recreateSchema(ctx); err != nil {
		return fmt.Errorf("dropping/recreating schema: %w", err)
	}
	p, err := iduc.settings.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for normal role: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			si, err := iduc.settings.SchemaInitializer(tx)
			if err != nil {
				return fmt.Errorf("creating SchemaInitializer: %w", err)
			}
			return fill(si, ctx)
		})
	})
	if err != nil {
		return fmt.Errorf("filling tables: %w", err)
	}
	log.Info(ctx, "sales schema is initialized",
		slog.String("schema", repo.SchemaName),
	)
	return nil
}

type step struct {
	name string
	run  func() error
}

func (iduc *InitDBUseCase) recreateSchema(ctx context.Context) error {
	p, err := iduc.settings.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for admin: %w", err)
	}
	defer p.Close()
	var finalizer func() error
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := iduc.schemaRepo.Tx(tx)
			sn, nr := repo.SchemaName, repo.NormalRole
			steps := []step{
				{"dropping schema", func() error {
					return q.DropIfExists(ctx, sn)
				}},
				{"creating schema", func() error {
					return q.CreateSchema(ctx, sn)
				}},
				{"creating normal role", func() error {
					return q.CreateRoleIfNotExists(ctx, nr)
				}},
				{"granting privileges", func() error {
					return q.GrantPrivileges(ctx, sn, nr)
				}},
				{"setting search_path", func() error {
					return q.SetSearchPath(ctx, sn, nr)
				}},
				{"renewing passwords", func() (err error) {
					finalizer, err = iduc.settings.RenewPasswords(
						ctx, q.ChangePasswords, repo.AdminRole, nr,
					)
					return err
				}},
			}
			for _, s := range steps {
				if err := s.run(); err != nil {
					return fmt.Errorf("%s: %w", s.name, err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("admin connection: %w", err)
	}
	if err := finalizer(); err != nil {
		return fmt.Errorf("finalizing passwords renewal: %w", err)
	}
	dbName, host, port := iduc.settings.ConnectionInfo()
	log.Info(
		ctx, "schema is recreated and passwords are renewed",
		slog.String("db", dbName),
		slog.String("host", host),
		slog.Int("port", port),
	)
	return nil
}
