// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schema creates the sales tables and fills them with their
// initial data. Constraints are named as fk_<table>__<referenced> and
// uc_<table>__<column>[__<column>...]___, so violation messages may be
// translated by the pkg/core/constraint package.
package schema

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/momeni/clean-sales/pkg/adapter/db/postgres"
	"github.com/momeni/clean-sales/pkg/core/repo"
)

var (
	//go:embed tables.sql
	tablesSQL string

	//go:embed devdata.sql
	devDataSQL string
)

// Tables lists the sales table names in their creation order.
var Tables = []string{
	"district", "city", "customer", "product", "purchase", "purchase_item",
}

// Initializer implements the repo.SchemaInitializer interface. It
// wraps a transaction of the normal role whose search_path points to
// the sales schema.
type Initializer struct {
	tx *postgres.Tx
}

// NewInitializer wraps tx (which must be a *postgres.Tx) as a
// repo.SchemaInitializer.
func NewInitializer(tx repo.Tx) *Initializer {
	return &Initializer{tx: tx.(*postgres.Tx)}
}

// InitDevSchema creates all tables and fills them with sample
// districts, cities, customers, and products.
func (i *Initializer) InitDevSchema(ctx context.Context) error {
	if err := i.InitProdSchema(ctx); err != nil {
		return err
	}
	if err := execAll(ctx, i.tx, devDataSQL); err != nil {
		return fmt.Errorf("inserting dev data: %w", err)
	}
	return nil
}

// InitProdSchema creates all tables, leaving them empty.
func (i *Initializer) InitProdSchema(ctx context.Context) error {
	if err := execAll(ctx, i.tx, tablesSQL); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// execAll runs the semicolon terminated statements of script one by
// one, since a prepared statement may not hold multiple commands.
func execAll(ctx context.Context, tx *postgres.Tx, script string) error {
	for _, stmt := range strings.Split(script, ";\n") {
		if stmt = strings.TrimSpace(stmt); stmt == "" {
			continue
		}
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%.40q...: %w", stmt, err)
		}
	}
	return nil
}
