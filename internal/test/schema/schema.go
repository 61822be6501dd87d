// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schema is a database schema verifier which can be used for
// testing purposes. It checks that the sales tables and their named
// constraints are created and, after a direct database initialization,
// that the expected initial rows are inserted too.
package schema

import (
	"context"
	"fmt"
	"testing"

	"github.com/momeni/clean-sales/pkg/adapter/db/postgres/schema"
	"github.com/momeni/clean-sales/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Constraints lists the named constraints (and unique indexes) which
// are expected to exist, so their violations may be translated.
var Constraints = []string{
	"uc_district__name___",
	"uc_district__abbreviation___",
	"uc_city__name__district_id___",
	"uc_customer__social_security_number___",
	"uc_product__description___",
	"fk_city__district",
	"fk_customer__city",
	"fk_purchase__customer",
	"fk_purchase_item__purchase",
	"fk_purchase_item__product",
}

// Verifier wraps a database connection whose search_path points to
// the sales schema.
type Verifier struct {
	c repo.Conn // database connection which is used for testing
}

// New instantiates a Verifier, wrapping the `c` database connection.
func New(c repo.Conn) *Verifier {
	return &Verifier{c}
}

// VerifySchema ensures that all sales tables and their named
// constraints exist. Failures are reported using the `t` argument.
func (v *Verifier) VerifySchema(ctx context.Context, t *testing.T) {
	tables := v.strings(ctx, t, `SELECT table_name
FROM information_schema.tables
WHERE table_schema=?`, repo.SchemaName)
	assert.ElementsMatch(t, schema.Tables, tables, "sales tables")

	names := v.strings(ctx, t, `SELECT conname FROM pg_constraint
UNION
SELECT indexname FROM pg_indexes WHERE schemaname=?`, repo.SchemaName)
	assert.Subset(t, names, Constraints, "named constraints")
}

// VerifyDevData checks for presence of the development suitable initial
// data and marks possible issues using the `t` testing argument.
// Presence of extra rows is acceptable.
func (v *Verifier) VerifyDevData(ctx context.Context, t *testing.T) {
	assert.Subset(t, v.strings(ctx, t, "SELECT abbreviation FROM district"),
		[]string{"TO", "GO", "SP"}, "districts",
	)
	assert.Subset(t, v.strings(ctx, t, "SELECT name FROM city"),
		[]string{"Palmas", "Araguaína", "Goiânia", "Campinas"}, "cities",
	)
	assert.Subset(t,
		v.strings(ctx, t, "SELECT social_security_number FROM customer"),
		[]string{"123.456.789-01", "987.654.321-00", "111.222.333-44"},
		"customers",
	)
	assert.Subset(t,
		v.strings(ctx, t, "SELECT description || ':' || amount FROM product"),
		[]string{"Television:10", "Refrigerator:4", "Microwave:0"},
		"products",
	)
}

// VerifyProdData checks that the production initialization has
// created no rows, so it is ready to accept the real data.
func (v *Verifier) VerifyProdData(ctx context.Context, t *testing.T) {
	for _, table := range schema.Tables {
		rows := v.strings(ctx, t, fmt.Sprintf(
			"SELECT CAST(COUNT(*) AS TEXT) FROM %s", table,
		))
		assert.Equal(t, []string{"0"}, rows, "rows of %s table", table)
	}
}

func (v *Verifier) strings(
	ctx context.Context, t *testing.T, q string, args ...any,
) []string {
	t.Helper()
	rows, err := v.c.Query(ctx, q, args...)
	require.NoError(t, err, "querying: %s", q)
	defer rows.Close()
	var result []string
	for rows.Next() {
		var s string
		require.NoError(t, rows.Scan(&s))
		result = append(result, s)
	}
	require.NoError(t, rows.Err())
	return result
}
