// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package entityrp_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/momeni/clean-sales/internal/test/dbcontainer"
	"github.com/momeni/clean-sales/pkg/adapter/db/postgres"
	"github.com/momeni/clean-sales/pkg/adapter/db/postgres/entityrp"
	"github.com/momeni/clean-sales/pkg/core/model"
	"github.com/momeni/clean-sales/pkg/core/repo"
	"github.com/momeni/clean-sales/pkg/core/usecase/migrationuc"
	"github.com/stretchr/testify/suite"
)

type IntegrationEntitiesTestSuite struct {
	suite.Suite

	Ctx     context.Context
	Pg      *sqltestutil.PostgresContainer
	Pool    *postgres.Pool
	PassDir string

	SalesPool repo.Pool
}

func TestIntegrationEntitiesTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationEntitiesTestSuite{
		Ctx:     ctx,
		Pg:      pg,
		Pool:    pool,
		PassDir: t.TempDir(),
	})
}

func (iets *IntegrationEntitiesTestSuite) SetupSuite() {
	c, err := dbcontainer.NewSalesDB(
		iets.Ctx, iets.Pg, iets.Pool, iets.PassDir, "entityrp_it",
	)
	iets.Require().NoError(err, "failed to create an empty database")
	err = migrationuc.NewInitDB(c).InitDev(iets.Ctx)
	iets.Require().NoError(err, "failed to initialize the dev schema")
	iets.SalesPool, err = c.ConnectionPool(iets.Ctx, repo.NormalRole)
	iets.Require().NoError(err, "failed to connect as the normal role")
}

func (iets *IntegrationEntitiesTestSuite) TearDownSuite() {
	if iets.SalesPool != nil {
		iets.NoError(iets.SalesPool.Close())
	}
}

func (iets *IntegrationEntitiesTestSuite) product(desc string) *model.Product {
	var found *model.Product
	err := iets.SalesPool.Conn(iets.Ctx,
		func(ctx context.Context, c repo.Conn) error {
			ps, err := entityrp.NewProducts().Conn(c).FindAll(ctx)
			for _, p := range ps {
				if p.Description == desc {
					found = p
				}
			}
			return err
		},
	)
	iets.Require().NoError(err)
	iets.Require().NotNil(found, "missing %q product", desc)
	return found
}

func (iets *IntegrationEntitiesTestSuite) TestConcurrentReservations() {
	fridge := iets.product("Refrigerator")
	products := entityrp.NewProducts()
	const buyers = 3 * 4
	var wg sync.WaitGroup
	var mu sync.Mutex
	reserved := 0
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := iets.SalesPool.Conn(iets.Ctx,
				func(ctx context.Context, c repo.Conn) error {
					return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
						ok, err := products.Stock(tx).Reserve(ctx, fridge.ID, 1)
						if ok {
							mu.Lock()
							reserved++
							mu.Unlock()
						}
						return err
					})
				},
			)
			iets.NoError(err)
		}()
	}
	wg.Wait()
	iets.Equal(fridge.Amount, reserved, "reservations must not oversell")
	iets.Zero(iets.product("Refrigerator").Amount)

	err := iets.SalesPool.Conn(iets.Ctx,
		func(ctx context.Context, c repo.Conn) error {
			return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
				return products.Stock(tx).Release(ctx, fridge.ID, reserved)
			})
		},
	)
	iets.Require().NoError(err)
	iets.Equal(fridge.Amount, iets.product("Refrigerator").Amount)
}

func (iets *IntegrationEntitiesTestSuite) TestReserveMissingProduct() {
	err := iets.SalesPool.Conn(iets.Ctx,
		func(ctx context.Context, c repo.Conn) error {
			return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
				ok, err := entityrp.NewProducts().Stock(tx).Reserve(ctx, 9999, 1)
				iets.False(ok)
				return err
			})
		},
	)
	iets.NoError(err)
}

func (iets *IntegrationEntitiesTestSuite) TestSearchEscapesWildcards() {
	err := iets.SalesPool.Conn(iets.Ctx,
		func(ctx context.Context, c repo.Conn) error {
			s := entityrp.NewDistricts().Search(c)
			ds, err := s.FindByNameContaining(ctx, "%")
			iets.Require().NoError(err)
			iets.Empty(ds)

			ds, err = s.FindByNameContaining(ctx, "_")
			iets.Require().NoError(err)
			iets.Empty(ds)

			ds, err = s.FindByNameContaining(ctx, "GOIá")
			iets.Require().NoError(err)
			iets.Require().Len(ds, 1)
			iets.Equal("GO", ds[0].Abbreviation)
			return nil
		},
	)
	iets.NoError(err)
}

func (iets *IntegrationEntitiesTestSuite) TestCustomerSearches() {
	err := iets.SalesPool.Conn(iets.Ctx,
		func(ctx context.Context, c repo.Conn) error {
			s := entityrp.NewCustomers().Search(c)
			cust, found, err := s.FindBySocialSecurityNumber(
				ctx, "987.654.321-00",
			)
			iets.Require().NoError(err)
			iets.Require().True(found)
			iets.Equal("João Lima", cust.Name)
			iets.Require().NotNil(cust.City)
			iets.Equal("Goiânia", cust.City.Name)

			cs, err := s.FindByCity(ctx, cust.City.ID)
			iets.Require().NoError(err)
			iets.Require().Len(cs, 1)
			iets.Equal(cust.ID, cs[0].ID)

			_, found, err = s.FindBySocialSecurityNumber(ctx, "000")
			iets.NoError(err)
			iets.False(found)
			return nil
		},
	)
	iets.NoError(err)
}
