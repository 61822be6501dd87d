// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/momeni/clean-sales/pkg/adapter/config"
	"github.com/momeni/clean-sales/pkg/adapter/db/postgres/entityrp"
	"github.com/momeni/clean-sales/pkg/adapter/restful/gin/crudrs"
	"github.com/momeni/clean-sales/pkg/adapter/restful/gin/tagval"
	"github.com/momeni/clean-sales/pkg/core/log"
	"github.com/momeni/clean-sales/pkg/core/model"
	"github.com/momeni/clean-sales/pkg/core/repo"
	"github.com/momeni/clean-sales/pkg/core/usecase/salesuc"
	"github.com/momeni/clean-sales/pkg/core/wire"
)

// Repos instantiates the PostgreSQL repositories of all sales entities.
func Repos() salesuc.Repos {
	return salesuc.Repos{
		Districts: entityrp.NewDistricts(),
		Cities:    entityrp.NewCities(),
		Customers: entityrp.NewCustomers(),
		Products:  entityrp.NewProducts(),
		Purchases: entityrp.NewPurchases(),
	}
}

// Adapters registers the wire adapters of all sales entities. Products
// and districts are exchanged as they are, while other entities are
// exchanged as payloads which refer to their related entities by id.
func Adapters() (*wire.Registry, error) {
	reg := wire.NewRegistry()
	var errs []error
	errs = append(errs,
		wire.Register(reg, (*model.District)(nil).TypeName(),
			wire.Identity[*model.District],
		),
		wire.Register(reg, (*model.City)(nil).TypeName(),
			func() wire.Adapter[*model.City, model.CityPayload] {
				return wire.Mapped(model.NewCityPayload)
			},
		),
		wire.Register(reg, (*model.Customer)(nil).TypeName(),
			func() wire.Adapter[*model.Customer, model.CustomerPayload] {
				return wire.Mapped(model.NewCustomerPayload)
			},
		),
		wire.Register(reg, (*model.Product)(nil).TypeName(),
			wire.Identity[*model.Product],
		),
		wire.Register(reg, (*model.Purchase)(nil).TypeName(),
			func() wire.Adapter[*model.Purchase, model.PurchasePayload] {
				return wire.Mapped(model.NewPurchasePayload)
			},
		),
	)
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Register instantiates relevant repositories and use cases based on
// the c configuration settings. The p connections pool is passed to
// the use case instances, so they may acquire/release connections
// and transactions on demand. These connections/transactions will be
// passed to the repositories later in order to run relevant queries on
// them and accomplish those use cases.
//
// Also, Register instantiates a crudrs resource per entity type in
// order to adapt the use cases with the REST APIs, using the wire
// adapters which are looked up once here. A missing or mistyped adapter is
// reported as an error, so it is detected at startup.
func Register(
	ctx context.Context, e *gin.Engine, p repo.Pool, c *config.Config,
) error {
	return RegisterWith(ctx, e, p, Repos(), c)
}

// RegisterWith is like Register, but takes the repositories, so other
// repository implementations may be served too.
func RegisterWith(
	ctx context.Context,
	e *gin.Engine,
	p repo.Pool,
	repos salesuc.Repos,
	c *config.Config,
) error {
	ucs, err := c.NewSalesUseCases(p, repos, tagval.New())
	if err != nil {
		return fmt.Errorf("creating sales use cases: %w", err)
	}
	reg, err := Adapters()
	if err != nil {
		return fmt.Errorf("registering wire adapters: %w", err)
	}
	r := e.Group(c.API.BasePath)

	districts, err := wire.Lookup[*model.District, *model.District](
		reg, ucs.Districts.TypeName(),
	)
	if err != nil {
		return err
	}
	crudrs.Register[*model.District, *model.District](
		r, "district", ucs.Districts, districts,
		crudrs.WithSearch("name", ucs.Districts.FindByNameContaining),
	)

	cities, err := wire.Lookup[*model.City, model.CityPayload](
		reg, ucs.Cities.TypeName(),
	)
	if err != nil {
		return err
	}
	crudrs.Register[*model.City, model.CityPayload](
		r, "city", ucs.Cities, cities,
	)

	customers, err := wire.Lookup[*model.Customer, model.CustomerPayload](
		reg, ucs.Customers.TypeName(),
	)
	if err != nil {
		return err
	}
	crs := crudrs.Register[*model.Customer, model.CustomerPayload](
		r, "customer", ucs.Customers, customers,
		crudrs.WithSearch("name", ucs.Customers.FindByNameContaining),
	)
	registerCustomerSearches(crs.Group(), ucs.Customers)

	products, err := wire.Lookup[*model.Product, *model.Product](
		reg, ucs.Products.TypeName(),
	)
	if err != nil {
		return err
	}
	crudrs.Register[*model.Product, *model.Product](
		r, "product", ucs.Products, products,
	)

	purchases, err := wire.Lookup[*model.Purchase, model.PurchasePayload](
		reg, ucs.Purchases.TypeName(),
	)
	if err != nil {
		return err
	}
	crudrs.Register[*model.Purchase, model.PurchasePayload](
		r, "purchase", ucs.Purchases, purchases,
	)

	log.Info(ctx, "sales routes are registered",
		slog.String("base-path", c.API.BasePath),
		slog.Any("entities", reg.Names()),
	)
	return nil
}
