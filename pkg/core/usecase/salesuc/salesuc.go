// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package salesuc wires the generic CRUD use cases of all sales
// entities with their business rules. Rules are crudsuc hooks, so they
// run in the same transaction which saves or deletes an entity:
//   - a purchase may be inserted only if all of its items refer to
//     existing products with enough items in stock,
//   - items of a persisted purchase may not be changed or removed,
//   - a product may not be deleted while it is in stock,
//   - a district name may not be equal to its abbreviation.
//
// Optionally, inserting a purchase may reserve its items by decreasing
// the products stock atomically. Such purchases are marked, so deleting
// them returns their items to stock even if the option is disabled
// later, while deleting other purchases leaves the stock unchanged.
package salesuc

import (
	"context"
	"fmt"
	"time"

	"github.com/momeni/clean-sales/pkg/core/model"
	"github.com/momeni/clean-sales/pkg/core/repo"
	"github.com/momeni/clean-sales/pkg/core/usecase/crudsuc"
	"github.com/momeni/clean-sales/pkg/core/validation"
)

// Repos lists the repositories of all sales entities.
type Repos struct {
	Districts repo.Districts
	Cities    repo.Entities[*model.City]
	Customers repo.Customers
	Products  repo.Products
	Purchases repo.Entities[*model.Purchase]
}

// UseCases holds the use cases of all sales entities.
type UseCases struct {
	Districts *DistrictsUseCase
	Cities    *crudsuc.UseCase[*model.City]
	Customers *CustomersUseCase
	Products  *crudsuc.UseCase[*model.Product]
	Purchases *crudsuc.UseCase[*model.Purchase]
}

type settings struct {
	structs      validation.Structs
	reserveStock bool
	now          func() time.Time
}

// New instantiates the use cases of all sales entities, sharing the
// p connection pool.
func New(p repo.Pool, r Repos, opts ...Option) (*UseCases, error) {
	s := &settings{}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if s.now == nil {
		s.now = time.Now
	}
	ucs := &UseCases{}
	districts, err := crudsuc.New[*model.District](p, r.Districts,
		crudsuc.WithValidator(validation.OfStructs[*model.District](s.structs)),
		crudsuc.WithBeforeSave(checkDistrictName),
	)
	if err != nil {
		return nil, fmt.Errorf("districts: %w", err)
	}
	ucs.Districts = &DistrictsUseCase{
		UseCase: districts, pool: p, repo: r.Districts,
	}
	ucs.Cities, err = crudsuc.New[*model.City](p, r.Cities,
		crudsuc.WithValidator(validation.OfStructs[*model.City](s.structs)),
		crudsuc.WithBeforeSave(requireReference[*model.City, *model.District](
			r.Districts, func(c *model.City) (int64, bool) {
				return c.DistrictRef(), true
			},
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("cities: %w", err)
	}
	customers, err := crudsuc.New[*model.Customer](p, r.Customers,
		crudsuc.WithValidator(validation.Chain(
			validation.OfStructs[*model.Customer](s.structs),
			socialSecurityNumberValidator(),
		)),
		crudsuc.WithBeforeSave(requireReference[*model.Customer, *model.City](
			r.Cities, func(c *model.Customer) (int64, bool) {
				if id := c.CityRef(); id != nil {
					return *id, true
				}
				return 0, false
			},
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("customers: %w", err)
	}
	ucs.Customers = &CustomersUseCase{
		UseCase: customers, pool: p, repo: r.Customers,
	}
	ucs.Products, err = crudsuc.New[*model.Product](p, r.Products,
		crudsuc.WithValidator(validation.OfStructs[*model.Product](s.structs)),
		crudsuc.WithBeforeDelete(checkProductStock),
	)
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	pr := &purchaseRules{
		products:  r.Products,
		purchases: r.Purchases,
		reserve:   s.reserveStock,
		now:       s.now,
	}
	purchaseOpts := []crudsuc.Option[*model.Purchase]{
		crudsuc.WithValidator(validation.OfStructs[*model.Purchase](s.structs)),
		crudsuc.WithBeforeSave(requireReference[*model.Purchase, *model.Customer](
			r.Customers, func(p *model.Purchase) (int64, bool) {
				return p.CustomerRef(), true
			},
		)),
		crudsuc.WithBeforeSave(pr.beforeSave),
		crudsuc.WithAfterDelete(pr.afterDelete),
	}
	ucs.Purchases, err = crudsuc.New[*model.Purchase](
		p, r.Purchases, purchaseOpts...,
	)
	if err != nil {
		return nil, fmt.Errorf("purchases: %w", err)
	}
	return ucs, nil
}

// DistrictsUseCase is the CRUD use case of districts which can also
// search them by name.
type DistrictsUseCase struct {
	*crudsuc.UseCase[*model.District]

	pool repo.Pool
	repo repo.Districts
}

// FindByNameContaining lists districts which their names contain name,
// ignoring the letter cases.
func (uc *DistrictsUseCase) FindByNameContaining(
	ctx context.Context, name string,
) (ds []*model.District, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ds, err = uc.repo.Search(c).FindByNameContaining(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// CustomersUseCase is the CRUD use case of customers which can also
// search them by name, social security number, or city.
type CustomersUseCase struct {
	*crudsuc.UseCase[*model.Customer]

	pool repo.Pool
	repo repo.Customers
}

// FindByNameContaining lists customers which their names contain name,
// ignoring the letter cases.
func (uc *CustomersUseCase) FindByNameContaining(
	ctx context.Context, name string,
) (cs []*model.Customer, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		cs, err = uc.repo.Search(c).FindByNameContaining(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// FindBySocialSecurityNumber finds a customer by its social security
// number. The found flag is false if there is no such customer.
func (uc *CustomersUseCase) FindBySocialSecurityNumber(
	ctx context.Context, ssn string,
) (cust *model.Customer, found bool, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		cust, found, err = uc.repo.Search(c).FindBySocialSecurityNumber(
			ctx, ssn,
		)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return cust, found, nil
}

// FindByCity lists customers who live in the cityID city.
func (uc *CustomersUseCase) FindByCity(
	ctx context.Context, cityID int64,
) (cs []*model.Customer, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		cs, err = uc.repo.Search(c).FindByCity(ctx, cityID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}
