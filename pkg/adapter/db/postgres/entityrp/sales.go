// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package entityrp

import (
	"context"

	"github.com/momeni/clean-sales/pkg/adapter/db/postgres"
	"github.com/momeni/clean-sales/pkg/core/model"
	"github.com/momeni/clean-sales/pkg/core/repo"
)

// Districts is the districts repository.
type Districts struct {
	*Repo[model.District, *model.District]
}

// NewDistricts instantiates the districts repository.
func NewDistricts() Districts {
	return Districts{New[model.District, *model.District]()}
}

// Search returns a queryer for searching districts by name.
func (d Districts) Search(c repo.Conn) repo.DistrictsSearchQueryer {
	return districtsSearcher{Conn: c.(*postgres.Conn), r: d.Repo}
}

type districtsSearcher struct {
	*postgres.Conn
	r *Repo[model.District, *model.District]
}

func (ds districtsSearcher) FindByNameContaining(
	ctx context.Context, name string,
) ([]*model.District, error) {
	return FindByNameContaining(ctx, ds.Conn, ds.r, name)
}

// NewCities instantiates the cities repository. Cities are loaded
// with their districts.
func NewCities() *Repo[model.City, *model.City] {
	return New[model.City, *model.City](
		WithPreload("District"),
		WithOmit("District"),
	)
}

// Customers is the customers repository.
type Customers struct {
	*Repo[model.Customer, *model.Customer]
}

// NewCustomers instantiates the customers repository. Customers are
// loaded with their cities and districts.
func NewCustomers() Customers {
	return Customers{New[model.Customer, *model.Customer](
		WithPreload("City.District"),
		WithOmit("City"),
	)}
}

// Search returns a queryer for searching customers.
func (cs Customers) Search(c repo.Conn) repo.CustomersSearchQueryer {
	return customersSearcher{Conn: c.(*postgres.Conn), r: cs.Repo}
}

type customersSearcher struct {
	*postgres.Conn
	r *Repo[model.Customer, *model.Customer]
}

func (cs customersSearcher) FindByNameContaining(
	ctx context.Context, name string,
) ([]*model.Customer, error) {
	return FindByNameContaining(ctx, cs.Conn, cs.r, name)
}

func (cs customersSearcher) FindBySocialSecurityNumber(
	ctx context.Context, ssn string,
) (*model.Customer, bool, error) {
	found, err := FindBy(ctx, cs.Conn, cs.r, "social_security_number", ssn)
	if err != nil || len(found) == 0 {
		return nil, false, err
	}
	return found[0], true, nil
}

func (cs customersSearcher) FindByCity(
	ctx context.Context, cityID int64,
) ([]*model.Customer, error) {
	return FindBy(ctx, cs.Conn, cs.r, "city_id", cityID)
}

// Products is the products repository.
type Products struct {
	*Repo[model.Product, *model.Product]
}

// NewProducts instantiates the products repository.
func NewProducts() Products {
	return Products{New[model.Product, *model.Product]()}
}

// Stock returns a queryer for adjusting the products inventory.
func (p Products) Stock(tx repo.Tx) repo.StockTxQueryer {
	return stockAdjuster{Tx: tx.(*postgres.Tx)}
}

type stockAdjuster struct {
	*postgres.Tx
}

func (sa stockAdjuster) Reserve(
	ctx context.Context, productID int64, quantity int,
) (bool, error) {
	return Reserve(ctx, sa.Tx, productID, quantity)
}

func (sa stockAdjuster) Release(
	ctx context.Context, productID int64, quantity int,
) error {
	return Release(ctx, sa.Tx, productID, quantity)
}

// NewPurchases instantiates the purchases repository. Purchases are
// loaded with their customers and items (with products), but only
// their items are saved and deleted alongside them.
func NewPurchases() *Repo[model.Purchase, *model.Purchase] {
	return New[model.Purchase, *model.Purchase](
		WithPreload("Customer.City.District"),
		WithOrderedPreload("Items", "id"),
		WithPreload("Items.Product"),
		WithOmit("Customer", "Items.Product"),
		WithChildren("Items"),
	)
}
