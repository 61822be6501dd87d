// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/clean-sales/pkg/core/model"
)

// EntitiesQueryer lists the read operations of an entity repository
// which may be used with either a connection or a transaction.
type EntitiesQueryer[E model.Entity] interface {
	// FindByID fetches the id entity with its nested references.
	// A missing entity is reported by a false found flag and a nil
	// error.
	FindByID(ctx context.Context, id int64) (e E, found bool, err error)

	// FindAll lists all entities ordered by their identity.
	FindAll(ctx context.Context) ([]E, error)
}

// EntitiesConnQueryer is the connection-bound entity repository.
type EntitiesConnQueryer[E model.Entity] interface {
	EntitiesQueryer[E]
}

// EntitiesTxQueryer is the transaction-bound entity repository.
// Write operations are only available in a transaction, so the
// business rule hooks and the write itself may share one atomic unit.
type EntitiesTxQueryer[E model.Entity] interface {
	EntitiesQueryer[E]

	// Save inserts e if it is being inserted or updates it otherwise.
	// The stored entity is reloaded and returned, so database
	// generated fields and nested references are filled.
	// A violated database constraint is reported as an
	// *IntegrityViolation error.
	Save(ctx context.Context, e E) (E, error)

	// Delete removes e and its owned children (if any).
	// A violated database constraint is reported as an
	// *IntegrityViolation error.
	Delete(ctx context.Context, e E) error
}

// Entities is the generic repository of E entities.
type Entities[E model.Entity] interface {
	// Conn takes a Conn interface instance, unwraps it as required,
	// and returns an EntitiesConnQueryer[E] interface.
	Conn(Conn) EntitiesConnQueryer[E]

	// Tx takes a Tx interface instance, unwraps it as required,
	// and returns an EntitiesTxQueryer[E] interface.
	Tx(Tx) EntitiesTxQueryer[E]
}

// Districts is the districts repository with name based search.
type Districts interface {
	Entities[*model.District]

	// Search returns a queryer for searching districts.
	Search(Conn) DistrictsSearchQueryer
}

// DistrictsSearchQueryer searches districts.
type DistrictsSearchQueryer interface {
	// FindByNameContaining lists districts which their names contain
	// name, ignoring the letter cases.
	FindByNameContaining(ctx context.Context, name string) (
		[]*model.District, error,
	)
}

// Customers is the customers repository with search operations.
type Customers interface {
	Entities[*model.Customer]

	// Search returns a queryer for searching customers.
	Search(Conn) CustomersSearchQueryer
}

// CustomersSearchQueryer searches customers.
type CustomersSearchQueryer interface {
	// FindByNameContaining lists customers which their names contain
	// name, ignoring the letter cases.
	FindByNameContaining(ctx context.Context, name string) (
		[]*model.Customer, error,
	)

	// FindBySocialSecurityNumber finds the customer with the given
	// social security number. The found flag is false if no such
	// customer exists.
	FindBySocialSecurityNumber(ctx context.Context, ssn string) (
		c *model.Customer, found bool, err error,
	)

	// FindByCity lists customers who live in the cityID city.
	FindByCity(ctx context.Context, cityID int64) ([]*model.Customer, error)
}

// Products is the products repository which can also adjust the
// inventory of products atomically.
type Products interface {
	Entities[*model.Product]

	// Stock returns a queryer for adjusting the products inventory.
	Stock(Tx) StockTxQueryer
}

// StockTxQueryer adjusts the products inventory in a transaction.
type StockTxQueryer interface {
	// Reserve decreases the amount of productID product by quantity
	// if and only if it has at least quantity items in stock. The
	// check and the decrement are performed by one conditional
	// statement, so concurrent reservations may not oversell.
	// The ok flag is false if the product is missing or has not enough
	// items in stock.
	Reserve(ctx context.Context, productID int64, quantity int) (
		ok bool, err error,
	)

	// Release returns quantity items of productID product to stock.
	Release(ctx context.Context, productID int64, quantity int) error
}
