// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Product models a sellable product. The Amount field keeps the
// current stock (inventory) of the product.
type Product struct {
	Base
	Description string  `json:"description" validate:"required,max=200"`
	Price       float64 `json:"price" validate:"gte=0"`
	Amount      int     `json:"amount" validate:"gte=0"`
}

// TableName returns the database table name of products.
func (*Product) TableName() string {
	return "product"
}

// TypeName returns the Product entity human-readable name.
func (*Product) TypeName() string {
	return "Product"
}

// IsInventoryEnough reports if the current stock of p can satisfy
// the given quantity.
func (p *Product) IsInventoryEnough(quantity int) bool {
	return p.Amount >= quantity
}

// HasInventory reports if p is still in stock.
func (p *Product) HasInventory() bool {
	return p.Amount > 0
}
