// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "time"

// Purchase models a customer purchase which owns an ordered list of
// line items. Items have no independent lifecycle and are created or
// removed alongside their purchase. Once a purchase is persisted, the
// product and quantity of its items may not change.
//
// StockReserved records if the items quantities were taken from the
// products stock when the purchase was inserted, so deleting it must
// return them. It is managed by the server and never exchanged.
type Purchase struct {
	Base
	CustomerID    int64          `json:"-" validate:"required"`
	Customer      *Customer      `json:"customer,omitempty" validate:"-"`
	DateTime      *time.Time     `json:"dateTime,omitempty"`
	Items         []PurchaseItem `json:"items" validate:"dive"`
	StockReserved bool           `json:"-"`
}

// TableName returns the database table name of purchases.
func (*Purchase) TableName() string {
	return "purchase"
}

// TypeName returns the Purchase entity human-readable name.
func (*Purchase) TypeName() string {
	return "Purchase"
}

// CustomerRef returns the identity of the referenced customer, taking
// it from the nested Customer when present.
func (p *Purchase) CustomerRef() int64 {
	if p.Customer != nil {
		return p.Customer.ID
	}
	return p.CustomerID
}

// SyncReferences copies the nested references identities of p and
// its items into their foreign key fields, so p may be stored without
// its nested customer and products.
func (p *Purchase) SyncReferences() {
	p.CustomerID = p.CustomerRef()
	for i := range p.Items {
		it := &p.Items[i]
		if id, ok := it.ProductRef(); ok {
			it.ProductID = id
		}
		if p.ID != 0 {
			it.PurchaseID = p.ID
		}
	}
}

// PurchaseItem is a line item of a Purchase, referencing one Product
// and the bought quantity of it. The ProductID and Quantity columns
// are create-only, so they are never updated in the database.
type PurchaseItem struct {
	Base
	PurchaseID int64    `json:"-"`
	ProductID  int64    `json:"-" gorm:"<-:create"`
	Product    *Product `json:"product,omitempty" validate:"-"`
	Quantity   int      `json:"quantity" gorm:"<-:create" validate:"min=1"`
}

// TableName returns the database table name of purchase line items.
func (*PurchaseItem) TableName() string {
	return "purchase_item"
}

// TypeName returns the PurchaseItem entity human-readable name.
func (*PurchaseItem) TypeName() string {
	return "Purchase Item"
}

// Detach clears the identity of it and its owner purchase, so it may
// only be inserted as a new line item.
func (it *PurchaseItem) Detach() {
	it.SetID(0)
	it.PurchaseID = 0
}

// ProductRef resolves the referenced product identity. If the nested
// Product is present, its identity is authoritative. Otherwise, the
// ProductID column is used. The ok flag is false if no product is
// referenced at all, including a nested product without identity.
func (it *PurchaseItem) ProductRef() (id int64, ok bool) {
	if it.Product != nil {
		id = it.Product.ID
	} else {
		id = it.ProductID
	}
	return id, id > 0
}
