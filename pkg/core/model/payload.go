// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "time"

// This file defines the restricted wire payloads of entities. Each
// payload only contains the fields which a client may send or see and
// refers to other entities by their identity alone. Each payload has
// a ToEntity method and a NewXPayload function (projecting an entity
// into its payload) and these two conversions are inverse of each
// other for every payload.

// ReferenceSyncer is implemented by entities which hold both of a
// nested reference and its foreign key identity field.
type ReferenceSyncer interface {
	SyncReferences()
}

// DistrictPayload is the wire payload of a District.
type DistrictPayload struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// ToEntity converts p to a District.
func (p DistrictPayload) ToEntity() *District {
	return &District{
		Base:         Base{ID: p.ID},
		Name:         p.Name,
		Abbreviation: p.Abbreviation,
	}
}

// NewDistrictPayload projects d into its wire payload.
func NewDistrictPayload(d *District) DistrictPayload {
	return DistrictPayload{
		ID:           d.ID,
		Name:         d.Name,
		Abbreviation: d.Abbreviation,
	}
}

// CityPayload is the wire payload of a City.
type CityPayload struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	DistrictID int64  `json:"districtId"`
}

// ToEntity converts p to a City.
func (p CityPayload) ToEntity() *City {
	return &City{
		Base:       Base{ID: p.ID},
		Name:       p.Name,
		DistrictID: p.DistrictID,
	}
}

// NewCityPayload projects c into its wire payload.
func NewCityPayload(c *City) CityPayload {
	return CityPayload{
		ID:         c.ID,
		Name:       c.Name,
		DistrictID: c.DistrictRef(),
	}
}

// CustomerPayload is the wire payload of a Customer.
type CustomerPayload struct {
	ID                   int64  `json:"id"`
	Name                 string `json:"name"`
	SocialSecurityNumber string `json:"socialSecurityNumber"`
	CityID               *int64 `json:"cityId,omitempty"`
}

// ToEntity converts p to a Customer.
func (p CustomerPayload) ToEntity() *Customer {
	return &Customer{
		Base:                 Base{ID: p.ID},
		Name:                 p.Name,
		SocialSecurityNumber: p.SocialSecurityNumber,
		CityID:               p.CityID,
	}
}

// NewCustomerPayload projects c into its wire payload.
func NewCustomerPayload(c *Customer) CustomerPayload {
	return CustomerPayload{
		ID:                   c.ID,
		Name:                 c.Name,
		SocialSecurityNumber: c.SocialSecurityNumber,
		CityID:               c.CityRef(),
	}
}

// ProductPayload is the wire payload of a Product.
type ProductPayload struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Amount      int     `json:"amount"`
}

// ToEntity converts p to a Product.
func (p ProductPayload) ToEntity() *Product {
	return &Product{
		Base:        Base{ID: p.ID},
		Description: p.Description,
		Price:       p.Price,
		Amount:      p.Amount,
	}
}

// NewProductPayload projects p into its wire payload.
func NewProductPayload(p *Product) ProductPayload {
	return ProductPayload{
		ID:          p.ID,
		Description: p.Description,
		Price:       p.Price,
		Amount:      p.Amount,
	}
}

// PurchasePayload is the wire payload of a Purchase.
type PurchasePayload struct {
	ID         int64                 `json:"id"`
	CustomerID int64                 `json:"customerId"`
	DateTime   *time.Time            `json:"dateTime,omitempty"`
	Items      []PurchaseItemPayload `json:"items"`
}

// PurchaseItemPayload is the wire payload of a PurchaseItem.
type PurchaseItemPayload struct {
	ID         int64 `json:"id"`
	PurchaseID int64 `json:"purchaseId"`
	ProductID  int64 `json:"productId"`
	Quantity   int   `json:"quantity"`
}

// ToEntity converts p to a Purchase, including its items.
func (p PurchasePayload) ToEntity() *Purchase {
	pur := &Purchase{
		Base:       Base{ID: p.ID},
		CustomerID: p.CustomerID,
		DateTime:   p.DateTime,
	}
	if p.Items != nil {
		pur.Items = make([]PurchaseItem, 0, len(p.Items))
	}
	for _, it := range p.Items {
		pur.Items = append(pur.Items, PurchaseItem{
			Base:       Base{ID: it.ID},
			PurchaseID: it.PurchaseID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
		})
	}
	return pur
}

// NewPurchasePayload projects p into its wire payload.
func NewPurchasePayload(p *Purchase) PurchasePayload {
	pp := PurchasePayload{
		ID:         p.ID,
		CustomerID: p.CustomerRef(),
		DateTime:   p.DateTime,
	}
	if p.Items != nil {
		pp.Items = make([]PurchaseItemPayload, 0, len(p.Items))
	}
	for i := range p.Items {
		it := &p.Items[i]
		pid, _ := it.ProductRef()
		pp.Items = append(pp.Items, PurchaseItemPayload{
			ID:         it.ID,
			PurchaseID: it.PurchaseID,
			ProductID:  pid,
			Quantity:   it.Quantity,
		})
	}
	return pp
}
