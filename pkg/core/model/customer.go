// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "strings"

// Customer models a person who may buy products.
// A customer may optionally live in a known City.
type Customer struct {
	Base
	Name                 string `json:"name" validate:"required,max=200"`
	SocialSecurityNumber string `json:"socialSecurityNumber" validate:"required,max=14"`
	CityID               *int64 `json:"-"`
	City                 *City  `json:"city,omitempty" validate:"-"`
}

// TableName returns the database table name of customers.
func (*Customer) TableName() string {
	return "customer"
}

// TypeName returns the Customer entity human-readable name.
func (*Customer) TypeName() string {
	return "Customer"
}

// CityRef returns the identity of the customer city or nil if no city
// is referenced.
func (c *Customer) CityRef() *int64 {
	if c.City != nil && c.City.ID != 0 {
		id := c.City.ID
		return &id
	}
	return c.CityID
}

// SyncReferences copies the nested references identities into their
// foreign key fields, so c may be stored without its nested objects.
func (c *Customer) SyncReferences() {
	c.CityID = c.CityRef()
}

// SocialSecurityDigits returns the social security number of c after
// dropping all non-digit characters.
func (c *Customer) SocialSecurityDigits() string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, c.SocialSecurityNumber)
}
