// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// City models a city which belongs to exactly one District.
// The DistrictID column keeps the reference in the database, while
// District is filled when a city is loaded and may be nil otherwise.
type City struct {
	Base
	Name       string    `json:"name" validate:"required,max=120"`
	DistrictID int64     `json:"-" validate:"required"`
	District   *District `json:"district,omitempty" validate:"-"`
}

// TableName returns the database table name of cities.
func (*City) TableName() string {
	return "city"
}

// TypeName returns the City entity human-readable name.
func (*City) TypeName() string {
	return "City"
}

// DistrictRef returns the identity of the referenced district, taking
// it from the nested District when present.
func (c *City) DistrictRef() int64 {
	if c.District != nil {
		return c.District.ID
	}
	return c.DistrictID
}

// SyncReferences copies the nested references identities into their
// foreign key fields, so c may be stored without its nested objects.
func (c *City) SyncReferences() {
	c.DistrictID = c.DistrictRef()
}
