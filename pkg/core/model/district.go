// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// District models a country district (e.g., a state or a province)
// which contains cities.
type District struct {
	Base
	Name         string `json:"name" validate:"required,max=120"`
	Abbreviation string `json:"abbreviation" validate:"required,min=2,max=3"`
}

// TableName returns the database table name of districts.
func (*District) TableName() string {
	return "district"
}

// TypeName returns the District entity human-readable name.
func (*District) TypeName() string {
	return "District"
}
