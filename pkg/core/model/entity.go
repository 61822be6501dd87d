// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by ORM
// libraries and the field validators) since adding more tags does not
// complicate definition of a struct, but can prevent unnecessary
// structs duplication.
package model

// Entity is a record which may be persisted in the database.
// An entity has an optional numeric identity. While that identity is
// zero, the entity is being inserted and after it is persisted, it is
// being edited. The identity is assigned by the database and must not
// change afterwards.
//
// All entities of this package implement Entity by their pointer types
// (e.g., *Product), so a nil pointer may be used for obtaining the
// TypeName without having an actual instance at hand.
type Entity interface {
	// GetID returns the entity identity (zero for unsaved entities).
	GetID() int64

	// SetID replaces the entity identity. It is used for clearing the
	// identity of entities which are posted for creation.
	SetID(id int64)

	// IsInserting reports if the entity is not persisted yet.
	IsInserting() bool

	// IsEditing reports if the entity is already persisted.
	IsEditing() bool

	// TypeName returns a human-readable name of the entity type, as
	// used in the error messages. It must not dereference its
	// receiver, so it may be called on a nil pointer.
	TypeName() string
}

// Base contains the identity field of all entities and may be embedded
// by them in order to implement most of the Entity interface methods.
type Base struct {
	ID int64 `json:"id" gorm:"primaryKey"`
}

// GetID returns the b identity.
func (b *Base) GetID() int64 {
	return b.ID
}

// SetID updates the b identity.
func (b *Base) SetID(id int64) {
	b.ID = id
}

// IsInserting returns true if b has no identity yet, i.e., its ID
// is zero.
func (b *Base) IsInserting() bool {
	return b.ID == 0
}

// IsEditing is the negation of IsInserting.
func (b *Base) IsEditing() bool {
	return !b.IsInserting()
}
