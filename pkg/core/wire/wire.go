// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package wire converts between entities and their restricted wire
// payloads. Each entity type is exposed with an Adapter which works in
// one of two explicit modes. The Identity mode is used when an entity
// is sent and received as is, so both directions return their argument
// without any conversion. The Mapped mode uses a payload type which
// implements the Payload interface and a projection function.
//
// Adapters are kept in a Registry which is keyed by the entity type
// name and is filled at startup. A missing or mistyped registration is
// a configuration error which must stop the program before serving
// any request.
package wire

import (
	"fmt"
	"slices"
	"sync"
)

// Mode specifies how an Adapter converts its values.
type Mode int

// Valid values for the Mode enum.
const (
	ModeInvalid Mode = iota // zero value is invalid

	ModeIdentity // payload type is the entity type
	ModeMapped   // payload type is a distinct restricted type
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeIdentity:
		return "identity"
	case ModeMapped:
		return "mapped"
	default:
		return "invalid"
	}
}

// Payload is implemented by restricted wire payloads of the E entity.
type Payload[E any] interface {
	ToEntity() E
}

// Adapter converts between E entities and P payloads.
// The zero Adapter has ModeInvalid and must not be used.
type Adapter[E, P any] struct {
	mode       Mode
	toEntity   func(P) E
	fromEntity func(E) P
}

// Identity creates an Adapter which exchanges E values as they are.
func Identity[E any]() Adapter[E, E] {
	same := func(e E) E { return e }
	return Adapter[E, E]{
		mode:       ModeIdentity,
		toEntity:   same,
		fromEntity: same,
	}
}

// Mapped creates an Adapter which converts P payloads to E entities
// by their ToEntity method and projects E entities to P payloads by
// the project function.
func Mapped[E any, P Payload[E]](project func(E) P) Adapter[E, P] {
	return Adapter[E, P]{
		mode:       ModeMapped,
		toEntity:   func(p P) E { return p.ToEntity() },
		fromEntity: project,
	}
}

// Mode returns the a conversion mode.
func (a Adapter[E, P]) Mode() Mode {
	return a.mode
}

// Valid reports if a was created by Identity or Mapped.
func (a Adapter[E, P]) Valid() bool {
	return a.mode != ModeInvalid && a.toEntity != nil && a.fromEntity != nil
}

// ToEntity converts the p payload to its entity.
func (a Adapter[E, P]) ToEntity(p P) E {
	return a.toEntity(p)
}

// FromEntity projects the e entity to its payload.
func (a Adapter[E, P]) FromEntity(e E) P {
	return a.fromEntity(e)
}

// MissingAdapterError indicates that no valid adapter with the
// expected types is registered for an entity type.
type MissingAdapterError struct {
	TypeName string
	Reason   string
}

func (e *MissingAdapterError) Error() string {
	return fmt.Sprintf("no wire adapter for %q: %s", e.TypeName, e.Reason)
}

// Registry keeps one adapter per entity type name. It is safe for
// concurrent use. Each adapter is constructed at most once and
// concurrent first uses observe the same instance.
type Registry struct {
	factories sync.Map // type name -> func() any
	adapters  sync.Map // type name -> any (an Adapter[E, P])
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register records how the adapter of the typeName entity type may be
// constructed. Registering a name twice is an error.
func Register[E, P any](
	r *Registry, typeName string, construct func() Adapter[E, P],
) error {
	f := func() any { return construct() }
	if _, loaded := r.factories.LoadOrStore(typeName, f); loaded {
		return fmt.Errorf("wire adapter for %q is already registered", typeName)
	}
	return nil
}

// Lookup returns the adapter of the typeName entity type, constructing
// it on its first use. A missing registration, a registration with
// other types, or an invalid adapter causes a *MissingAdapterError.
func Lookup[E, P any](r *Registry, typeName string) (Adapter[E, P], error) {
	a, ok := r.adapters.Load(typeName)
	if !ok {
		f, found := r.factories.Load(typeName)
		if !found {
			return Adapter[E, P]{}, &MissingAdapterError{
				TypeName: typeName, Reason: "not registered",
			}
		}
		a, _ = r.adapters.LoadOrStore(typeName, f.(func() any)())
	}
	ad, ok := a.(Adapter[E, P])
	switch {
	case !ok:
		return Adapter[E, P]{}, &MissingAdapterError{
			TypeName: typeName,
			Reason:   fmt.Sprintf("registered as %T", a),
		}
	case !ad.Valid():
		return Adapter[E, P]{}, &MissingAdapterError{
			TypeName: typeName, Reason: "invalid conversion mode",
		}
	}
	return ad, nil
}

// Names returns the registered entity type names in sorted order.
func (r *Registry) Names() []string {
	var names []string
	r.factories.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	slices.Sort(names)
	return names
}
