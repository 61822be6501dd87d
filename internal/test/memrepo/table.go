// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memrepo

import (
	"context"
	"fmt"

	"github.com/momeni/clean-sales/pkg/core/model"
	"github.com/momeni/clean-sales/pkg/core/repo"
)

// Table is an in-memory repo.Entities[E] implementation.
type Table[E model.Entity] struct {
	s      *Store
	name   string
	unique []uniqueKey[E]
	assign func(e E, nextID func() int64)
	guards []deleteGuard[E]
}

type uniqueKey[E model.Entity] struct {
	constraint string
	key        func(E) string
}

type deleteGuard[E model.Entity] struct {
	constraint string
	referenced func(ctx context.Context, e E) bool
}

// TableOption configures a Table.
type TableOption[E model.Entity] func(t *Table[E])

// WithUnique emulates the `constraint` unique constraint which is
// violated when two rows have the same (non-empty) key.
func WithUnique[E model.Entity](
	constraint string, key func(E) string,
) TableOption[E] {
	return func(t *Table[E]) {
		t.unique = append(t.unique, uniqueKey[E]{constraint, key})
	}
}

// WithChildIDs registers a function which assigns identities to the
// owned children of entities (e.g., purchase items) before storing.
func WithChildIDs[E model.Entity](
	assign func(e E, nextID func() int64),
) TableOption[E] {
	return func(t *Table[E]) {
		t.assign = assign
	}
}

// WithDeleteGuard emulates the `constraint` foreign key constraint
// which is violated when a row is deleted while referenced reports
// that another row refers to it.
func WithDeleteGuard[E model.Entity](
	constraint string, referenced func(ctx context.Context, e E) bool,
) TableOption[E] {
	return func(t *Table[E]) {
		t.guards = append(t.guards, deleteGuard[E]{constraint, referenced})
	}
}

// NewTable creates a Table which keeps E entities in the s Store.
func NewTable[E model.Entity](
	s *Store, name string, opts ...TableOption[E],
) *Table[E] {
	t := &Table[E]{s: s, name: name}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Conn returns a connection-bound queryer.
func (t *Table[E]) Conn(repo.Conn) repo.EntitiesConnQueryer[E] {
	return queryer[E]{t}
}

// Tx returns a transaction-bound queryer.
func (t *Table[E]) Tx(repo.Tx) repo.EntitiesTxQueryer[E] {
	return queryer[E]{t}
}

// Put stores e as is, assigning a new identity if it has none.
// It bypasses the unique constraints and is useful for fixtures.
func (t *Table[E]) Put(e E) E {
	if e.IsInserting() {
		e.SetID(t.s.NextID())
	}
	if t.assign != nil {
		t.assign(e, t.s.NextID)
	}
	t.s.store(t.name, e.GetID(), encode(e))
	return decode[E](encode(e))
}

// Get returns a copy of the id row, if it exists.
func (t *Table[E]) Get(id int64) (e E, found bool) {
	row, ok := t.s.load(t.name, id)
	if !ok {
		return e, false
	}
	return decode[E](row), true
}

// Len returns the number of rows.
func (t *Table[E]) Len() int {
	return len(t.s.loadAll(t.name))
}

// All returns copies of all rows ordered by their identity.
func (t *Table[E]) All() []E {
	rows := t.s.loadAll(t.name)
	es := make([]E, 0, len(rows))
	for _, row := range rows {
		es = append(es, decode[E](row))
	}
	return es
}

type queryer[E model.Entity] struct {
	t *Table[E]
}

func (q queryer[E]) FindByID(_ context.Context, id int64) (E, bool, error) {
	e, found := q.t.Get(id)
	return e, found, nil
}

func (q queryer[E]) FindAll(context.Context) ([]E, error) {
	return q.t.All(), nil
}

func (q queryer[E]) Save(_ context.Context, e E) (E, error) {
	if rs, ok := any(e).(model.ReferenceSyncer); ok {
		rs.SyncReferences()
	}
	for _, uk := range q.t.unique {
		k := uk.key(e)
		if k == "" {
			continue
		}
		for _, other := range q.t.All() {
			if other.GetID() != e.GetID() && uk.key(other) == k {
				var zero E
				return zero, &repo.IntegrityViolation{
					Message: fmt.Sprintf(
						"duplicate key value violates unique constraint %q",
						uk.constraint,
					),
					Constraint: uk.constraint,
				}
			}
		}
	}
	return q.t.Put(e), nil
}

func (q queryer[E]) Delete(ctx context.Context, e E) error {
	for _, g := range q.t.guards {
		if g.referenced(ctx, e) {
			return &repo.IntegrityViolation{
				Message: fmt.Sprintf(
					"update or delete on table %q violates foreign key constraint %q",
					q.t.name, g.constraint,
				),
				Constraint: g.constraint,
			}
		}
	}
	q.t.s.remove(q.t.name, e.GetID())
	return nil
}
