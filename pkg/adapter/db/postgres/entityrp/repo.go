// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package entityrp provides a generic reification of the repo.Entities
// interface using GORM, and its specializations for the sales entities
// which need extra search or stock adjustment queries.
//
// Query functions are generic over the postgres.Queryer constraint,
// so they may be used with both of connections and transactions. The
// Repo type wraps them as the repo.EntitiesConnQueryer and
// repo.EntitiesTxQueryer interfaces.
package entityrp

import (
	"context"

	"github.com/momeni/clean-sales/pkg/adapter/db/postgres"
	"github.com/momeni/clean-sales/pkg/core/repo"
	"gorm.io/gorm"
)

// Repo represents the repository of E entities, with T as their
// struct type.
type Repo[T any, E Ptr[T]] struct {
	preloads []preload
	omits    []string
	children []string
}

type preload struct {
	assoc string
	order string
}

// Option configures a Repo.
type Option func(r *settings)

type settings struct {
	preloads []preload
	omits    []string
	children []string
}

// WithPreload option makes the repository to load the assoc nested
// association (e.g., "City.District") whenever entities are found.
func WithPreload(assoc string) Option {
	return func(s *settings) {
		s.preloads = append(s.preloads, preload{assoc: assoc})
	}
}

// WithOrderedPreload is like WithPreload, but sorts the loaded
// association rows by the order SQL clause (e.g., "id").
func WithOrderedPreload(assoc, order string) Option {
	return func(s *settings) {
		s.preloads = append(s.preloads, preload{assoc, order})
	}
}

// WithOmit option prevents the assocs associations (e.g., "Customer" or
// "Items.Product") to be saved alongside an entity. Only their foreign
// key columns are saved.
func WithOmit(assocs ...string) Option {
	return func(s *settings) {
		s.omits = append(s.omits, assocs...)
	}
}

// WithChildren option makes the repository to delete the assocs owned
// associations (e.g., "Items") before deleting an entity.
func WithChildren(assocs ...string) Option {
	return func(s *settings) {
		s.children = append(s.children, assocs...)
	}
}

// New instantiates a Repo for E entities.
func New[T any, E Ptr[T]](opts ...Option) *Repo[T, E] {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	return &Repo[T, E]{
		preloads: s.preloads,
		omits:    s.omits,
		children: s.children,
	}
}

func (r *Repo[T, E]) preload(gdb *gorm.DB) *gorm.DB {
	for _, p := range r.preloads {
		if p.order == "" {
			gdb = gdb.Preload(p.assoc)
			continue
		}
		order := p.order
		gdb = gdb.Preload(p.assoc, func(db *gorm.DB) *gorm.DB {
			return db.Order(order)
		})
	}
	return gdb
}

type connQueryer[T any, E Ptr[T]] struct {
	*postgres.Conn
	r *Repo[T, E]
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn as created by this adapter layer.
// Otherwise, it will panic.
func (r *Repo[T, E]) Conn(c repo.Conn) repo.EntitiesConnQueryer[E] {
	cc := c.(*postgres.Conn)
	return connQueryer[T, E]{Conn: cc, r: r}
}

func (cq connQueryer[T, E]) FindByID(ctx context.Context, id int64) (E, bool, error) {
	return FindByID(ctx, cq.Conn, cq.r, id)
}

func (cq connQueryer[T, E]) FindAll(ctx context.Context) ([]E, error) {
	return FindAll(ctx, cq.Conn, cq.r)
}

type txQueryer[T any, E Ptr[T]] struct {
	*postgres.Tx
	r *Repo[T, E]
}

// Tx unwraps the given repo.Tx instance, expecting to find an instance
// of *postgres.Tx as created by this adapter layer. Otherwise, it will
// panic.
func (r *Repo[T, E]) Tx(tx repo.Tx) repo.EntitiesTxQueryer[E] {
	tt := tx.(*postgres.Tx)
	return txQueryer[T, E]{Tx: tt, r: r}
}

func (tq txQueryer[T, E]) FindByID(ctx context.Context, id int64) (E, bool, error) {
	return FindByID(ctx, tq.Tx, tq.r, id)
}

func (tq txQueryer[T, E]) FindAll(ctx context.Context) ([]E, error) {
	return FindAll(ctx, tq.Tx, tq.r)
}

func (tq txQueryer[T, E]) Save(ctx context.Context, e E) (E, error) {
	return Save(ctx, tq.Tx, tq.r, e)
}

func (tq txQueryer[T, E]) Delete(ctx context.Context, e E) error {
	return Delete(ctx, tq.Tx, tq.r, e)
}
