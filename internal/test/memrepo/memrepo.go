// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memrepo provides in-memory implementations of the repo
// interfaces, so the use cases and resources may be tested without a
// database. Rows are stored as gob encoded copies, hence, callers may
// not modify stored entities through the pointers which they pass or
// receive. Transactions are serialized and a failed transaction
// restores all tables.
package memrepo

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/momeni/clean-sales/pkg/core/model"
	"github.com/momeni/clean-sales/pkg/core/repo"
)

// ErrRawSQL is returned by Exec and Query methods since raw SQL
// statements are not supported by the in-memory store.
var ErrRawSQL = errors.New("memrepo: raw SQL is not supported")

// Store keeps all in-memory tables and implements repo.Pool.
type Store struct {
	txMutex sync.Mutex // serializes transactions

	mutex  sync.Mutex // guards the following fields
	tables map[string]map[int64][]byte
	lastID int64
}

// New creates an empty Store.
func New() *Store {
	return &Store{tables: make(map[string]map[int64][]byte)}
}

// Conn passes a connection to handler.
func (s *Store) Conn(ctx context.Context, handler repo.ConnHandler) error {
	return handler(ctx, &Conn{s: s})
}

// Close does nothing. Rows are kept, so a Store may be inspected
// after its users close it.
func (s *Store) Close() error {
	return nil
}

// NextID returns a new unique identity. Identities are shared among
// all tables, like the PostgreSQL sequences which never repeat.
func (s *Store) NextID() int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lastID++
	return s.lastID
}

func (s *Store) snapshot() map[string]map[int64][]byte {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	snap := make(map[string]map[int64][]byte, len(s.tables))
	for name, rows := range s.tables {
		snap[name] = make(map[int64][]byte, len(rows))
		for id, row := range rows {
			snap[name][id] = row // encoded rows are never mutated
		}
	}
	return snap
}

func (s *Store) restore(snap map[string]map[int64][]byte) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.tables = snap
}

func (s *Store) load(table string, id int64) ([]byte, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	row, ok := s.tables[table][id]
	return row, ok
}

func (s *Store) loadAll(table string) [][]byte {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	rows := s.tables[table]
	ids := make([]int64, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	result := make([][]byte, 0, len(ids))
	for _, id := range ids {
		result = append(result, rows[id])
	}
	return result
}

func (s *Store) store(table string, id int64, row []byte) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	rows, ok := s.tables[table]
	if !ok {
		rows = make(map[int64][]byte)
		s.tables[table] = rows
	}
	rows[id] = row
}

func (s *Store) remove(table string, id int64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.tables[table], id)
}

// Conn is an in-memory connection.
type Conn struct {
	s *Store
}

// Tx runs handler in a serialized transaction. All tables are restored
// if handler fails or panics.
func (c *Conn) Tx(ctx context.Context, handler repo.TxHandler) (err error) {
	c.s.txMutex.Lock()
	defer c.s.txMutex.Unlock()
	snap := c.s.snapshot()
	defer func() {
		if r := recover(); r != nil {
			c.s.restore(snap)
			err = fmt.Errorf("panicked: %v", r)
		}
	}()
	if err = handler(ctx, &Tx{s: c.s}); err != nil {
		c.s.restore(snap)
		return fmt.Errorf("handler: %w", err)
	}
	return nil
}

func (c *Conn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, ErrRawSQL
}

func (c *Conn) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, ErrRawSQL
}

func (c *Conn) IsConn() {
}

// Tx is an in-memory transaction.
type Tx struct {
	s *Store
}

func (tx *Tx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, ErrRawSQL
}

func (tx *Tx) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, ErrRawSQL
}

func (tx *Tx) IsTx() {
}

func encode(v any) []byte {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		panic(fmt.Errorf("memrepo: encoding %T: %w", v, err))
	}
	return buf.Bytes()
}

func decode[E model.Entity](row []byte) E {
	var e E
	if err := gob.NewDecoder(bytes.NewReader(row)).Decode(&e); err != nil {
		panic(fmt.Errorf("memrepo: decoding %T: %w", e, err))
	}
	return e
}
