// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/clean-sales/pkg/core/repo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool represents a database connection pool. It embeds the *gorm.DB,
// hence, may be used like GORM from within the repository packages.
type Pool struct {
	*gorm.DB
}

type poolSettings struct {
	logLevel      logger.LogLevel
	slowThreshold time.Duration
	maxOpenConns  int
}

// PoolOption is a functional option for the NewPool function.
type PoolOption func(ps *poolSettings) error

// WithSlowThreshold option configures the duration of queries which
// should be logged as slow queries.
func WithSlowThreshold(d time.Duration) PoolOption {
	return func(ps *poolSettings) error {
		if d <= 0 {
			return fmt.Errorf("slow threshold (%v) is not positive", d)
		}
		ps.slowThreshold = d
		return nil
	}
}

// WithQueryLogging option makes the pool to log all SQL queries.
func WithQueryLogging() PoolOption {
	return func(ps *poolSettings) error {
		ps.logLevel = logger.Info
		return nil
	}
}

// WithMaxOpenConns option limits the number of open connections.
func WithMaxOpenConns(n int) PoolOption {
	return func(ps *poolSettings) error {
		if n <= 0 {
			return errors.New("max open connections must be positive")
		}
		ps.maxOpenConns = n
		return nil
	}
}

// NewPool connects to the url database and returns a Pool after
// testing that connection.
func NewPool(ctx context.Context, url string, opts ...PoolOption) (*Pool, error) {
	ps := &poolSettings{
		logLevel:      logger.Warn,
		slowThreshold: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		if err := opt(ps); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	gdb, err := gorm.Open(postgres.Open(url), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	gdb = gdb.Session(&gorm.Session{
		Logger: logger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo),
			logger.Config{
				SlowThreshold:             ps.slowThreshold,
				LogLevel:                  ps.logLevel,
				IgnoreRecordNotFoundError: true,
				// Set to false in order to log with replaced vars
				ParameterizedQueries: true,
			},
		),
	})
	pool := &Pool{DB: gdb}
	if ps.maxOpenConns > 0 {
		db, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("obtaining sql.DB: %w", err)
		}
		db.SetMaxOpenConns(ps.maxOpenConns)
	}
	err = pool.Conn(ctx, NoOpConnHandler)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

type ConnHandler = repo.ConnHandler

// NoOpConnHandler is a ConnHandler which does nothing. It is useful
// for testing the connectivity of a pool.
func NoOpConnHandler(context.Context, repo.Conn) error {
	return nil
}

// Conn acquires a connection from p and passes it to f.
func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	return p.DB.WithContext(ctx).Connection(func(c *gorm.DB) error {
		return f(ctx, &Conn{session{c}})
	})
}

// Close closes all connections of p.
func (p *Pool) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
