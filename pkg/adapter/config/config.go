// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the csweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// Settings may be overridden by environment variables which are named
// after their yaml path, e.g., CSWEB_DATABASE_HOST overrides the
// database.host setting.
// The parsed and validated configurations are passed to their ultimate
// components as a series of individual params (for the mandatory items)
// and a series of functional options (for the optional items).
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/momeni/clean-sales/pkg/adapter/config/settings"
	"github.com/momeni/clean-sales/pkg/adapter/db/postgres/schema"
	"github.com/momeni/clean-sales/pkg/core/log"
	"github.com/momeni/clean-sales/pkg/core/repo"
	"github.com/momeni/clean-sales/pkg/core/usecase/salesuc"
	"github.com/momeni/clean-sales/pkg/core/validation"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the common prefix of all environment variables which
// may override the configuration file settings.
const EnvPrefix = "CSWEB_"

// DefaultBasePath is the path prefix of all REST APIs, unless
// the api.base-path setting is provided.
const DefaultBasePath = "/api/csweb/v1"

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is implemented
// with primitive fields or structs which are defined locally, so the
// configuration format stays intact while other layers can change.
type Config struct {
	Database Database `envPrefix:"DATABASE_"`
	Gin      Gin      `envPrefix:"GIN_"`
	API      API      `yaml:"api" envPrefix:"API_"`
	Usecases Usecases `envPrefix:"USECASES_"`
}

// API contains the REST API settings.
type API struct {
	// BasePath is the path prefix of all REST APIs.
	BasePath string `yaml:"base-path" env:"BASE_PATH"`
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Purchases Purchases `envPrefix:"PURCHASES_"`
}

// Purchases contains the configuration settings for the purchases use
// cases. Fields are defined as pointers, so it is possible to detect
// if they are or are not initialized.
type Purchases struct {
	// ReserveStock indicates that inserting a purchase must decrease
	// the stock of its products atomically, and deleting it must
	// return them to the stock.
	ReserveStock *bool `yaml:"reserve-stock" env:"RESERVE_STOCK"`
}

// LogValue implements slog.LogValuer, so the use cases settings may
// be logged as a group.
func (u Usecases) LogValue() slog.Value {
	reserve := u.Purchases.ReserveStock != nil && *u.Purchases.ReserveStock
	return slog.GroupValue(slog.Group(
		"purchases", slog.Bool("reserve-stock", reserve),
	))
}

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
// Environment variables with the EnvPrefix prefix override the file
// contents.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data, nil)
}

// Parse unmarshals the data byte slice and loads a Config instance
// assuming that it contains the Config settings. Extra items in the
// data will be ignored and missing items will take their default
// values. Thereafter, settings are overridden by the environ variables
// (or the process environment variables if environ is nil) and
// validated and normalized.
func Parse(data []byte, environ map[string]string) (*Config, error) {
	n := &yaml.Node{}
	if err := yaml.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if l := len(n.Content); l != 1 {
		return nil, fmt.Errorf(
			"found %d children nodes, instead of 1 mapping child", l,
		)
	}
	c := &Config{}
	if err := n.Decode(c); err != nil {
		return nil, fmt.Errorf("decoding yaml node: %w", err)
	}
	err := env.ParseWithOptions(c, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	})
	if err != nil {
		return nil, fmt.Errorf("overriding by env vars: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	settings.Default(&c.Gin.Logger, true)
	settings.Default(&c.Gin.Recovery, true)
	settings.Default(&c.Usecases.Purchases.ReserveStock, false)
	if c.Gin.Address == "" {
		c.Gin.Address = DefaultAddress
	}
	if c.API.BasePath == "" {
		c.API.BasePath = DefaultBasePath
	}
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	return nil
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("connecting as %q role: %w", r, err)
	}
	return p, nil
}

// ConnectionInfo returns the host, port, and database name of the
// connection information which are kept in this Config instance.
func (c *Config) ConnectionInfo() (dbName, host string, port int) {
	return c.Database.ConnectionInfo()
}

// NewSchemaRepo instantiates a fresh Schema repository.
func (c *Config) NewSchemaRepo() repo.Schema {
	return c.Database.NewSchemaRepo()
}

// SchemaInitializer creates a repo.SchemaInitializer instance which
// wraps the given transaction argument and can be used to initialize
// the database with development or production suitable data.
func (c *Config) SchemaInitializer(tx repo.Tx) (
	repo.SchemaInitializer, error,
) {
	return schema.NewInitializer(tx), nil
}

// RenewPasswords generates new secure passwords for the given roles.
// See Database.RenewPasswords for details.
func (c *Config) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	return c.Database.RenewPasswords(ctx, change, roles...)
}

// NewSalesUseCases instantiates the use cases of all sales entities
// based on the usecases settings. The structs validator checks entity
// fields before they are saved.
func (c *Config) NewSalesUseCases(
	p repo.Pool, r salesuc.Repos, structs validation.Structs,
) (*salesuc.UseCases, error) {
	opts := make([]salesuc.Option, 0, 2)
	if structs != nil {
		opts = append(opts, salesuc.WithStructValidator(structs))
	}
	if *c.Usecases.Purchases.ReserveStock {
		opts = append(opts, salesuc.WithStockReservation())
	}
	ucs, err := salesuc.New(p, r, opts...)
	if err != nil {
		return nil, fmt.Errorf("salesuc.New: %w", err)
	}
	log.Info(context.Background(), "sales use cases are instantiated",
		log.Valuer("settings", c.Usecases),
	)
	return ucs, nil
}
