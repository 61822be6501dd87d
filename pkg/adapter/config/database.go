// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgpassfile"
	"github.com/momeni/clean-sales/pkg/adapter/config/settings"
	"github.com/momeni/clean-sales/pkg/adapter/db/postgres"
	"github.com/momeni/clean-sales/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/clean-sales/pkg/adapter/hash/scram"
	"github.com/momeni/clean-sales/pkg/core/log"
	"github.com/momeni/clean-sales/pkg/core/repo"
	scrami "github.com/momeni/clean-sales/pkg/core/scram"
)

// Acceptable ranges of the database pool settings.
var (
	slowThresholdRange = settings.Range[settings.Duration]{
		Min: settings.Duration(time.Millisecond),
		Max: settings.Duration(time.Minute),
	}
	openConnsRange = settings.Range[int]{Min: 1, Max: 1000}
)

// Database contains the database related configuration settings.
type Database struct {
	Host    string `env:"HOST"`                     // DBMS server address
	Port    int    `env:"PORT"`                     // DBMS server port
	Name    string `env:"NAME"`                     // database name
	PassDir string `yaml:"pass-dir" env:"PASS_DIR"` // passwords dir

	// RoleSuffix specifies a possibly empty suffix for the database
	// role names. Normally, repo.AdminRole and repo.NormalRole roles
	// are used. In the parallel test cases, it is required to create
	// multiple non-colliding roles in the same database cluster and
	// so having a unique (per test) role suffix helps with parallelism.
	RoleSuffix repo.Role `yaml:"role-suffix,omitempty" env:"ROLE_SUFFIX"`

	// AuthMethod specifies the database authentication method name.
	// Only scram-sha-1 and scram-sha-256 methods are supported.
	// The scram-sha-256 is the default value.
	AuthMethod string `yaml:"auth-method,omitempty" env:"AUTH_METHOD"`

	// SlowThreshold is the duration of queries which are logged as
	// slow queries.
	SlowThreshold *settings.Duration `yaml:"slow-threshold,omitempty" env:"SLOW_THRESHOLD"`

	// LogQueries makes all SQL queries to be logged.
	LogQueries *bool `yaml:"log-queries,omitempty" env:"LOG_QUERIES"`

	// MaxOpenConns limits the number of open connections of each pool.
	MaxOpenConns *int `yaml:"max-open-conns,omitempty" env:"MAX_OPEN_CONNS"`

	// hasher is instantiated based on the AuthMethod and is used by
	// the NewSchemaRepo method.
	hasher scrami.Hasher `yaml:"-"`
}

// passFiles are the names of the pgpass formatted files of the pass
// dir. The second one holds the renewed passwords until the renewal
// transaction is committed.
var passFiles = [...]string{".pgpass", ".pgpass.new"}

// ConnectionPool connects to the database as the r role (suffixed by
// d.RoleSuffix), using its password in the .pgpass file of d.PassDir.
// Lines of that file conform with the pgpass format:
//
//	host:port:dbname:role:password
//
// An interrupted initialization may have renewed the passwords only
// in the .pgpass.new file. So if the first file fails, the second one
// is tried and after a successful connection, it replaces the first.
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (*postgres.Pool, error) {
	opts := d.poolOptions()
	var errs []error
	for i, name := range passFiles {
		path := filepath.Join(d.PassDir, name)
		u, err := d.ConnectionURL(r, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("using %q pass-file: %w", path, err))
			continue
		}
		p, err := postgres.NewPool(ctx, u, opts...)
		if err != nil {
			log.Warn(ctx, "failed to connect",
				slog.String("pass-file", name), log.Err("err", err),
			)
			errs = append(errs, fmt.Errorf("connecting by %q: %w", path, err))
			continue
		}
		if i > 0 {
			orgPath := filepath.Join(d.PassDir, passFiles[0])
			if err = os.Rename(path, orgPath); err != nil {
				p.Close()
				return nil, fmt.Errorf("os.Rename: %w", err)
			}
		}
		return p, nil
	}
	return nil, errors.Join(errs...)
}

func (d Database) poolOptions() []postgres.PoolOption {
	var opts []postgres.PoolOption
	if d.SlowThreshold != nil {
		opts = append(opts, postgres.WithSlowThreshold(
			time.Duration(*d.SlowThreshold),
		))
	}
	if d.LogQueries != nil && *d.LogQueries {
		opts = append(opts, postgres.WithQueryLogging())
	}
	if d.MaxOpenConns != nil {
		opts = append(opts, postgres.WithMaxOpenConns(*d.MaxOpenConns))
	}
	return opts
}

// ConnectionURL returns the database connection URL of the r role
// (suffixed by d.RoleSuffix). Its password is looked up in the `path`
// pgpass file, which may also have empty or #-commented lines.
func (d Database) ConnectionURL(
	r repo.Role, path string,
) (string, error) {
	pf, err := pgpassfile.ReadPassfile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	r = r + d.RoleSuffix
	pass := pf.FindPassword(d.Host, strconv.Itoa(d.Port), d.Name, string(r))
	if pass == "" {
		return "", errors.New("no matching password line")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(string(r), pass),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   d.Name,
	}
	return u.String(), nil
}

// ConnectionInfo returns the host, port, and database name of the
// connection information which are kept in this Database instance.
func (d Database) ConnectionInfo() (dbName, host string, port int) {
	return d.Name, d.Host, d.Port
}

// NewSchemaRepo instantiates a fresh Schema repository, passing the
// role name suffix and the password hasher. The ValidateAndNormalize
// method must be called beforehand, so the hasher is created.
func (d Database) NewSchemaRepo() repo.Schema {
	return schemarp.New(d.RoleSuffix, d.hasher)
}

// RenewPasswords generates a random password per role, writes them
// in the .pgpass.new file of d.PassDir, and then passes them to change
// for updating the roles in the database. The returned finalizer must
// be called after the change transaction is committed, so .pgpass.new
// replaces the .pgpass file. Role names are suffixed by d.RoleSuffix
// in the pass-file, while change receives them without the suffix.
func (d Database) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	passwords := make([]string, len(roles))
	var sb strings.Builder
	for i, r := range roles {
		if passwords[i], err = newPassword(); err != nil {
			return nil, fmt.Errorf("generating password of %q: %w", r, err)
		}
		fmt.Fprintf(&sb, "%s:%d:%s:%s:%s\n",
			d.Host, d.Port, d.Name, r+d.RoleSuffix, passwords[i],
		)
	}
	orgPath := filepath.Join(d.PassDir, passFiles[0])
	newPath := filepath.Join(d.PassDir, passFiles[1])
	if err = os.WriteFile(newPath, []byte(sb.String()), 0o600); err != nil {
		return nil, fmt.Errorf("writing %q file: %w", newPath, err)
	}
	if err = change(ctx, roles, passwords); err != nil {
		return nil, fmt.Errorf("passwords change callback: %w", err)
	}
	return func() error {
		return os.Rename(newPath, orgPath)
	}, nil
}

// newPassword returns 128 random bits, encoded by base64 without any
// padding, so it contains no character with a special meaning in the
// pgpass format.
func newPassword() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawStdEncoding.EncodeToString(b), nil
}

// ValidateAndNormalize validates the database settings and returns an
// error if they were not acceptable. Out of range pool settings are
// replaced by their nearest boundary values and logged as warnings.
func (d *Database) ValidateAndNormalize() error {
	switch am := d.AuthMethod; am {
	case "scram-sha-1":
		d.hasher = scram.SHA1()
	case "":
		d.AuthMethod = "scram-sha-256"
		fallthrough
	case "scram-sha-256":
		d.hasher = scram.SHA256()
	default:
		return fmt.Errorf(
			"unsupported database authentication method: %q", am,
		)
	}
	if d.Port <= 0 || d.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", d.Port)
	}
	ctx := context.Background()
	if err := slowThresholdRange.Clamp(d.SlowThreshold); err != nil {
		log.Warn(
			ctx, "slow threshold is adjusted by boundary values",
			log.Valuer("value", &err.Value),
			log.Err("violation", err),
		)
	}
	if err := openConnsRange.Clamp(d.MaxOpenConns); err != nil {
		log.Warn(
			ctx, "max open connections is adjusted by boundary values",
			slog.Int("value", err.Value),
			log.Err("violation", err),
		)
	}
	return nil
}
