// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer runs a throwaway PostgreSQL container for the
// integration test suites. New starts the container and connects to
// it as the superuser, and NewSalesDB creates an empty database with
// its own admin role inside that container, so each suite (or each
// parallel test case) may run the db init use cases independently.
package dbcontainer

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/clean-sales/pkg/adapter/db/postgres"
	"github.com/stretchr/testify/assert"
)

// VersionEnv names the environment variable which may choose another
// PostgreSQL image version than DefaultVersion.
const VersionEnv = "CSWEB_TEST_POSTGRES_VERSION"

// DefaultVersion is the default PostgreSQL image version.
const DefaultVersion = "16"

// retryDelay is the pause between connection attempts while the
// container is starting up.
const retryDelay = 250 * time.Millisecond

// New starts a postgres container and connects to it as the container
// superuser. DOCKER_HOST must point to a docker or podman socket, e.g.,
// DOCKER_HOST=unix://$XDG_RUNTIME_DIR/podman/podman.sock for podman.
// The timeout limits the start up phase, while ctx is used for the
// shutdown too. The opts are passed to the postgres.NewPool function.
// Returned dfrs must be deferred by the caller (even if ok is false)
// in order to close the pool and remove the container.
func New(
	ctx context.Context,
	timeout time.Duration,
	t *testing.T,
	opts ...postgres.PoolOption,
) (
	pg *sqltestutil.PostgresContainer,
	pool *postgres.Pool,
	dfrs []func(),
	ok bool,
) {
	ctx2, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ver, found := os.LookupEnv(VersionEnv)
	if !found {
		ver = DefaultVersion
	}
	pg, err := sqltestutil.StartPostgresContainer(ctx2, ver)
	ok = assert.NoError(t, err, "failed to set up a test database")
	if !ok {
		return
	}
	dfrs = append(dfrs, func() {
		err := pg.Shutdown(ctx)
		assert.NoError(t, err, "failed to shutdown test database")
	})
	u := pg.ConnectionString()
	for {
		pool, err = postgres.NewPool(ctx2, u, opts...)
		if err == nil || ctx2.Err() != nil || !startingUp(err) {
			break
		}
		time.Sleep(retryDelay)
	}
	if ok = assert.NoError(t, err, "cannot connect to test database"); !ok {
		return
	}
	dfrs = append(dfrs, func() {
		err := pool.Close()
		assert.NoError(t, err, "failed to close the connections pool")
	})
	return
}

// startingUp reports if err may be caused by a container whose DBMS
// is not accepting connections yet.
func startingUp(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "57P03" // cannot_connect_now
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
