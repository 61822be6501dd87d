// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/clean-sales/pkg/adapter/config"
	"github.com/momeni/clean-sales/pkg/core/usecase/migrationuc"
	"github.com/spf13/cobra"
)

const credsRenewalMessage = `
Passwords of the admin and normal roles are renewed. The new passwords
are written in the .pgpass.new file of the database.pass-dir directory
before the transaction is committed, and that file replaces the old
.pgpass file afterwards. If the command is interrupted, running it again
continues with whichever of the two files is valid.`

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For a fresh installation in a development or production environment,
the init-dev or init-prod may be used respectively.`,
}

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Initialize database contents with development suitable data",
	Long: `Initialize database contents with development suitable data.
The csweb schema is dropped (if it exists) and created again, so all
existing sales records are lost. Then the tables are created and a few
districts, cities, customers, and products are inserted.
` + credsRenewalMessage,
	RunE: initDB((*migrationuc.InitDBUseCase).InitDev),
	Args: cobra.NoArgs,
}

var initProdCmd = &cobra.Command{
	Use:   "init-prod",
	Short: "Initialize database contents with production suitable data",
	Long: `Initialize database contents with production suitable data.
The csweb schema is dropped (if it exists) and created again, so all
existing sales records are lost. Then the tables are created and left
empty. No changes will be made to the config file itself.
` + credsRenewalMessage,
	RunE: initDB((*migrationuc.InitDBUseCase).InitProd),
	Args: cobra.NoArgs,
}

func initDB(
	action func(*migrationuc.InitDBUseCase, context.Context) error,
) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()
		c, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
		}
		if err = action(migrationuc.NewInitDB(c), ctx); err != nil {
			return fmt.Errorf("initializing DB: %w", err)
		}
		return nil
	}
}

func init() {
	dbCmd.AddCommand(initDevCmd, initProdCmd)
	rootCmd.AddCommand(dbCmd)
}
