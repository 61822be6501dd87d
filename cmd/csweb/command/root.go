// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands of the csweb
// sales service. Commands are organized using the cobra library.
// The root command starts the web server itself while the "db"
// sub-command groups the database initialization actions. The init-dev
// and init-prod actions recreate the sales schema and fill it with the
// development or production suitable data records respectively.
//
//	./csweb [-c /path/of/config.yaml]           # start web server
//	./csweb db init-dev [-c /path/of/config.yaml]
//	./csweb db init-prod [-c /path/of/config.yaml]
package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/momeni/clean-sales/pkg/adapter/config"
	"github.com/momeni/clean-sales/pkg/adapter/restful/gin"
	"github.com/momeni/clean-sales/pkg/adapter/restful/gin/routes"
	"github.com/momeni/clean-sales/pkg/core/log"
	"github.com/momeni/clean-sales/pkg/core/repo"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "csweb",
	Short: "A sales management web service",
	Long: `A sales management web service which keeps districts, cities,
customers, products, and purchases in a PostgreSQL database and exposes
CRUD REST APIs for all of them under the api.base-path prefix.
Purchases are accepted only when the stock of their products suffices,
and the stock may be reserved (decreased) by each accepted purchase if
the usecases.purchases.reserve-stock setting is enabled.
All settings are read from a yaml file and may be overridden by the
CSWEB_ prefixed environment variables.`,
	RunE: startWebServer,
	Args: cobra.NoArgs,
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	log.Info(ctx, "configs are loaded",
		slog.String("path", cfgPath),
		slog.String("address", c.Gin.Address),
		slog.Any("usecases", c.Usecases),
	)
	p, err := c.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	var e *gin.Engine = c.Gin.NewEngine()
	if err = routes.Register(ctx, e, p, c); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	if err = e.Run(c.Gin.Address); err != nil {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. Any error is printed
// on the standard error and makes the process exit with code 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		// the default path should usually be in the /etc directory
		cfgPath = "configs/sample-config.yaml"
	}
}
