// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import "github.com/momeni/clean-sales/pkg/adapter/restful/gin"

// DefaultAddress is the listening address of the web server, unless
// the gin.address setting is provided.
const DefaultAddress = ":8080"

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized.
type Gin struct {
	Logger   *bool  `env:"LOGGER"`   // Whether to register gin.Logger()
	Recovery *bool  `env:"RECOVERY"` // Whether to register gin.Recovery()
	Address  string `env:"ADDRESS"`  // Listening host:port
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings. The request id middleware is always registered.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 3)
	middlewares = append(middlewares, gin.RequestID())
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}
