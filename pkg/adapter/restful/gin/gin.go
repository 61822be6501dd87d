// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin wraps the gin-gonic web framework, so other packages
// (e.g., the config package) may create an engine and its middlewares
// without depending on the gin-gonic package directly. The resource
// packages, such as crudrs, are kept in the sub-packages.
package gin

import (
	"log/slog"

	"github.com/FabienMht/ginslog/logger"
	"github.com/FabienMht/ginslog/recovery"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/clean-sales/pkg/core/log"
)

// RequestIDHeader is the HTTP header which carries request identifiers,
// both in requests and responses.
const RequestIDHeader = "X-Request-ID"

type (
	HandlerFunc = gin.HandlerFunc
	Engine      = gin.Engine
)

// New creates a gin-gonic engine without any default middlewares and
// registers the given middlewares in order.
func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.Use(middlewares...)
	return e
}

// Logger returns a middleware which logs each request with the default
// slog logger, so access logs share the format of other log records.
func Logger() HandlerFunc {
	return logger.New(slog.Default())
}

// Recovery returns a middleware which recovers from panics, logs them
// with the default slog logger, and responds with a 500 status code.
func Recovery() HandlerFunc {
	return recovery.New(slog.Default())
}

// RequestID returns a middleware which assigns an identifier to each
// request. A valid UUID in the RequestIDHeader header of the request
// is reused, otherwise a random UUID is generated. The identifier is
// attached to the request context, so all log records of that request
// carry it, and it is echoed back in the response header.
func RequestID() HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(
			log.WithRequestID(c.Request.Context(), id),
		)
		c.Next()
	}
}
