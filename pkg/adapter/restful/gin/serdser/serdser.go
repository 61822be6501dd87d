// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser contains the serialization and deserialization
// helpers which are shared by all resource packages. Request bodies
// are bound and response bodies are rendered by gin, which uses the
// goccy/go-json package when built with the go_json tag. Errors are
// serialized as an ErrorBody with the HTTP status code which is carried
// by the *cerr.Error instances.
package serdser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/clean-sales/pkg/core/cerr"
	"github.com/momeni/clean-sales/pkg/core/log"
)

// UnexpectedMessage is reported to clients when an error has no known
// kind. The actual error is only logged.
const UnexpectedMessage = "An unexpected error occurred"

var errMissingBody = errors.New("Request body is missing")

// ErrorBody is the response body of all failed requests.
type ErrorBody struct {
	Status      int    `json:"status"`
	Description string `json:"description"`
	Message     string `json:"message"`
}

// Bind decodes the JSON request body into req. A missing, null, or
// malformed body is reported as a BadRequest error and false is
// returned, so the caller may return immediately.
func Bind(c *gin.Context, req any) bool {
	if c.Request.Body == nil {
		SerErr(c, cerr.BadRequest(errMissingBody))
		return false
	}
	err := c.ShouldBindBodyWith(req, binding.JSON)
	switch {
	case errors.Is(err, io.EOF):
		SerErr(c, cerr.BadRequest(errMissingBody))
		return false
	case err != nil:
		SerErr(c, cerr.BadRequest(fmt.Errorf("Malformed JSON body: %w", err)))
		return false
	}
	if body, ok := c.Get(gin.BodyBytesKey); ok {
		if b, _ := body.([]byte); bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
			SerErr(c, cerr.BadRequest(errMissingBody))
			return false
		}
	}
	return true
}

// ParamID parses the name path parameter as an identity. A malformed
// identity is reported as a BadRequest error and false is returned,
// so the caller may return immediately. Non-positive identities are
// well-formed and are left to match no entity.
func ParamID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		SerErr(c, cerr.BadRequest(fmt.Errorf(
			"Path param %s=%q is not a valid identity", name, raw,
		)))
		return 0, false
	}
	return id, true
}

// SerErr serializes err as an ErrorBody. The *cerr.Error instances
// determine the status code and message. Other errors are logged and
// reported as an internal server error without revealing their text.
func SerErr(c *gin.Context, err error) {
	ctx := c.Request.Context()
	var ce *cerr.Error
	if cerr.Is(err, cerr.KindUnexpected) || !errors.As(err, &ce) {
		log.Error(ctx, "request failed unexpectedly", log.Err("err", err))
		abort(c, http.StatusInternalServerError, UnexpectedMessage)
		return
	}
	log.Debug(ctx, "request is rejected",
		slog.String("kind", cerr.KindOf(err).String()),
	)
	abort(c, ce.HTTPStatusCode, ce.Message())
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Status:      status,
		Description: http.StatusText(status),
		Message:     msg,
	})
}
