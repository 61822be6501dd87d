// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package serdser_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/momeni/clean-sales/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/clean-sales/pkg/core/cerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(
		http.MethodPost, "/", strings.NewReader(body),
	)
	return c, w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) serdser.ErrorBody {
	t.Helper()
	var eb serdser.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &eb), w.Body.String())
	return eb
}

func TestSerErr(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", cerr.NotFoundf("%s not found", "City"), 404, "City not found"},
		{"wrapped", errors.Join(errors.New("ctx"), cerr.InvalidStatef("busy")), 409, "busy"},
		{"plain", errors.New("connection refused"), 500, serdser.UnexpectedMessage},
		{"unexpected", cerr.Unexpected(errors.New("query: boom")), 500, serdser.UnexpectedMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newContext("")
			serdser.SerErr(c, tc.err)
			assert.True(t, c.IsAborted())
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, serdser.ErrorBody{
				Status:      tc.status,
				Description: http.StatusText(tc.status),
				Message:     tc.msg,
			}, errorBody(t, w))
		})
	}
}

func TestBind(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	c, _ := newContext(`{"name": "Palmas"}`)
	var p payload
	require.True(t, serdser.Bind(c, &p))
	assert.Equal(t, "Palmas", p.Name)

	for body, msg := range map[string]string{
		"":          "Request body is missing",
		"null":      "Request body is missing",
		" null\n":   "Request body is missing",
		`{"name":5`: "Malformed JSON body",
	} {
		c, w := newContext(body)
		var p payload
		assert.False(t, serdser.Bind(c, &p), "body: %q", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.True(t,
			strings.HasPrefix(errorBody(t, w).Message, msg), "body: %q", body,
		)
	}
}

func TestParamID(t *testing.T) {
	for raw, want := range map[string]int64{"7": 7, "0": 0, "-2": -2} {
		c, w := newContext("")
		c.Params = gin.Params{{Key: "id", Value: raw}}
		id, ok := serdser.ParamID(c, "id")
		assert.True(t, ok, "raw: %s", raw)
		assert.Equal(t, want, id)
		assert.False(t, c.IsAborted())
		assert.Equal(t, http.StatusOK, w.Code)
	}

	c, w := newContext("")
	c.Params = gin.Params{{Key: "id", Value: "x1"}}
	_, ok := serdser.ParamID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `Path param id="x1" is not a valid identity`,
		errorBody(t, w).Message,
	)
}
