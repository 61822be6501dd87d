// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/momeni/clean-sales/pkg/core/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})))
	t.Cleanup(func() {
		slog.SetDefault(prev)
	})
	return buf
}

func TestRequestIDAttr(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)
	ctx := log.WithRequestID(context.Background(), "r-1")
	log.Info(ctx, "saved", slog.Int64("id", 7))
	log.Error(context.Background(), "failed", log.Err("err", errors.New("boom")))
	log.Debug(ctx, "hidden")

	out := buf.String()
	assert.Contains(t, out, `level=INFO msg=saved request-id=r-1 id=7`)
	assert.Contains(t, out, `level=ERROR msg=failed err=boom`)
	assert.NotContains(t, out, "hidden")
}

func TestRequestID(t *testing.T) {
	_, ok := log.RequestID(context.Background())
	assert.False(t, ok)

	_, ok = log.RequestID(log.WithRequestID(context.Background(), ""))
	assert.False(t, ok, "empty identifiers are ignored")

	id, ok := log.RequestID(log.WithRequestID(context.Background(), "abc"))
	require.True(t, ok)
	assert.Equal(t, "abc", id)
}

func TestErrNil(t *testing.T) {
	assert.Equal(t, "no-error", log.Err("err", nil).Value.String())
}
