// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package log is the structured logging facade of csweb. It logs on
// the default log/slog logger with statically typed slog.Attr values,
// so the adapters and use cases do not choose a handler themselves and
// avoid the interleaved key/value arguments of the slog functions.
//
// A request identifier may be attached to a context by WithRequestID.
// All records which are logged with that context (or its children)
// carry it as the request-id attribute, so log lines of one HTTP
// request may be correlated, even if they are emitted by the use cases
// or repositories which know nothing about HTTP.
package log

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// Debug logs msg and attrs with the given context at the debug level.
func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

// Info logs msg and attrs with the given context at the info level.
func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// Warn logs msg and attrs with the given context at the warning level.
func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

// Error logs msg and attrs with the given context at the error level.
func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelError, msg, attrs...)
}

// logAttrs must be called directly by the exported functions of this
// package, so the reported source line belongs to their caller.
func logAttrs(
	ctx context.Context,
	level slog.Level,
	msg string,
	attrs ...slog.Attr,
) {
	l := slog.Default()
	if !l.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	// skip [runtime.Callers, this function, its parent in log pkg]
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	if id, ok := RequestID(ctx); ok {
		r.AddAttrs(slog.String(RequestIDKey, id))
	}
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}
