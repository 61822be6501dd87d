// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import "context"

// RequestIDKey is the attribute key of request identifiers.
const RequestIDKey = "request-id"

type requestIDCtxKey struct{}

// WithRequestID returns a child of ctx which carries the id request
// identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey{}, id)
}

// RequestID returns the request identifier which was attached to ctx
// by WithRequestID. The ok flag is false if ctx has no identifier.
func RequestID(ctx context.Context) (id string, ok bool) {
	if ctx == nil {
		return "", false
	}
	id, ok = ctx.Value(requestIDCtxKey{}).(string)
	return id, ok && id != ""
}
