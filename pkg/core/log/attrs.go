// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"log/slog"
)

// Valuer returns an Attr for a slog.LogValuer, e.g., a settings group.
func Valuer(key string, value slog.LogValuer) slog.Attr {
	return slog.Any(key, value)
}

// Err returns an Attr holding the message of an error, or "no-error"
// if it is nil.
func Err(key string, value error) slog.Attr {
	if value == nil {
		return slog.String(key, "no-error")
	}
	return slog.String(key, value.Error())
}

// Entity returns an "entity" group Attr which identifies a sales
// entity by its type name and id.
func Entity(typeName string, id int64) slog.Attr {
	return slog.Group("entity",
		slog.String("type", typeName), slog.Int64("id", id),
	)
}
