// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the helper types and functions which are
// used by the config package for decoding, defaulting, and verifying
// the optional settings. Optional settings are kept as pointers, so a
// missing setting may be told apart from its zero value.
package settings

// Default points a missing (*t) setting to a copy of def.
func Default[T any](t **T, def T) {
	if *t == nil {
		*t = &def
	}
}
