// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Duration is a time.Duration which can be decoded from YAML files and
// environment variables (e.g., "250ms" or "1m30s") and is rendered in
// a human-readable format.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler, parsing data with
// the time.ParseDuration format. The `d` is updated only on success.
func (d *Duration) UnmarshalText(data []byte) error {
	dd, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}
	*d = Duration(dd)
	return nil
}

// String returns `d` like time.Duration, but drops the zero trailing
// minutes and seconds, e.g., 2h instead of 2h0m0s.
func (d Duration) String() string {
	s := time.Duration(d).String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return s
}

// MarshalText implements encoding.TextMarshaler using String.
func (d *Duration) MarshalText() ([]byte, error) {
	if d == nil {
		return nil, errors.New("nil duration")
	}
	return []byte(d.String()), nil
}

// LogValue implements slog.LogValuer.
func (d *Duration) LogValue() slog.Value {
	if d == nil {
		return slog.StringValue("nil-duration")
	}
	return slog.DurationValue(time.Duration(*d))
}
