// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"cmp"
	"fmt"
)

// Range is the closed [Min, Max] interval of acceptable values of an
// optional setting.
type Range[T cmp.Ordered] struct {
	Min, Max T
}

// OutOfRangeError reports a Value which was replaced by the nearest
// boundary of its Range.
type OutOfRangeError[T cmp.Ordered] struct {
	Value T
	Range Range[T]
}

func (e *OutOfRangeError[T]) Error() string {
	return fmt.Sprintf(
		"%v is out of the [%v, %v] range", e.Value, e.Range.Min, e.Range.Max,
	)
}

// Clamp replaces a non-nil *value which falls outside of r with its
// nearest boundary value and returns an error holding the original
// value. A nil value is a missing setting and is kept unchanged.
func (r Range[T]) Clamp(value *T) *OutOfRangeError[T] {
	if value == nil {
		return nil
	}
	v := *value
	switch {
	case v < r.Min:
		*value = r.Min
	case v > r.Max:
		*value = r.Max
	default:
		return nil
	}
	return &OutOfRangeError[T]{Value: v, Range: r}
}
