// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/momeni/clean-sales/pkg/adapter/config/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleDuration_String() {
	for _, d := range []time.Duration{
		2 * time.Hour, 90 * time.Minute, 3 * time.Minute,
		90 * time.Second, 250 * time.Millisecond,
	} {
		fmt.Println(settings.Duration(d))
	}
	// Output:
	// 2h
	// 1h30m
	// 3m
	// 1m30s
	// 250ms
}

func TestDurationText(t *testing.T) {
	var d settings.Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, settings.Duration(90*time.Second), d)
	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(b))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
	assert.Equal(t, settings.Duration(90*time.Second), d, "kept on errors")

	var nilDur *settings.Duration
	_, err = nilDur.MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "nil-duration", nilDur.LogValue().String())
}

func TestDefault(t *testing.T) {
	var b *bool
	settings.Default(&b, true)
	require.NotNil(t, b)
	assert.True(t, *b)

	n := 7
	p := &n
	settings.Default(&p, 3)
	assert.Same(t, &n, p)
	assert.Equal(t, 7, n)
}

func TestClamp(t *testing.T) {
	r := settings.Range[int]{Min: 1, Max: 10}
	assert.Nil(t, r.Clamp(nil))

	v := 0
	err := r.Clamp(&v)
	require.NotNil(t, err)
	assert.Equal(t, 0, err.Value)
	assert.Equal(t, 1, v)
	assert.EqualError(t, err, "0 is out of the [1, 10] range")

	v = 20
	err = r.Clamp(&v)
	require.NotNil(t, err)
	assert.Equal(t, 20, err.Value)
	assert.Equal(t, 10, v)

	v = 10
	assert.Nil(t, r.Clamp(&v))
	assert.Equal(t, 10, v)
}

func ExampleRange_Clamp() {
	r := settings.Range[settings.Duration]{
		Min: settings.Duration(time.Millisecond),
		Max: settings.Duration(time.Minute),
	}
	d := settings.Duration(2 * time.Hour)
	err := r.Clamp(&d)
	fmt.Println(err, d)
	// Output:
	// 2h is out of the [1ms, 1m] range 1m
}
