// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scram_test

import (
	"strings"
	"testing"

	"github.com/momeni/clean-sales/pkg/adapter/hash/scram"
	corescram "github.com/momeni/clean-sales/pkg/core/scram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ corescram.Hasher = scram.SHA256()

func TestHashFormat(t *testing.T) {
	for _, m := range []*scram.Mechanism{scram.SHA1(), scram.SHA256()} {
		t.Run(m.Name(), func(t *testing.T) {
			h, err := m.Hash("s3cret", "", corescram.DefaultIterations)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(h, m.Name()+"$15000:"), h)
			assert.Equal(t, 2, strings.Count(h, "$"), h)

			ok, err := m.Verify("s3cret", h)
			require.NoError(t, err)
			assert.True(t, ok)
			ok, err = m.Verify("other", h)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestDeterministicSalt(t *testing.T) {
	m := scram.SHA256()
	salt := "c2FsdHNhbHRzYWx0"
	h1, err := m.Hash("pass", salt, scram.MinIterations)
	require.NoError(t, err)
	h2, err := m.Hash("pass", salt, scram.MinIterations)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestInvalidArguments(t *testing.T) {
	m := scram.SHA256()
	_, err := m.Hash("", "", corescram.DefaultIterations)
	assert.Error(t, err, "empty password")
	_, err = m.Hash("pass", "", scram.MinIterations-1)
	assert.Error(t, err, "few iterations")
	_, err = m.Hash("pass", "not base64!", corescram.DefaultIterations)
	assert.Error(t, err, "bad salt")
	_, err = m.Verify("pass", "SCRAM-SHA-1$4096:c2FsdA==$a:b")
	assert.Error(t, err, "mechanism mismatch")
}
