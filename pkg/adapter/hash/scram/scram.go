// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram implements the SCRAM-SHA-256 and SCRAM-SHA-1 password
// hashing on top of the github.com/xdg-go/scram module. The produced
// strings may be passed to the ALTER ROLE statements of PostgreSQL
// instead of plaintext passwords.
package scram

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xdg-go/scram"
)

// MinIterations is the least acceptable PBKDF2 iterations count.
const MinIterations = 4096

// Mechanism implements the pkg/core/scram.Hasher interface for a fixed
// underlying hash function.
type Mechanism struct {
	hgf     scram.HashGeneratorFcn
	saltLen int // bytes
	name    string
}

// SHA1 returns the SCRAM-SHA-1 mechanism.
func SHA1() *Mechanism {
	return &Mechanism{hgf: scram.SHA1, saltLen: 160 / 8, name: "SCRAM-SHA-1"}
}

// SHA256 returns the SCRAM-SHA-256 mechanism which is the default
// authentication method of PostgreSQL.
func SHA256() *Mechanism {
	return &Mechanism{
		hgf: scram.SHA256, saltLen: 256 / 8, name: "SCRAM-SHA-256",
	}
}

// Name returns the mechanism name, e.g., SCRAM-SHA-256.
func (m *Mechanism) Name() string {
	return m.name
}

// Hash computes the stored credentials of pass and formats them as
//
//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
//
// The pass is normalized by the SASLprep profile of stringprep, so
// invalid passwords are reported as errors. An empty salt is replaced
// by random bytes, otherwise, it must be base64 encoded.
func (m *Mechanism) Hash(pass, salt string, iters int) (string, error) {
	switch {
	case pass == "":
		return "", errors.New("password must be non-empty")
	case iters < MinIterations:
		return "", fmt.Errorf(
			"iters (%d) is less than %d", iters, MinIterations,
		)
	}
	if salt == "" {
		b := make([]byte, m.saltLen)
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("creating random salt: %w", err)
		}
		salt = base64.StdEncoding.EncodeToString(b)
	}
	storedKey, serverKey, err := m.keys(pass, salt, iters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"%s$%d:%s$%s:%s", m.name, iters, salt,
		base64.StdEncoding.EncodeToString(storedKey),
		base64.StdEncoding.EncodeToString(serverKey),
	), nil
}

// Verify reports if pass matches the hashed string which must have
// been produced by the Hash method of the same mechanism.
func (m *Mechanism) Verify(pass, hashed string) (bool, error) {
	name, rest, ok := strings.Cut(hashed, "$")
	if !ok || name != m.name {
		return false, fmt.Errorf("not a %s hash", m.name)
	}
	factors, keys, ok := strings.Cut(rest, "$")
	if !ok {
		return false, errors.New("missing keys section")
	}
	itersStr, salt, ok := strings.Cut(factors, ":")
	if !ok {
		return false, errors.New("missing salt")
	}
	iters, err := strconv.Atoi(itersStr)
	if err != nil {
		return false, fmt.Errorf("parsing iterations: %w", err)
	}
	recomputed, err := m.Hash(pass, salt, iters)
	if err != nil {
		return false, err
	}
	_, want, _ := strings.Cut(recomputed, "$"+factors+"$")
	eq := subtle.ConstantTimeCompare([]byte(want), []byte(keys))
	return eq == 1, nil
}

func (m *Mechanism) keys(
	pass, salt string, iters int,
) (storedKey, serverKey []byte, err error) {
	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding base64 salt: %w", err)
	}
	// user and authzID do not affect the stored credentials
	c, err := m.hgf.NewClient("", pass, "")
	if err != nil {
		return nil, nil, fmt.Errorf("creating SCRAM client: %w", err)
	}
	sc := c.WithMinIterations(iters).GetStoredCredentials(scram.KeyFactors{
		Salt:  string(saltBytes),
		Iters: iters,
	})
	return sc.StoredKey, sc.ServerKey, nil
}
