// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram exports the expected interfaces for Salted Challenge
// Response Authentication Mechanism (SCRAM). For the corresponding
// implementation, check the pkg/adapter/hash/scram package.
//
// The sales roles passwords are renewed during the database
// initialization. Passwords are hashed before being sent in the ALTER
// ROLE statements, so a logged DDL query may not reveal them. The
// client and server conversations of SCRAM are managed by PostgreSQL
// and its driver, hence, only hashing is required here.
package scram

// DefaultIterations is the PBKDF2 iterations count of the role
// passwords, as recommended by RFC 7677.
const DefaultIterations = 15000

// Hasher computes the SCRAM stored credentials of a password for a
// fixed underlying hash function (e.g., SHA1 or SHA256).
type Hasher interface {
	// Hash computes a hash string in the standard SCRAM format:
	//
	//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
	//
	// The pass must be non-empty. An empty salt asks for a random
	// one, otherwise, it must be base64 encoded. The iters must be at
	// least 4096.
	Hash(pass, salt string, iters int) (string, error)
}
