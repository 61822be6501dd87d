// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

// Tx is the repo.Tx implementation. Its GORM method exposes the
// transaction to the repository packages.
type Tx struct {
	session
}

func (tx *Tx) IsTx() {
}
