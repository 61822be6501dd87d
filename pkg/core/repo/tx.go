// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Tx is a READ-COMMITTED database transaction. Each sales use case
// operation (e.g., saving a purchase with its items and reserving the
// stock of their products) runs in one Tx, so it is applied or rolled
// back as a whole. A Tx must not be shared by concurrent goroutines.
//
// Concurrent purchases of one product are serialized by the row lock
// of the conditional stock update, so a stale amount which was read
// earlier in the same Tx may not oversell a product.
type Tx interface {
	Queryer

	// IsTx tells a Tx apart from a Conn, since both are Queryer.
	IsTx()
}
