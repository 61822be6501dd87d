// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package main is the entry point of the csweb sales service.
//
// Build it with the go_json tag, so gin encodes and decodes JSON bodies
// with the goccy/go-json package:
//
//	go build -tags go_json ./cmd/csweb
package main

import "github.com/momeni/clean-sales/cmd/csweb/command"

func main() {
	command.Execute()
}
