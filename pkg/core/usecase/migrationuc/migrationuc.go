// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migrationuc provides the database initialization use case.
// InitDBUseCase recreates the sales schema with development or
// production suitable data. This package also exposes the Settings
// interface which represents the expectations from the configuration
// file, so the use case may connect to the database with different
// roles and manage their passwords.
package migrationuc
