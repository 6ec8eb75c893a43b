// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package url validates URL-typed environment values.

	if err := url.Validate("https://api.example.com/v1"); err != nil {
		// Handle invalid URL
	}

	// Restrict schemes
	err := url.Validate(dsn, "postgres", "postgresql")

A valid URL must:
  - Include a scheme
  - Include a host
  - Contain no CR, LF or null bytes
*/
package url
