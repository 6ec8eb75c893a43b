// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package fields is the declarative schema backend: an ordered list of typed
environment variables with defaults and constraints.

	s, err := fields.New(
		fields.Field{Name: "NODE_ENV", Type: fields.TypeEnum,
			Values: []string{"development", "production", "test"}, Default: "development"},
		fields.Field{Name: "PORT", Type: fields.TypeInteger, Min: ptr(1.0), Max: ptr(65535.0)},
		fields.Field{Name: "DEBUG", Type: fields.TypeBoolean, Optional: true},
	)

Values are coerced the way environment variables need: "3000" becomes a
number, "true"/"yes"/"1" become booleans, "a,b" becomes a list. Undeclared keys
are dropped from the validated output, so only declared variables are exported.
*/
package fields
