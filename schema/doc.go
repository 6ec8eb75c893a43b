// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package schema defines the validation contract shared by every schema backend.

The resolver only ever calls [Schema.Validate]. Backends live in their own
packages:

  - schema/fields: declarative, coercing field definitions (the default)
  - schema/jsonschema: JSON Schema documents
  - cel: CEL rules layered on top of another Schema

A custom backend can be plugged in with [Func]:

	s := schema.Func(func(_ context.Context, in map[string]any) (schema.Result, error) {
		if in["API_KEY"] == nil {
			return schema.Failure(schema.NewIssue("required", "API_KEY")), nil
		}
		return schema.Success(in), nil
	})
*/
package schema
