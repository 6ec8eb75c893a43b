// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package cel adds cross-field validation rules, written in CEL, on top of any
schema.Schema.

A field schema can say PORT is an integer; it cannot say "TLS_CERT is required
when NODE_ENV is production". Rules can:

	rules, err := cel.NewRules(fieldSchema,
		cel.Rule{
			Name:    "tls-in-production",
			Expr:    `env.NODE_ENV != "production" || "TLS_CERT" in env`,
			Field:   "TLS_CERT",
			Message: "required in production",
		},
	)

Each expression sees the inner schema's validated output as env, a map of
string to dyn, so coerced types apply: env.PORT is an int, env.DEBUG a bool.
Rules run only when the inner schema succeeds.

# Error Handling

Compilation errors are returned as structured types with location information:

	_, err := cel.NewRules(s, cel.Rule{Name: "r", Expr: `env.PORT >`})
	var parseErr *cel.ParseError
	if errors.As(err, &parseErr) {
		fmt.Println(parseErr.AsJSON())
	}

Rules that fail, or cannot be evaluated (for example env.X where X is
absent), become validation issues rather than errors.

# Limits

Expressions are limited in length ([DefaultMaxExpressionLength]) and runtime
cost ([DefaultCostLimit]). The Engine compiles its CEL environment lazily and
is safe for concurrent use.
*/
package cel
