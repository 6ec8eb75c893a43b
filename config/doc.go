// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package config loads envictus configuration files.

A configuration names a schema, a discriminator and per-mode defaults:

	discriminator: APP_ENV
	schema:
	  fields:
	    APP_ENV: {type: enum, values: [local, prod], default: local}
	    PORT: {type: integer, default: 3000}
	  rules:
	    - name: unprivileged
	      expr: env.PORT >= 1024
	defaults:
	  local:
	    PORT: 3000
	  prod:
	    envFiles:
	      - {path: .env.prod.enc, decrypt: sops}
	    PORT: 8080

YAML files are decoded with gopkg.in/yaml.v3. Files ending in .json or .jsonc
are accepted too; comments and trailing commas are stripped with
github.com/tidwall/jsonc first. Either way the declaration order of defaults
is preserved, since the first declared mode is the fallback when no mode can
be detected.

Use Discover to find the file for a directory, and Load to read it.
*/
package config
