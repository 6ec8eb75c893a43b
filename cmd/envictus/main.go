// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Command envictus validates environment variables against a schema, fills
// in per-mode defaults and runs a command with the result.
//
//	envictus -- npm start
//	envictus --mode production check
//	envictus printenv --format json
package main

import (
	"context"
	"os"

	"github.com/stacklok/envictus/env"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], environment{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		env:    &env.OSReader{},
	}))
}
