// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/stacklok/envictus/executor"
	"github.com/stacklok/envictus/exitcode"
)

var errNoCommand = errors.New("no command given; usage: envictus [flags] -- <command> [args...]")

// runCommand resolves the environment and runs args with it. Nothing is
// started when resolution reports issues.
func (a *app) runCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errNoCommand
	}
	ctx := cmd.Context()

	r, err := a.resolve(ctx)
	if err != nil {
		return err
	}
	if !r.result.OK() {
		a.errOut.issues(r.result.Issues)
		return exitcode.Silent(exitcode.Failure)
	}

	code, err := executor.Run(ctx, args, r.result.Env, executor.Options{
		Inherited: r.environ,
		Stdin:     a.stdin,
		Stdout:    a.stdout,
		Stderr:    a.stderr,
		Logger:    a.logger,
	})
	if err != nil {
		return err
	}
	if code != exitcode.OK {
		return exitcode.Silent(code)
	}
	return nil
}
