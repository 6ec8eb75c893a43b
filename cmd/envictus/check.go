// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stacklok/envictus/exitcode"
	"github.com/stacklok/envictus/watch"
)

func (a *app) checkCommand() *cobra.Command {
	var watchFiles bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the environment without running a command",
		Long: `Resolve and validate the environment, then report the result.
Exits 0 when the environment is valid and 1 otherwise, which makes it suitable
for CI pipelines.

With --watch, the check is repeated whenever the config file or an env file
it references changes, until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if watchFiles {
				return a.watchCheck(cmd.Context())
			}
			_, err := a.check(cmd.Context())
			return err
		},
	}
	cmd.Flags().BoolVarP(&watchFiles, "watch", "w", false, "re-check when the config or env files change")
	return cmd
}

// check resolves once and prints the outcome. It returns the files the
// resolution read, when the config could be loaded.
func (a *app) check(ctx context.Context) ([]string, error) {
	r, err := a.resolve(ctx)
	if err != nil {
		return nil, err
	}
	if !r.result.OK() {
		a.errOut.issues(r.result.Issues)
		return r.files, exitcode.Silent(exitcode.Failure)
	}

	a.out.ok("Environment is valid")
	if a.opts.verbose {
		a.out.note(fmt.Sprintf("  mode %q from %s, %d variables", r.result.Mode, r.result.ModeSource, len(r.result.Env)))
	}
	return r.files, nil
}

// watchCheck re-checks on every change until interrupted. The exit status
// reflects the last check.
func (a *app) watchCheck(ctx context.Context) error {
	ctx, stop := signalContext(ctx)
	defer stop()

	files, err := a.check(ctx)
	if len(files) == 0 {
		// Without a loadable config there is nothing to watch.
		return err
	}
	failed := err != nil

	// TODO: re-register when an edited config references different env files.
	w, err := watch.New(files, watch.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.out.note(fmt.Sprintf("Watching %d file(s) for changes. Press Ctrl+C to stop.", len(files)))

	err = w.Run(ctx, func(path string) {
		a.out.note("Changed: " + path)
		_, err := a.check(ctx)
		failed = err != nil
		if err != nil && !exitcode.IsSilent(err) {
			a.errOut.failure("Error: " + err.Error())
		}
	})
	if err != nil {
		return err
	}
	if failed {
		return exitcode.Silent(exitcode.Failure)
	}
	return nil
}

func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
