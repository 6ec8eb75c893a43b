// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/stacklok/envictus/config"
	"github.com/stacklok/envictus/exitcode"
)

func (a *app) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Create a starter config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			target := config.DefaultFileName
			if len(args) == 1 {
				target = args[0]
			}
			path, err := a.abs(target)
			if err != nil {
				return err
			}

			if err := config.WriteTemplate(path); err != nil {
				if errors.Is(err, config.ErrExists) {
					a.errOut.failure("Config file already exists: " + path)
					return exitcode.Silent(exitcode.Failure)
				}
				return err
			}

			a.out.ok("Created " + path)
			a.out.line("")
			a.out.line("Next steps:")
			a.out.line("  1. Edit " + target + " to define your environment schema")
			a.out.line("  2. Run: envictus check")
			a.out.line("  3. Run: envictus -- <your command>")
			return nil
		},
	}
}
