// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/stacklok/envictus/exitcode"
)

const (
	formatDotenvName = "dotenv"
	formatJSONName   = "json"
)

func (a *app) printenvCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "printenv",
		Short: "Print the resolved environment",
		Long: `Print the resolved environment to stdout, as dotenv lines or a JSON object.
Useful for debugging, or for piping into other tools.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var render func(map[string]string) (string, error)
			switch format {
			case formatDotenvName:
				render = formatDotenv
			case formatJSONName:
				render = formatJSON
			default:
				return fmt.Errorf("invalid format %q: must be %s or %s", format, formatDotenvName, formatJSONName)
			}

			r, err := a.resolve(cmd.Context())
			if err != nil {
				return err
			}
			if !r.result.OK() {
				a.errOut.issues(r.result.Issues)
				return exitcode.Silent(exitcode.Failure)
			}

			out, err := render(r.result.Env)
			if err != nil {
				return err
			}
			_, err = io.WriteString(a.stdout, out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatDotenvName, "output format: dotenv or json")
	return cmd
}
