// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stacklok/envictus/config"
	"github.com/stacklok/envictus/env"
	"github.com/stacklok/envictus/envfile"
	"github.com/stacklok/envictus/exitcode"
	"github.com/stacklok/envictus/logging"
	"github.com/stacklok/envictus/recovery"
	"github.com/stacklok/envictus/resolver"
)

// Environment variables that provide flag defaults.
const (
	configEnvVar = "ENVICTUS_CONFIG"
	modeEnvVar   = "ENVICTUS_MODE"
)

// environment is everything the CLI reads from or writes to the outside world.
type environment struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	env    env.Reader
	// dir is the working directory. Empty means os.Getwd.
	dir string
}

type globalOptions struct {
	config     string
	mode       string
	noValidate bool
	verbose    bool
	envFiles   []string
	logFormat  string
}

type app struct {
	environment
	opts   globalOptions
	logger *slog.Logger
	out    *printer
	errOut *printer
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, e environment) int {
	a := &app{
		environment: e,
		logger:      logging.New(logging.WithOutput(e.stderr)),
		out:         newPrinter(e.stdout),
		errOut:      newPrinter(e.stderr),
	}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(e.stdin)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)

	err := recovery.Run(a.logger, func() error {
		return root.ExecuteContext(ctx)
	})
	if err != nil && !exitcode.IsSilent(err) {
		a.errOut.failure("Error: " + err.Error())
	}
	return exitcode.Code(err)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "envictus [flags] -- <command> [args...]",
		Short: "Validate environment variables and run a command with them",
		Long: `envictus loads a schema describing the environment variables a program
expects, fills in defaults for the current mode (development, production, ...),
overlays the live environment, validates the result and runs the command with it.

The mode is taken from --mode, the discriminator variable (NODE_ENV by
default), the schema's own default, or the first mode listed under defaults.`,
		Example: `  envictus -- npm start
  envictus --mode production -- ./server
  envictus check
  envictus printenv --format json`,
		Version:           version,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runCommand,
	}
	root.SetVersionTemplate("envictus {{.Version}}\n")
	root.Flags().SetInterspersed(false)

	a.opts.bind(root.PersistentFlags(), a.env)

	root.AddCommand(
		a.checkCommand(),
		a.printenvCommand(),
		a.initCommand(),
		a.versionCommand(),
	)
	return root
}

// bind registers the global flags. ENVICTUS_CONFIG and ENVICTUS_MODE supply
// defaults for --config and --mode.
func (o *globalOptions) bind(flags *pflag.FlagSet, reader env.Reader) {
	flags.StringVarP(&o.config, "config", "c", reader.Getenv(configEnvVar),
		"config file (default: discovered in the working directory, env "+configEnvVar+")")
	flags.StringVarP(&o.mode, "mode", "m", reader.Getenv(modeEnvVar),
		"override the discriminator value (env "+modeEnvVar+")")
	flags.BoolVar(&o.noValidate, "no-validate", false, "skip schema validation")
	flags.BoolVar(&o.verbose, "verbose", false, "log how the environment was resolved")
	flags.StringSliceVar(&o.envFiles, "env", nil,
		"comma-separated env files to load; the live environment takes precedence")
	flags.StringVar(&o.logFormat, "log-format", logging.FormatText.String(), "log format: text or json")
}

// setup builds the logger from the global flags.
func (a *app) setup(*cobra.Command, []string) error {
	format, err := logging.ParseFormat(a.opts.logFormat)
	if err != nil {
		return err
	}
	level := slog.LevelInfo
	if a.opts.verbose {
		level = slog.LevelDebug
	}
	a.logger = logging.New(
		logging.WithOutput(a.stderr),
		logging.WithFormat(format),
		logging.WithLevel(level),
	)
	return nil
}

func (a *app) workdir() (string, error) {
	if a.dir != "" {
		return a.dir, nil
	}
	return os.Getwd()
}

func (a *app) abs(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	wd, err := a.workdir()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, path), nil
}

// resolution is the outcome of loading the config and resolving against it.
type resolution struct {
	cfg    *config.Config
	result *resolver.ResolvedEnv
	// environ is the live environment including --env files.
	environ map[string]string
	// files lists every file the resolution read.
	files []string
}

// liveEnvironment returns the live environment with --env files layered
// underneath it, and the absolute paths of those files.
func (a *app) liveEnvironment(ctx context.Context) (map[string]string, []string, error) {
	live := a.env.Environ()
	if len(a.opts.envFiles) == 0 {
		return live, nil, nil
	}

	merged := make(map[string]string)
	paths := make([]string, 0, len(a.opts.envFiles))
	for _, f := range a.opts.envFiles {
		path, err := a.abs(f)
		if err != nil {
			return nil, nil, err
		}
		vars, err := envfile.Parse(ctx, path, envfile.Options{Env: a.env, Logger: a.logger})
		if err != nil {
			return nil, nil, err
		}
		maps.Copy(merged, vars)
		paths = append(paths, path)
	}
	maps.Copy(merged, live)
	return merged, paths, nil
}

func (a *app) resolve(ctx context.Context) (*resolution, error) {
	wd, err := a.workdir()
	if err != nil {
		return nil, err
	}
	path, err := config.Discover(wd, a.opts.config, a.env)
	if err != nil {
		return nil, err
	}

	environ, envFiles, err := a.liveEnvironment(ctx)
	if err != nil {
		return nil, err
	}
	reader := env.MapReader(environ)

	cfg, err := config.Load(ctx, path, config.WithEnv(reader), config.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}

	res, err := resolver.Resolve(ctx, cfg, reader, resolver.Options{
		Validate: !a.opts.noValidate,
		Mode:     a.opts.mode,
		Verbose:  a.opts.verbose,
		Logger:   a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve environment: %w", err)
	}

	files := append([]string{cfg.Path}, cfg.EnvFiles...)
	files = append(files, envFiles...)
	return &resolution{cfg: cfg, result: res, environ: environ, files: files}, nil
}
