// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package executor runs a command with a resolved environment, forwarding
// termination signals and reporting the child's exit code.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/stacklok/envictus/env"
	"github.com/stacklok/envictus/exitcode"
	"github.com/stacklok/envictus/logging"
)

// ForwardedSignals are relayed from this process to the child.
var ForwardedSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT}

// DefaultWaitDelay bounds how long Run waits for the child after the context
// is canceled before killing it.
const DefaultWaitDelay = 10 * time.Second

// Options configures Run. Nil streams inherit this process's stdio.
type Options struct {
	// Inherited is the base environment. Nil means the process environment.
	Inherited map[string]string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger *slog.Logger
}

// MergeEnviron layers resolved over inherited and returns a sorted
// "KEY=VALUE" list.
func MergeEnviron(inherited, resolved map[string]string) []string {
	merged := make(map[string]string, len(inherited)+len(resolved))
	maps.Copy(merged, inherited)
	maps.Copy(merged, resolved)
	out := env.FormatEnviron(merged)
	slices.Sort(out)
	return out
}

// Run starts argv with the inherited environment plus resolved, waits for it
// and returns its exit code.
//
// A command that cannot be found yields 127 and one that cannot be executed
// 126, both with an error carrying that code. A child killed by signal n
// yields 128+n. A child exiting non-zero is not an error.
func Run(ctx context.Context, argv []string, resolved map[string]string, opts Options) (int, error) {
	if len(argv) == 0 {
		return exitcode.Failure, exitcode.New("no command given", exitcode.Failure)
	}
	logger := logging.OrDefault(opts.Logger)

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return startError(argv[0], err)
	}

	inherited := opts.Inherited
	if inherited == nil {
		inherited = env.ParseEnviron(os.Environ())
	}

	cmd := exec.CommandContext(ctx, path, argv[1:]...) // #nosec G204 - running the user's command is the point
	cmd.Args = argv
	cmd.Env = MergeEnviron(inherited, resolved)
	cmd.Stdin = orDefault(opts.Stdin, io.Reader(os.Stdin))
	cmd.Stdout = orDefault(opts.Stdout, io.Writer(os.Stdout))
	cmd.Stderr = orDefault(opts.Stderr, io.Writer(os.Stderr))
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = DefaultWaitDelay

	// Register before starting so no signal slips through unhandled.
	sigs := make(chan os.Signal, len(ForwardedSignals))
	signal.Notify(sigs, ForwardedSignals...)
	defer signal.Stop(sigs)

	if err := cmd.Start(); err != nil {
		return startError(argv[0], err)
	}
	logger.Debug("started command", "command", argv[0], "pid", cmd.Process.Pid)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigs:
				logger.Debug("forwarding signal", "signal", sig.String())
				_ = cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	err = cmd.Wait()
	close(done)

	code := ExitCode(err)
	if code < 0 {
		return exitcode.Failure, fmt.Errorf("failed to run %s: %w", argv[0], err)
	}
	logger.Debug("command exited", "command", argv[0], "code", code)
	return code, nil
}

// ExitCode maps the error returned by exec.Cmd.Wait to a shell-style exit
// code. It returns -1 when err does not describe an exit.
func ExitCode(err error) int {
	if err == nil {
		return exitcode.OK
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return -1
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return exitcode.SignalBase + int(ws.Signal())
	}
	return exitErr.ExitCode()
}

func startError(name string, err error) (int, error) {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return exitcode.NotFound, exitcode.WithCode(fmt.Errorf("command not found: %s", name), exitcode.NotFound)
	case errors.Is(err, fs.ErrPermission):
		return exitcode.NotExecutable, exitcode.WithCode(fmt.Errorf("permission denied: %s", name), exitcode.NotExecutable)
	default:
		return exitcode.Failure, exitcode.WithCode(fmt.Errorf("failed to start %s: %w", name, err), exitcode.Failure)
	}
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
