// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stacklok/envictus/config"
	"github.com/stacklok/envictus/env"
	"github.com/stacklok/envictus/logging"
	"github.com/stacklok/envictus/schema"
)

// Options configures Resolve.
type Options struct {
	// Validate runs the schema. When false, the merged candidate is
	// stringified unchecked.
	Validate bool
	// Mode overrides the discriminator value.
	Mode    string
	Verbose bool
	Logger  *slog.Logger
}

// ResolvedEnv is the outcome of a resolution. Exactly one of Issues or a
// populated Env is meaningful: when Issues is non-empty, Env is empty.
type ResolvedEnv struct {
	Env        map[string]string
	Issues     schema.Issues
	Mode       string
	ModeSource ModeSource
}

// OK reports whether the resolution produced no issues.
func (r *ResolvedEnv) OK() bool {
	return len(r.Issues) == 0
}

// Resolve runs the full pipeline against a single snapshot of reader.
func Resolve(ctx context.Context, cfg *config.Config, reader env.Reader, opts Options) (*ResolvedEnv, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if reader == nil {
		reader = &env.OSReader{}
	}
	logger := logging.OrDefault(opts.Logger)

	environ := reader.Environ()

	mode, source := DetectMode(ctx, cfg, environ, opts.Mode, logger, opts.Verbose)
	candidate := MergeDefaults(mode, cfg, environ, opts.Mode)

	out, issues, err := Finalize(ctx, cfg.Schema, candidate, opts.Validate)
	if err != nil {
		return nil, err
	}

	if opts.Verbose {
		logger.Info("resolved environment", "mode", mode, "variables", len(out), "issues", len(issues))
	}
	return &ResolvedEnv{Env: out, Issues: issues, Mode: mode, ModeSource: source}, nil
}
