// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"context"
	"log/slog"

	"github.com/stacklok/envictus/config"
	"github.com/stacklok/envictus/logging"
)

// ModeSource records where the discriminator value came from.
type ModeSource string

// Mode sources, in priority order.
const (
	SourceOverride         ModeSource = "override"
	SourceEnvironment      ModeSource = "environment"
	SourceSchemaDefault    ModeSource = "schema-default"
	SourceFirstDefaultsKey ModeSource = "first-defaults-key"
	SourceNone             ModeSource = "none"
)

// DetectMode determines the discriminator value for cfg.
//
// An undeterminable mode is not an error: the result is "" with SourceNone,
// and no defaults bucket applies. Falling back to the first declared bucket
// always logs a warning.
func DetectMode(
	ctx context.Context,
	cfg *config.Config,
	environ map[string]string,
	override string,
	logger *slog.Logger,
	verbose bool,
) (string, ModeSource) {
	logger = logging.OrDefault(logger)
	key := cfg.DiscriminatorKey()

	report := func(mode string, source ModeSource) (string, ModeSource) {
		if verbose {
			logger.Info("resolved mode", "discriminator", key, "mode", mode, "source", string(source))
		}
		return mode, source
	}

	if override != "" {
		return report(override, SourceOverride)
	}

	if v := environ[key]; v != "" {
		return report(v, SourceEnvironment)
	}

	if mode, ok := schemaDefault(ctx, cfg, key, logger); ok {
		return report(mode, SourceSchemaDefault)
	}

	if first, ok := cfg.Defaults.First(); ok {
		logger.Warn("could not determine mode, falling back to the first defaults key",
			"discriminator", key, "mode", first)
		return report(first, SourceFirstDefaultsKey)
	}

	if verbose {
		logger.Info("no mode detected, no defaults apply", "discriminator", key)
	}
	return "", SourceNone
}

// schemaDefault validates an empty candidate and reads the discriminator
// from the output. Failures yield nothing.
func schemaDefault(ctx context.Context, cfg *config.Config, key string, logger *slog.Logger) (string, bool) {
	if cfg.Schema == nil {
		return "", false
	}
	res, err := cfg.Schema.Validate(ctx, map[string]any{})
	if err != nil {
		logger.Debug("schema failed while probing for a default mode", "error", err)
		return "", false
	}
	if !res.OK() {
		return "", false
	}
	mode, ok := res.Value[key].(string)
	if !ok || mode == "" {
		return "", false
	}
	return mode, true
}
