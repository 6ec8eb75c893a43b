// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package logging provides the pre-configured [log/slog.Logger] factory used by
the envictus CLI and libraries.

# Defaults

  - Format: text ([FormatText]) via [log/slog.TextHandler]
  - Level: INFO ([log/slog.LevelInfo])
  - Output: [os.Stderr]
  - Timestamps: [time.RFC3339]

Logs always go to stderr. Stdout belongs to printenv output and to the
wrapped command.

# Basic Usage

	logger := logging.New()
	logger.Warn("env file not found", "path", ".env.local")

# Configuration

	format, err := logging.ParseFormat(flagValue)
	logger := logging.New(
		logging.WithFormat(format),
		logging.WithLevel(slog.LevelDebug),
	)

# Testing

Inject a buffer to capture log output in tests:

	var buf bytes.Buffer
	logger := logging.New(logging.WithOutput(&buf))
	// inspect buf.String()

Library packages accept a *slog.Logger and use [OrDefault] when none is given.
*/
package logging
