// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package recovery

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/stacklok/envictus/exitcode"
	"github.com/stacklok/envictus/logging"
)

// ExitCode is returned for recovered panics (EX_SOFTWARE).
const ExitCode = 70

// Run calls fn and converts a panic into an error carrying ExitCode.
func Run(logger *slog.Logger, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.OrDefault(logger).Debug("recovered panic", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			err = exitcode.WithCode(fmt.Errorf("internal error: %v", r), ExitCode)
		}
	}()
	return fn()
}
