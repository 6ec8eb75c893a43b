// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package recovery turns panics into errors.
//
// The CLI runs each command through Run so that a bug in a schema adapter
// or a rule produces an error message and an exit code rather than a
// goroutine dump on the user's terminal. The stack is logged at debug level.
//
// # Basic Usage
//
//	err := recovery.Run(logger, func() error {
//		return root.ExecuteContext(ctx)
//	})
package recovery
