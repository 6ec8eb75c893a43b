// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package env provides an interface-based abstraction for environment variable
access, enabling dependency injection and testing isolation.

# Basic Usage

Use OSReader to read environment variables via the standard os package:

	reader := &env.OSReader{}
	value := reader.Getenv("MY_VAR")
	snapshot := reader.Environ()

# Synthetic Environments

MapReader serves a fixed mapping. The resolver takes an env.Reader rather than
reading os.Environ directly, so a resolution can run against any mapping:

	reader := env.MapReader{"NODE_ENV": "production"}

# Testing

A generated mock is available in the mocks sub-package:

	ctrl := gomock.NewController(t)
	mock := mocks.NewMockReader(ctrl)
	mock.EXPECT().Environ().Return(map[string]string{"MY_VAR": "test-value"})

	result := myFunc(mock)
*/
package env
