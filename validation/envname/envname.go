// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package envname provides validation functions for environment variable names.
package envname

import (
	"fmt"
	"regexp"
	"strings"
)

var validNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateName validates that name can be exported to a child process as an
// environment variable: ASCII letters, digits and underscores, not starting
// with a digit. Empty names, '=' and null bytes are rejected.
func ValidateName(name string) error {
	if name == "" || strings.TrimSpace(name) == "" {
		return fmt.Errorf("environment variable name cannot be empty or consist only of whitespace")
	}

	// Check for null bytes explicitly
	if strings.Contains(name, "\x00") {
		return fmt.Errorf("environment variable name cannot contain null bytes")
	}

	if strings.Contains(name, "=") {
		return fmt.Errorf("environment variable name cannot contain '=': %q", name)
	}

	if !validNameRegex.MatchString(name) {
		return fmt.Errorf("environment variable name can only contain letters, digits and underscores, and cannot start with a digit: %q", name)
	}

	return nil
}
