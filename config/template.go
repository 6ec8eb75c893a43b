// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DefaultFileName is the file created by WriteTemplate when no path is given.
const DefaultFileName = "envictus.yaml"

const template = `# envictus configuration
discriminator: NODE_ENV

schema:
  fields:
    NODE_ENV:
      type: enum
      values: [development, production, test]
      default: development
    PORT:
      type: integer
      min: 1
      max: 65535
      default: 3000
    # Add your environment variables here

defaults:
  development:
    # Development-specific defaults
  production:
    # Production-specific defaults
  test:
    # Test-specific defaults
`

// Template returns the starter configuration.
func Template() string {
	return template
}

// WriteTemplate writes the starter configuration to path. It refuses to
// overwrite an existing file.
func WriteTemplate(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) // #nosec G302 G304 - config is not secret
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.WriteString(template); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
