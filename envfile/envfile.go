// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package envfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/stacklok/envictus/env"
	"github.com/stacklok/envictus/logging"
)

// MissingPolicy controls what Parse does when the file does not exist.
type MissingPolicy string

// Missing file policies.
const (
	MissingError  MissingPolicy = "error"
	MissingWarn   MissingPolicy = "warn"
	MissingIgnore MissingPolicy = "ignore"
)

// Decryption selects how the file is decrypted before parsing.
type Decryption string

// Supported decryptions. DecryptNone reads the file as plain text.
const (
	DecryptNone Decryption = ""
	DecryptSops Decryption = "sops"
	DecryptAge  Decryption = "age"
)

var (
	// ErrNotFound is returned when the file is missing and the policy is MissingError.
	ErrNotFound = errors.New("env file not found")

	// ErrSopsNotFound is returned when the sops binary cannot be run.
	ErrSopsNotFound = errors.New(
		"SOPS binary not found. Install it from https://github.com/getsops/sops or ensure it's in your PATH")

	// ErrDecrypt is returned when the file could not be decrypted with the available keys.
	ErrDecrypt = errors.New("decryption failed")

	// ErrInvalidOptions is returned for unknown policies or decryptions.
	ErrInvalidOptions = errors.New("invalid env file options")
)

// Options configures Parse. The zero value reads a plain file and fails when
// it is missing.
type Options struct {
	OnMissing MissingPolicy
	Decrypt   Decryption

	// AgeIdentityFile holds the age identities used by DecryptAge.
	AgeIdentityFile string

	// SopsBinary overrides the sops executable. Defaults to "sops".
	SopsBinary string

	// Env is consulted for SOPS_AGE_KEY_FILE. Defaults to the process environment.
	Env env.Reader

	Logger *slog.Logger
}

// Validate reports unknown policies or decryptions.
func (o Options) Validate() error {
	switch o.OnMissing {
	case "", MissingError, MissingWarn, MissingIgnore:
	default:
		return fmt.Errorf("%w: onMissing must be one of error, warn, ignore; got %q", ErrInvalidOptions, o.OnMissing)
	}
	switch o.Decrypt {
	case DecryptNone, DecryptSops, DecryptAge:
	default:
		return fmt.Errorf("%w: decrypt must be one of sops, age; got %q", ErrInvalidOptions, o.Decrypt)
	}
	return nil
}

func (o Options) reader() env.Reader {
	if o.Env == nil {
		return &env.OSReader{}
	}
	return o.Env
}

// Parse reads the env file at path and returns its variables.
//
// A missing file is handled according to opts.OnMissing. Any failure to read,
// decrypt or parse an existing file is wrapped as
// "failed to read env file: <path>".
func Parse(ctx context.Context, path string, opts Options) (map[string]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := logging.OrDefault(opts.Logger)

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read env file: %s: %w", path, err)
		}
		switch opts.OnMissing {
		case MissingWarn:
			logger.Warn("env file not found", "path", path)
			return map[string]string{}, nil
		case MissingIgnore:
			return map[string]string{}, nil
		default:
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
	}

	content, err := read(ctx, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file: %s: %w", path, err)
	}

	vars, err := godotenv.Unmarshal(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to read env file: %s: %w", path, err)
	}
	logger.Debug("loaded env file", "path", path, "variables", len(vars))
	return vars, nil
}

func read(ctx context.Context, path string, opts Options) ([]byte, error) {
	switch opts.Decrypt {
	case DecryptSops:
		return decryptSops(ctx, path, opts.SopsBinary)
	case DecryptAge:
		return decryptAge(path, opts.AgeIdentityFile, opts.reader())
	default:
		return os.ReadFile(path) // #nosec G304 - path comes from the user's own config
	}
}
