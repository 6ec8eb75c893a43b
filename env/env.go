// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package env

//go:generate mockgen -copyright_file=../.github/license-header.txt -source=env.go -destination=mocks/mock_reader.go -package=mocks Reader

import (
	"maps"
	"os"
	"strings"
)

// Reader defines an interface for environment variable access
type Reader interface {
	// Getenv returns the value of key, or "" when it is unset.
	Getenv(key string) string
	// LookupEnv reports whether key is set, and its value if so.
	LookupEnv(key string) (string, bool)
	// Environ returns a snapshot of every set variable.
	// Mutating the returned map does not affect the reader.
	Environ() map[string]string
}

// OSReader implements Reader using the standard os package
type OSReader struct{}

// Getenv returns the value of the environment variable named by the key
func (*OSReader) Getenv(key string) string {
	return os.Getenv(key)
}

// LookupEnv returns the value of the environment variable named by the key
// and whether it was set.
func (*OSReader) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Environ returns a snapshot of the process environment as a map.
func (*OSReader) Environ() map[string]string {
	return ParseEnviron(os.Environ())
}

// MapReader implements Reader over a fixed mapping. It is used by tests and by
// callers that resolve against a synthetic environment.
type MapReader map[string]string

// Getenv returns the value for key, or "" when absent.
func (m MapReader) Getenv(key string) string {
	return m[key]
}

// LookupEnv returns the value for key and whether it is present.
func (m MapReader) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Environ returns a copy of the mapping.
func (m MapReader) Environ() map[string]string {
	out := make(map[string]string, len(m))
	maps.Copy(out, m)
	return out
}

// ParseEnviron converts a "KEY=VALUE" slice, as returned by os.Environ, into a map.
// Values may contain "="; entries without one are skipped. Later entries win.
func ParseEnviron(environ []string) map[string]string {
	result := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		result[key] = value
	}
	return result
}

// FormatEnviron converts a map back into a "KEY=VALUE" slice suitable for exec.Cmd.Env.
func FormatEnviron(vars map[string]string) []string {
	out := make([]string, 0, len(vars))
	for k, v := range vars {
		out = append(out, k+"="+v)
	}
	return out
}
