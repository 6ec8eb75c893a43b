// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package url

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Validate checks that raw is an absolute URL with a scheme and a host.
// When schemes is non-empty the URL's scheme must be one of them
// (compared case-insensitively).
func Validate(raw string, schemes ...string) error {
	if raw == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	if strings.ContainsAny(raw, "\r\n\x00") {
		return fmt.Errorf("URL cannot contain control characters")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	// Must have a scheme
	if parsed.Scheme == "" {
		return fmt.Errorf("URL must include a scheme (e.g., https://): %s", raw)
	}

	if len(schemes) > 0 && !slices.ContainsFunc(schemes, func(s string) bool {
		return strings.EqualFold(s, parsed.Scheme)
	}) {
		return fmt.Errorf("URL scheme %q is not allowed, must be one of: %s", parsed.Scheme, strings.Join(schemes, ", "))
	}

	// Must have a host
	if parsed.Host == "" {
		return fmt.Errorf("URL must include a host: %s", raw)
	}

	return nil
}
