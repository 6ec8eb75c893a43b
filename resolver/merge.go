// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"github.com/stacklok/envictus/config"
)

// MergeDefaults builds the validation candidate: the bucket for mode, then
// every live variable on top. A non-empty override is written to the
// discriminator last so it beats the live environment.
func MergeDefaults(mode string, cfg *config.Config, environ map[string]string, override string) map[string]any {
	candidate, ok := cfg.Defaults.Bucket(mode)
	if !ok {
		candidate = make(map[string]any, len(environ))
	}

	for k, v := range environ {
		candidate[k] = v
	}

	if override != "" {
		candidate[cfg.DiscriminatorKey()] = override
	}
	return candidate
}
