// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package envfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"
	"filippo.io/age/armor"
	"github.com/adrg/xdg"

	"github.com/stacklok/envictus/env"
)

// AgeKeyFileEnv names the variable sops uses for its age identities.
const AgeKeyFileEnv = "SOPS_AGE_KEY_FILE"

// AgeIdentityPath returns the identity file used when none is configured:
// SOPS_AGE_KEY_FILE if set, else $XDG_CONFIG_HOME/sops/age/keys.txt.
func AgeIdentityPath(explicit string, reader env.Reader) string {
	if explicit != "" {
		return explicit
	}
	if p := reader.Getenv(AgeKeyFileEnv); p != "" {
		return p
	}
	return filepath.Join(xdg.ConfigHome, "sops", "age", "keys.txt")
}

func decryptAge(path, identityFile string, reader env.Reader) ([]byte, error) {
	keyPath := AgeIdentityPath(identityFile, reader)
	keys, err := os.ReadFile(keyPath) // #nosec G304 - identity file chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read age identities: %w", err)
	}
	identities, err := age.ParseIdentities(bytes.NewReader(keys))
	if err != nil {
		return nil, fmt.Errorf("failed to parse age identities in %s: %w", keyPath, err)
	}

	f, err := os.Open(path) // #nosec G304 - path comes from the user's own config
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src := bufio.NewReader(f)
	var in io.Reader = src
	if head, _ := src.Peek(len(armor.Header)); string(head) == armor.Header {
		in = armor.NewReader(src)
	}

	plain, err := age.Decrypt(in, identities...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecrypt, err)
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecrypt, err)
	}
	return out, nil
}
