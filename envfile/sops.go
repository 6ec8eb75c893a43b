// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package envfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const defaultSopsBinary = "sops"

func decryptSops(ctx context.Context, path, binary string) ([]byte, error) {
	if binary == "" {
		binary = defaultSopsBinary
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, "-d", path) // #nosec G204 - fixed arguments
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, sopsError(path, stderr.String(), err)
	}
	return stdout.Bytes(), nil
}

// sopsError maps common sops failures to actionable errors.
func sopsError(path, stderr string, runErr error) error {
	if errors.Is(runErr, exec.ErrNotFound) ||
		strings.Contains(stderr, "executable file not found") ||
		strings.Contains(stderr, "command not found") {
		return ErrSopsNotFound
	}

	if strings.Contains(stderr, "could not decrypt") || strings.Contains(stderr, "decryption failed") {
		return fmt.Errorf("%w: SOPS could not decrypt %s. Check that you have the correct decryption key", ErrDecrypt, path)
	}

	msg := strings.TrimSpace(stderr)
	if msg == "" {
		msg = runErr.Error()
	}
	return fmt.Errorf("SOPS decryption failed: %s", msg)
}
