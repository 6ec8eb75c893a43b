// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/stacklok/envictus/env"
)

// FileNames are the configuration files Discover looks for, in order.
var FileNames = []string{"envictus.yaml", "envictus.yml", "envictus.json", "envictus.jsonc"}

const packageJSON = "package.json"

type packageManifest struct {
	Envictus *struct {
		ConfigPath string `json:"configPath"`
	} `json:"envictus"`
}

// Discover returns the path of the configuration to load from dir.
//
// The order is: explicit, the "envictus.configPath" key of dir/package.json,
// the first of FileNames present in dir, then envictus/envictus.yaml under
// the XDG config home. A missing explicit or package.json path is an error.
func Discover(dir, explicit string, reader env.Reader) (string, error) {
	if explicit != "" {
		return existing(join(dir, explicit))
	}

	if p, ok := packageConfigPath(dir); ok {
		return existing(join(dir, p))
	}

	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if isFile(p) {
			return p, nil
		}
	}

	if p := filepath.Join(configHome(reader), "envictus", FileNames[0]); isFile(p) {
		return p, nil
	}

	return "", fmt.Errorf("%w in %s (looked for %s)", ErrNotFound, dir, strings.Join(FileNames, ", "))
}

// packageConfigPath reads "envictus.configPath" from dir/package.json.
// A missing or malformed package.json is not an error.
func packageConfigPath(dir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(dir, packageJSON)) // #nosec G304 - fixed file name
	if err != nil {
		return "", false
	}
	var m packageManifest
	if err := json.Unmarshal(data, &m); err != nil || m.Envictus == nil || m.Envictus.ConfigPath == "" {
		return "", false
	}
	return m.Envictus.ConfigPath, true
}

func configHome(reader env.Reader) string {
	if reader != nil {
		if p := reader.Getenv("XDG_CONFIG_HOME"); p != "" {
			return p
		}
	}
	return xdg.ConfigHome
}

func join(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func existing(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("config path %s is a directory", path)
	}
	return path, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
