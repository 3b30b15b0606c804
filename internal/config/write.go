// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"shelf-cli/internal/issue"
)

const fileHeader = "# shelf configuration.\n# Roots are searched recursively for scripts containing bash functions.\n\n"

// Marshal renders a configuration as TOML, as written by
// 'shelf config init' and printed by 'shelf config show'.
func Marshal(cfg *Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

// WriteDefault creates the config file with default contents, creating
// the config directory as needed. An existing file is left untouched.
func WriteDefault() (string, error) {
	path, err := FilePath()
	if err != nil {
		return "", issue.WrapWithOperation(err, "locate config directory")
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", issue.WrapWithContext(err, "create config directory", filepath.Dir(path))
	}

	data, err := Marshal(DefaultConfig())
	if err != nil {
		return "", issue.WrapWithOperation(err, "render default configuration")
	}

	if err := os.WriteFile(path, append([]byte(fileHeader), data...), 0o644); err != nil {
		return "", issue.WrapWithContext(err, "write config file", path)
	}
	return path, nil
}
