// SPDX-License-Identifier: MPL-2.0

// Package config loads and persists the shelf configuration: the
// search roots the catalog is built from, the shell used for
// execution, and UI behavior. Configuration lives in a TOML file under
// the platform config directory and can be overridden per-key through
// SHELF_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"shelf-cli/internal/issue"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "shelf"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
)

type (
	// Config is the persisted user configuration.
	Config struct {
		// Roots are the directories the catalog is built from.
		Roots []string `mapstructure:"roots" toml:"roots" comment:"Directories searched for scripts."`
		// Ignore lists directory names excluded from the walk. Empty
		// means the built-in list (VCS metadata, editor state).
		Ignore []string `mapstructure:"ignore" toml:"ignore,omitempty" comment:"Directory names excluded from the search."`
		// Shell is the interpreter used to run functions. Empty means
		// bash from PATH.
		Shell string `mapstructure:"shell" toml:"shell,omitempty" comment:"Interpreter for running functions (default: bash from PATH)."`
		// TempDir overrides where transient wrapper scripts are written.
		TempDir string `mapstructure:"temp_dir" toml:"temp_dir,omitempty" comment:"Override for the wrapper temp directory."`
		// Verbose enables debug logging.
		Verbose bool `mapstructure:"verbose" toml:"verbose"`
		// UI configures interactive behavior.
		UI UIConfig `mapstructure:"ui" toml:"ui"`
	}

	// UIConfig holds interactive UI settings.
	UIConfig struct {
		// Interactive enables the fuzzy picker on a TTY. When false the
		// top-ranked candidate is taken without prompting.
		Interactive bool `mapstructure:"interactive" toml:"interactive"`
	}
)

// DefaultConfig returns the built-in defaults: search the current
// directory, interactive picking on.
func DefaultConfig() *Config {
	return &Config{
		Roots: []string{"."},
		UI:    UIConfig{Interactive: true},
	}
}

// ConfigDir returns the shelf configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// FilePath returns the effective config file location, honoring the
// --config flag override.
func FilePath() (string, error) {
	if configFileOverride != "" {
		return configFileOverride, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// Load reads the configuration from disk and the environment. A
// missing config file is not an error: defaults apply. A present but
// unreadable or invalid file is reported with context.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType(ConfigFileExt)

	defaults := DefaultConfig()
	v.SetDefault("roots", defaults.Roots)
	v.SetDefault("ignore", defaults.Ignore)
	v.SetDefault("shell", defaults.Shell)
	v.SetDefault("temp_dir", defaults.TempDir)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("ui.interactive", defaults.UI.Interactive)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := FilePath()
	if err != nil {
		return nil, issue.WrapWithOperation(err, "locate config directory")
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) && !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check the TOML syntax").
				WithSuggestion("Run 'shelf config init' to regenerate a default file").
				Wrap(err).
				Build()
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse configuration").
			WithResource(path).
			Wrap(err).
			Build()
	}

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			Wrap(err).
			Build()
	}

	return cfg, nil
}

// Validate rejects configurations no build could act on.
func (c *Config) Validate() error {
	if len(c.Roots) == 0 {
		return errors.New("at least one search root must be configured")
	}
	for _, root := range c.Roots {
		if strings.TrimSpace(root) == "" {
			return errors.New("search roots must not be blank")
		}
	}
	return nil
}
