// SPDX-License-Identifier: MPL-2.0

package config

import "sync"

var (
	// configDirOverride allows tests to override the config directory.
	// os.UserHomeDir() doesn't reliably respect the HOME environment
	// variable on all platforms.
	configDirOverride string

	// configFileOverride is the --config flag value.
	configFileOverride string

	mu     sync.Mutex
	cached *Config
)

// Reset clears overrides and the cached config. Call from test cleanup
// to restore defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	configDirOverride = ""
	configFileOverride = ""
	cached = nil
}

// SetConfigDirOverride sets a custom config directory path, primarily
// for tests.
func SetConfigDirOverride(dir string) {
	mu.Lock()
	defer mu.Unlock()
	configDirOverride = dir
	cached = nil
}

// SetConfigFilePathOverride points loading at an explicit config file
// (the --config flag).
func SetConfigFilePathOverride(path string) {
	mu.Lock()
	defer mu.Unlock()
	configFileOverride = path
	cached = nil
}

// Get returns the process-wide configuration, loading it on first use.
// Load errors fall back to defaults; callers that need to surface the
// error should call Load directly.
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()
	if cached != nil {
		return cached
	}
	cfg, err := Load()
	if err != nil {
		cfg = DefaultConfig()
	}
	cached = cfg
	return cached
}

// Set replaces the cached configuration. Tests use this to inject a
// known config without touching the filesystem.
func Set(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	cached = cfg
}
