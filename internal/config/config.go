// Package config loads and persists the durable user configuration: the
// helper executable path and the enabled feature set.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/pagemark/docview/internal/messages"
)

// Config is the persisted configuration. The zero value is a valid,
// unconfigured state.
type Config struct {
	// HelperExecutable is the resolved helper executable path. Written only
	// when it differs from the currently configured value.
	HelperExecutable string `toml:"helper_executable,omitempty"`

	// EnabledFeatures overrides the default enabled feature set when
	// non-empty.
	EnabledFeatures []string `toml:"enabled_features,omitempty"`
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "docview", "config.toml"), nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf(messages.ConfigNoHomeFmt, err)
	}
	return filepath.Join(home, ".config", "docview", "config.toml"), nil
}

// Load reads the config at path. A missing file is not an error: it yields
// the zero configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf(messages.ConfigReadFailedFmt, path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidFmt, path, err)
	}
	return &cfg, nil
}

// Save writes cfg to path atomically, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf(messages.ConfigEncodeFailedFmt, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf(messages.ConfigWriteFailedFmt, path, err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf(messages.ConfigWriteFailedFmt, path, err)
	}
	return nil
}
