// Copyright 2025 FixLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fixlabs/compdbfix/internal/errors"
	"github.com/fixlabs/compdbfix/pkg/rewrite"
)

const (
	defaultConfigFile = ".compdbfix.yaml"
	configVersion     = "1"
	defaultDatabase   = "compile_commands.json"
)

// Config represents the .compdbfix.yaml configuration file.
type Config struct {
	Version string `yaml:"version"`

	// Database is the default database path used when -i is not given.
	Database string `yaml:"database,omitempty"`

	// IncludeFlags is the table of recognized include-flag spellings.
	// Empty means the built-in defaults (-I, -isystem). The first entry
	// is the canonical spelling used for appended flags.
	IncludeFlags []rewrite.FlagSpec `yaml:"include_flags,omitempty"`

	// Policy holds default edit policies, overridable per run by flags.
	Policy PolicyConfig `yaml:"policy,omitempty"`
}

// PolicyConfig contains edit policy defaults.
type PolicyConfig struct {
	// BestEffort writes the successfully edited entries even when some
	// entries failed, instead of aborting the whole run.
	BestEffort bool `yaml:"best_effort" json:"best_effort"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Version:      configVersion,
		Database:     defaultDatabase,
		IncludeFlags: rewrite.DefaultTable(),
	}
}

// FlagTable returns the effective include-flag table.
func (c *Config) FlagTable() rewrite.FlagTable {
	if len(c.IncludeFlags) == 0 {
		return rewrite.DefaultTable()
	}
	return rewrite.FlagTable(c.IncludeFlags)
}

// DatabasePath returns the effective default database path.
func (c *Config) DatabasePath() string {
	if c.Database == "" {
		return defaultDatabase
	}
	return c.Database
}

// LoadConfig loads configuration from the given path, the
// COMPDBFIX_CONFIG_PATH environment variable, or a .compdbfix.yaml found
// in the current or a parent directory. A missing config file is not an
// error: the tool runs on defaults. An explicitly named file that does
// not exist or does not parse is an error.
func LoadConfig(configPath string) (*Config, error) {
	explicit := configPath != ""
	if configPath == "" {
		configPath = os.Getenv("COMPDBFIX_CONFIG_PATH")
		explicit = configPath != ""
	}
	if configPath == "" {
		found, ok := findConfigFile()
		if !ok {
			cfg := DefaultConfig()
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		configPath = found
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // G304: path comes from user flags or discovery
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, errors.NewConfigError(
			"Cannot read configuration file",
			fmt.Sprintf("Failed to read %s", configPath),
			"Check the path and file permissions",
			err,
		)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigError(
			"Invalid configuration format",
			fmt.Sprintf("YAML parsing of %s failed", configPath),
			"Fix the syntax errors, or run 'compdbfix init --force' to recreate the file",
			err,
		)
	}

	if cfg.Version != configVersion {
		return nil, errors.NewConfigError(
			"Unsupported configuration version",
			fmt.Sprintf("Config version %q is not supported (expected %q)", cfg.Version, configVersion),
			"Run 'compdbfix init --force' to regenerate the configuration file",
			nil,
		)
	}

	cfg.applyEnvOverrides()
	return &cfg, nil
}

// SaveConfig writes the configuration to path as YAML.
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewInternalError(
			"Cannot encode configuration",
			"YAML marshaling failed unexpectedly",
			"This is a bug. Please report it with your configuration details",
			err,
		)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // config is not secret
		return errors.NewPermissionError(
			"Cannot write configuration file",
			fmt.Sprintf("Failed to write %s", path),
			"Check directory permissions and disk space",
			err,
		)
	}
	return nil
}

// findConfigFile searches for .compdbfix.yaml starting in the current
// directory and walking up to the filesystem root.
func findConfigFile() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}

	for {
		path := filepath.Join(dir, defaultConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return "", false
		}
		dir = parent
	}
}

// applyEnvOverrides applies environment variable overrides after load.
//
// Supported variables:
//   - COMPDBFIX_DATABASE: default database path
func (c *Config) applyEnvOverrides() {
	if db := os.Getenv("COMPDBFIX_DATABASE"); db != "" {
		c.Database = db
	}
}
