// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultJarPath returns the default path for the jar store file.
func DefaultJarPath() string {
	return filepath.Join(XDGDataHome(), "noodle", "notes.jar")
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "noodle", "notes.db")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "noodle", "config.toml")
}

// StorePath resolves the store path for an adapter name, preferring the
// explicit path when given.
func StorePath(adapter, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if adapter == "sqlite" {
		return DefaultDBPath()
	}
	return DefaultJarPath()
}
