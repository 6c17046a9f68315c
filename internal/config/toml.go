// Package config provides configuration helpers and TOML parsing for the
// noodle CLI.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Store StoreConfig `toml:"store"`
	Notes NotesConfig `toml:"notes"`
}

// StoreConfig maps storage-related settings.
type StoreConfig struct {
	Adapter *string `toml:"adapter"`
	Path    *string `toml:"path"`
}

// NotesConfig maps note-engine settings.
type NotesConfig struct {
	TTLDays    *int    `toml:"ttl-days"`
	DebounceMS *int    `toml:"debounce-ms"`
	BaseURL    *string `toml:"base-url"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
