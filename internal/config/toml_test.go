package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Store.Adapter != nil || cfg.Notes.TTLDays != nil {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("empty path should error")
	}
}

func TestLoadConfigParsesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[store]
adapter = "sqlite"
path = "/tmp/notes.db"

[notes]
ttl-days = 30
debounce-ms = 250
base-url = "https://moodle.example.edu/"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Adapter == nil || *cfg.Store.Adapter != "sqlite" {
		t.Errorf("adapter = %v", cfg.Store.Adapter)
	}
	if cfg.Store.Path == nil || *cfg.Store.Path != "/tmp/notes.db" {
		t.Errorf("path = %v", cfg.Store.Path)
	}
	if cfg.Notes.TTLDays == nil || *cfg.Notes.TTLDays != 30 {
		t.Errorf("ttl-days = %v", cfg.Notes.TTLDays)
	}
	if cfg.Notes.DebounceMS == nil || *cfg.Notes.DebounceMS != 250 {
		t.Errorf("debounce-ms = %v", cfg.Notes.DebounceMS)
	}
	if cfg.Notes.BaseURL == nil || *cfg.Notes.BaseURL != "https://moodle.example.edu/" {
		t.Errorf("base-url = %v", cfg.Notes.BaseURL)
	}
}

func TestLoadConfigBadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[store\nadapter="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("malformed toml should error")
	}
}

func TestStorePath(t *testing.T) {
	if got := StorePath("jar", "/x/notes.jar"); got != "/x/notes.jar" {
		t.Errorf("explicit path ignored: %q", got)
	}
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := StorePath("sqlite", ""); got != filepath.Join("/data", "noodle", "notes.db") {
		t.Errorf("sqlite default = %q", got)
	}
	if got := StorePath("jar", ""); got != filepath.Join("/data", "noodle", "notes.jar") {
		t.Errorf("jar default = %q", got)
	}
}
