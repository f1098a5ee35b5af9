// ABOUTME: Tests for configuration loading, saving and validation.
// ABOUTME: Verifies XDG path handling and backend defaults.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if cfg.Store.Backend != "file" || cfg.Store.Codec != "json" {
		t.Errorf("expected default store settings, got %+v", cfg.Store)
	}
	if cfg.Events.Topic == "" {
		t.Error("expected a default events topic")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Store.Backend = "sqlite"
	cfg.Store.Path = "/tmp/notes.db"
	cfg.Log.Level = "debug"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if got.Store.Backend != "sqlite" || got.Store.Path != "/tmp/notes.db" || got.Log.Level != "debug" {
		t.Errorf("expected saved values, got %+v", got)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store:\n  backend: bolt\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if cfg.Store.Backend != "bolt" {
		t.Errorf("expected bolt, got %q", cfg.Store.Backend)
	}
	if cfg.Store.Codec != "json" || cfg.Log.Level != "info" {
		t.Errorf("expected untouched defaults, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"unknown backend", func(c *Config) { c.Store.Backend = "tape" }, true},
		{"unknown codec", func(c *Config) { c.Store.Codec = "xml" }, true},
		{"blob without url", func(c *Config) { c.Store.Backend = "blob" }, true},
		{"blob with url", func(c *Config) { c.Store.Backend = "blob"; c.Store.URL = "mem://" }, false},
		{"empty backend", func(c *Config) { c.Store.Backend = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store:\n  backend: floppy\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for unknown backend")
	}

	if err := os.WriteFile(path, []byte("store: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestPaths(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))

	if got, want := Path(), filepath.Join(tmp, "config", "pinboard", "config.yaml"); got != want {
		t.Errorf("expected config path %q, got %q", want, got)
	}

	cfg := Default()
	if got, want := cfg.StorePath(), filepath.Join(tmp, "data", "pinboard", "notes.json"); got != want {
		t.Errorf("expected store path %q, got %q", want, got)
	}
	cfg.Store.Backend = "badger"
	if got, want := cfg.StorePath(), filepath.Join(tmp, "data", "pinboard", "badger"); got != want {
		t.Errorf("expected badger path %q, got %q", want, got)
	}
	cfg.Store.Path = "/elsewhere"
	if got := cfg.StoreOptions().Path; got != "/elsewhere" {
		t.Errorf("expected explicit path, got %q", got)
	}
}
