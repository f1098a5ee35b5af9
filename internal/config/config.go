// ABOUTME: Configuration for pinboard storage, events and logging.
// ABOUTME: Handles XDG config and data paths with a YAML config file.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/harper/pinboard/internal/events"
	"github.com/harper/pinboard/internal/store"
	"gopkg.in/yaml.v3"
)

const appName = "pinboard"

type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Events EventsConfig `yaml:"events"`
	Log    LogConfig    `yaml:"log"`
}

type StoreConfig struct {
	// Backend is one of file, blob, sqlite, badger, bolt.
	Backend string `yaml:"backend"`
	// Path overrides the default location under DataDir.
	Path  string `yaml:"path,omitempty"`
	Codec string `yaml:"codec"`
	// URL is the bucket for the blob backend, e.g. file:///home/me/notes.
	URL string `yaml:"url,omitempty"`
}

type EventsConfig struct {
	Topic string `yaml:"topic"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Store:  StoreConfig{Backend: "file", Codec: "json"},
		Events: EventsConfig{Topic: events.DefaultTopic},
		Log:    LogConfig{Level: "info"},
	}
}

// Dir returns the configuration directory path.
func Dir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appName)
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DataDir is where stores live unless a path is configured.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, appName)
}

// Load reads the config file, returning defaults if it does not exist.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to the config file.
func Save(cfg *Config) error {
	return SaveTo(Path(), cfg)
}

func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Exists returns true if a config file exists.
func Exists() bool {
	return ExistsAt(Path())
}

func ExistsAt(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (c *Config) Validate() error {
	if c.Store.Backend == "" {
		c.Store.Backend = "file"
	}
	if !slices.Contains(store.Backends, c.Store.Backend) {
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if _, err := store.CodecByName(c.Store.Codec); err != nil {
		return err
	}
	if c.Store.Backend == "blob" && c.Store.URL == "" {
		return errors.New("blob backend requires store.url")
	}
	return nil
}

// StorePath returns the configured path, or the backend's default file
// under DataDir.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	switch c.Store.Backend {
	case "sqlite":
		return filepath.Join(DataDir(), "notes.db")
	case "badger":
		return filepath.Join(DataDir(), "badger")
	case "bolt":
		return filepath.Join(DataDir(), "notes.bolt")
	default:
		if c.Store.Codec == "cbor" {
			return filepath.Join(DataDir(), "notes.cbor")
		}
		return filepath.Join(DataDir(), "notes.json")
	}
}

// StoreOptions converts the store section into store.Options.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend: c.Store.Backend,
		Path:    c.StorePath(),
		URL:     c.Store.URL,
		Codec:   c.Store.Codec,
	}
}
