// Package config loads runtime settings for the todo list.
//
// Settings come from built-in defaults, then an optional YAML file, then
// environment variables. Later sources win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

const (
	DefaultAddr = "127.0.0.1:8080"
	DefaultPath = "./data/todos.db"
	DefaultSlot = "todos"
)

// Storage selects where the task list is persisted.
type Storage struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	// Slot names the key the serialized list is stored under.
	Slot string `yaml:"slot"`
}

// Config holds the runtime configuration.
type Config struct {
	Addr    string  `yaml:"addr"`
	Storage Storage `yaml:"storage"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr: DefaultAddr,
		Storage: Storage{
			Backend: BackendSQLite,
			Path:    DefaultPath,
			Slot:    DefaultSlot,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (if it exists)
// and the environment. An empty path falls back to $TODO_CONFIG. The backend
// name is lowercased.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("TODO_CONFIG")
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv(os.Getenv)
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if port := getenv("PORT"); port != "" {
		c.Addr = "127.0.0.1:" + port
	}
	c.Addr = getEnv(getenv, "TODO_ADDR", c.Addr)
	c.Storage.Backend = getEnv(getenv, "TODO_STORAGE", c.Storage.Backend)
	c.Storage.Path = getEnv(getenv, "DB_PATH", c.Storage.Path)
	c.Storage.Path = getEnv(getenv, "TODO_DATA", c.Storage.Path)
	c.Storage.Slot = getEnv(getenv, "TODO_SLOT", c.Storage.Slot)
}

// Validate checks that the configuration can be used.
func (c Config) Validate() error {
	switch strings.ToLower(c.Storage.Backend) {
	case BackendSQLite, BackendFile:
		if c.Storage.Path == "" {
			return fmt.Errorf("config: storage.path is required for %s backend", c.Storage.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}

	if strings.TrimSpace(c.Storage.Slot) == "" {
		return errors.New("config: storage.slot is required")
	}

	if c.Addr == "" {
		return errors.New("config: addr is required")
	}

	return nil
}

func getEnv(getenv func(string) string, key, defaultValue string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return defaultValue
}
