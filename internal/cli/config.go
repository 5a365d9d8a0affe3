package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user-level settings loaded from the TOML config file at
// ~/.config/pathcover/config.toml. All fields are optional; missing values
// fall back to the defaults from DefaultConfig.
type Config struct {
	// Workers is the default concurrency for safety certificate extraction.
	Workers int `toml:"workers"`

	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Render RenderConfig `toml:"render"`
	Remote RemoteConfig `toml:"remote"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	// Backend is "file" (default) or "redis".
	Backend string `toml:"backend"`
	// Dir overrides the file cache directory (default ~/.cache/pathcover).
	Dir string `toml:"dir"`
	// RedisURL is the redis connection URL, e.g. "redis://localhost:6379/0".
	RedisURL string `toml:"redis_url"`
}

// StoreConfig selects the run store backend used by the serve command.
type StoreConfig struct {
	// Backend is "memory" (default), "file", or "mongo".
	Backend string `toml:"backend"`
	// Dir overrides the file store directory (default ~/.config/pathcover/runs).
	Dir string `toml:"dir"`
	// MongoURI is the mongodb connection URI.
	MongoURI string `toml:"mongo_uri"`
}

// RenderConfig holds render defaults.
type RenderConfig struct {
	// Format is the default output format: dot, svg, or png.
	Format string `toml:"format"`
}

// RemoteConfig holds settings for fetching graphs over HTTP.
type RemoteConfig struct {
	// Headers are attached to every remote request, e.g. for auth tokens.
	Headers map[string]string `toml:"headers"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Cache:  CacheConfig{Backend: "file"},
		Store:  StoreConfig{Backend: "memory"},
		Render: RenderConfig{Format: "svg"},
	}
}

// configPath returns the path of the user config file.
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadConfig reads the user config file, returning defaults when the file
// does not exist.
func LoadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "file"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "memory"
	}
	if cfg.Render.Format == "" {
		cfg.Render.Format = "svg"
	}
	return cfg, nil
}
