package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFileMissing(t *testing.T) {
	cfg, err := loadConfigFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("loadConfigFile() error: %v", err)
	}

	if cfg.Cache.Backend != "file" {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, "file")
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, "memory")
	}
	if cfg.Render.Format != "svg" {
		t.Errorf("Render.Format = %q, want %q", cfg.Render.Format, "svg")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
workers = 8

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/0"

[store]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"

[render]
format = "png"

[remote.headers]
Authorization = "Bearer token"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile() error: %v", err)
	}

	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, "redis")
	}
	if cfg.Cache.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("Cache.RedisURL = %q", cfg.Cache.RedisURL)
	}
	if cfg.Store.Backend != "mongo" {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, "mongo")
	}
	if cfg.Render.Format != "png" {
		t.Errorf("Render.Format = %q, want %q", cfg.Render.Format, "png")
	}
	if got := cfg.Remote.Headers["Authorization"]; got != "Bearer token" {
		t.Errorf("Remote.Headers[Authorization] = %q", got)
	}
}

func TestLoadConfigFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("workers = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile() error: %v", err)
	}

	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
	// Unset sections keep their defaults
	if cfg.Cache.Backend != "file" {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, "file")
	}
	if cfg.Render.Format != "svg" {
		t.Errorf("Render.Format = %q, want %q", cfg.Render.Format, "svg")
	}
}

func TestLoadConfigFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("workers = [not toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfigFile(path); err == nil {
		t.Error("loadConfigFile() should fail on invalid TOML")
	}
}
