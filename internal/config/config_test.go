package config

import (
	"path/filepath"
	"testing"

	moondream "github.com/moondream-ai/moondream-go"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Connection.Endpoint != moondream.DefaultEndpoint {
		t.Errorf("Expected default endpoint, got %s", cfg.Connection.Endpoint)
	}

	if cfg.Connection.TimeoutSeconds != 5 {
		t.Errorf("Expected 5 second timeout, got %d", cfg.Connection.TimeoutSeconds)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Connection.Endpoint = "http://localhost:2020/v1"
	cfg.Send.MaxSize = 1024

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if loaded.Connection.Endpoint != "http://localhost:2020/v1" {
		t.Errorf("Endpoint not preserved: %s", loaded.Connection.Endpoint)
	}

	if loaded.Send.MaxSize != 1024 {
		t.Errorf("Send.MaxSize not preserved: %d", loaded.Send.MaxSize)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty endpoint", func(c *Config) { c.Connection.Endpoint = "" }},
		{"zero timeout", func(c *Config) { c.Connection.TimeoutSeconds = 0 }},
		{"send quality too low", func(c *Config) { c.Send.Quality = 0 }},
		{"send quality too high", func(c *Config) { c.Send.Quality = 101 }},
		{"negative max size", func(c *Config) { c.Send.MaxSize = -1 }},
		{"output quality too high", func(c *Config) { c.Output.Quality = 150 }},
	}

	for _, test := range tests {
		cfg := Default()
		test.modify(cfg)

		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", test.name)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Error("GetConfigPath returned empty path")
	}
}
