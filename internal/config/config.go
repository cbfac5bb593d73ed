package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	moondream "github.com/moondream-ai/moondream-go"
)

// Config holds the CLI configuration
type Config struct {
	Connection ConnectionConfig `json:"connection"`
	Send       SendConfig       `json:"send"`
	Output     OutputConfig     `json:"output"`
}

// ConnectionConfig holds configuration for reaching the service
type ConnectionConfig struct {
	Endpoint       string `json:"endpoint"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SendConfig holds configuration for encoding local images before upload
type SendConfig struct {
	Format  string `json:"format"`
	MaxSize int    `json:"max_size"`
	Quality int    `json:"quality"`
}

// OutputConfig holds configuration for annotated and cropped output images
type OutputConfig struct {
	Dir      string `json:"dir"`
	Format   string `json:"format"`
	Quality  int    `json:"quality"`
	Lossless bool   `json:"lossless"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Connection: ConnectionConfig{
			Endpoint:       moondream.DefaultEndpoint,
			TimeoutSeconds: 5,
		},
		Send: SendConfig{
			Format:  "jpg",
			MaxSize: 1536,
			Quality: 85,
		},
		Output: OutputConfig{
			Dir:      "./out",
			Format:   "jpg",
			Quality:  90,
			Lossless: false,
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Connection.Endpoint == "" {
		return fmt.Errorf("connection.endpoint cannot be empty")
	}

	if c.Connection.TimeoutSeconds < 1 {
		return fmt.Errorf("connection.timeout_seconds must be positive")
	}

	if c.Send.Quality < 1 || c.Send.Quality > 100 {
		return fmt.Errorf("send.quality must be between 1 and 100")
	}

	if c.Send.MaxSize < 0 {
		return fmt.Errorf("send.max_size cannot be negative")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "moondream", "config.json")
}
