// Package config persists user-facing defaults across sessions,
// including the selected segmentation model variant.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration.
type Config struct {
	Photo   PhotoConfig   `json:"photo"`
	Matting MattingConfig `json:"matting"`
	Face    FaceConfig    `json:"face"`
	Output  OutputConfig  `json:"output"`
}

// PhotoConfig holds the default print settings.
type PhotoConfig struct {
	SizeID      string  `json:"size_id"`
	DPI         float64 `json:"dpi"`
	RequiredDPI float64 `json:"required_dpi"`
	Background  string  `json:"background"`
	Paper       string  `json:"paper"`
}

// MattingConfig selects the segmentation model variant. The variant is
// the one preference persisted across sessions.
type MattingConfig struct {
	Variant string `json:"variant"`
}

// FaceConfig holds face detection settings.
type FaceConfig struct {
	CascadePath string `json:"cascade_path"`
}

// OutputConfig holds configuration for output generation.
type OutputConfig struct {
	Dir     string `json:"dir"`
	Quality int    `json:"quality"`
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Photo: PhotoConfig{
			SizeID:      "1-inch",
			DPI:         300,
			RequiredDPI: 300,
			Background:  "#FFFFFF",
			Paper:       "",
		},
		Matting: MattingConfig{
			Variant: "heuristic",
		},
		Face: FaceConfig{
			CascadePath: "facefinder",
		},
		Output: OutputConfig{
			Dir:     "./output",
			Quality: 90,
		},
	}
}

// LoadFromFile loads configuration from a JSON file.
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

// SaveToFile saves configuration to a JSON file.
func (c *Config) SaveToFile(filename string) error {
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

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Photo.DPI <= 0 {
		return fmt.Errorf("photo.dpi must be positive")
	}

	if c.Photo.RequiredDPI < 0 {
		return fmt.Errorf("photo.required_dpi cannot be negative")
	}

	if c.Photo.SizeID == "" {
		return fmt.Errorf("photo.size_id cannot be empty")
	}

	switch c.Matting.Variant {
	case "heuristic", "u2net", "modnet":
	default:
		return fmt.Errorf("matting.variant must be one of heuristic, u2net, modnet")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// GetConfigPath returns the default configuration file path.
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "idphoto", "config.json")
}

// LoadOrDefault loads the configuration from the default path, falling
// back to defaults when no valid config file exists yet.
func LoadOrDefault() *Config {
	cfg, err := LoadFromFile(GetConfigPath())
	if err != nil {
		return Default()
	}
	if err := cfg.Validate(); err != nil {
		return Default()
	}
	return cfg
}
