// Package config provides configuration loading and management for stylevolume.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Window parameters
	Window struct {
		// Width and Height are the initial framebuffer size in pixels
		Width  int `yaml:"width"`
		Height int `yaml:"height"`

		// Title is the window caption
		Title string `yaml:"title"`
	} `yaml:"window"`

	// Volume parameters
	Volume struct {
		// Path is the raw headerless volume file (.raw, .raw.gz, .raw.zst, .raw.zlib)
		Path string `yaml:"path"`

		// Width, Height and Depth are the voxel dimensions; raw files carry no header
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
		Depth  int `yaml:"depth"`

		// BitsPerSample is 8 or 16
		BitsPerSample int `yaml:"bitsPerSample"`
	} `yaml:"volume"`

	// Ray casting parameters
	Render struct {
		// StepSize is the ray marching step in normalized cube units
		StepSize float64 `yaml:"stepSize"`

		// Threshold discards samples whose intensity is below it
		Threshold float64 `yaml:"threshold"`

		// MaxSteps bounds the number of samples per ray
		MaxSteps int `yaml:"maxSteps"`

		// Mode selects the transfer texture layout: "style" (RG8) or "color" (RGBA8)
		Mode string `yaml:"mode"`
	} `yaml:"render"`

	// Transfer function parameters
	TransferFunction struct {
		// Interpolation is one of natural, linear, akima, fritsch-butland
		Interpolation string `yaml:"interpolation"`

		// Path is where the L and S keys load and save the control points
		Path string `yaml:"path"`
	} `yaml:"transferFunction"`

	// Editor canvas parameters
	Editor struct {
		// Enabled toggles the histogram editor overlay
		Enabled bool `yaml:"enabled"`

		// X and Y place the canvas's top left corner in the window
		X int `yaml:"x"`
		Y int `yaml:"y"`
	} `yaml:"editor"`

	// Styles holds the location of the litsphere materials
	Styles struct {
		// Dir contains "litsphere (1).png" .. "litsphere (34).png" (or .tga)
		Dir string `yaml:"dir"`
	} `yaml:"styles"`

	// Output parameters
	Output struct {
		// ScreenshotDir is where the P key writes WebP screenshots
		ScreenshotDir string `yaml:"screenshotDir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Window.Width = 1440
	cfg.Window.Height = 900
	cfg.Window.Title = "Volume Rendering - Style Transfer Function"

	cfg.Volume.Width = 1
	cfg.Volume.Height = 1
	cfg.Volume.Depth = 1
	cfg.Volume.BitsPerSample = 8

	cfg.Render.StepSize = 0.001
	cfg.Render.Threshold = 0.15
	cfg.Render.MaxSteps = 1800
	cfg.Render.Mode = "style"

	cfg.TransferFunction.Interpolation = "natural"
	cfg.TransferFunction.Path = "transfer.tf"

	cfg.Editor.Enabled = true
	cfg.Editor.X = 10
	cfg.Editor.Y = 10

	cfg.Styles.Dir = filepath.Join("resources", "materials")

	cfg.Output.ScreenshotDir = "screenshots"
	cfg.Output.Verbose = true

	return cfg
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Volume.BitsPerSample != 8 && c.Volume.BitsPerSample != 16 {
		return fmt.Errorf("bitsPerSample must be 8 or 16, got %d", c.Volume.BitsPerSample)
	}
	if c.Render.StepSize <= 0 {
		return fmt.Errorf("stepSize must be positive, got %g", c.Render.StepSize)
	}
	if c.Render.Threshold < 0 || c.Render.Threshold > 1 {
		return fmt.Errorf("threshold must be within [0,1], got %g", c.Render.Threshold)
	}
	if c.Render.MaxSteps <= 0 {
		return fmt.Errorf("maxSteps must be positive, got %d", c.Render.MaxSteps)
	}
	if c.Render.Mode != "style" && c.Render.Mode != "color" {
		return fmt.Errorf("render mode must be style or color, got %q", c.Render.Mode)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
