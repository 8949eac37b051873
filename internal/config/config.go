// Package config handles converter configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by Validate errors.
var ErrInvalid = errors.New("invalid config")

// Config holds all converter settings.
type Config struct {
	Weld    WeldConfig    `yaml:"weld"`
	Texture TextureConfig `yaml:"texture"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// WeldConfig controls vertex welding.
type WeldConfig struct {
	Epsilon float32 `yaml:"epsilon"` // Position, UV and normal tolerance
}

// TextureConfig controls texture page lookup.
type TextureConfig struct {
	SearchPaths   []string `yaml:"search_paths"`   // Directories searched for texture pages
	DefaultWidth  int      `yaml:"default_width"`  // Used when a page cannot be probed
	DefaultHeight int      `yaml:"default_height"` // Used when a page cannot be probed
}

// ExportConfig controls written files.
type ExportConfig struct {
	PieVersion  int  `yaml:"pie_version"`
	TeamColours bool `yaml:"team_colours"` // Mark OBJ/3DS imports as team coloured
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Weld: WeldConfig{
			Epsilon: 1e-4,
		},
		Texture: TextureConfig{
			SearchPaths:   []string{"."},
			DefaultWidth:  256,
			DefaultHeight: 256,
		},
		Export: ExportConfig{
			PieVersion:  3,
			TeamColours: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Weld.Epsilon <= 0 {
		return fmt.Errorf("%w: weld.epsilon must be positive, got %g", ErrInvalid, c.Weld.Epsilon)
	}
	if c.Export.PieVersion != 2 && c.Export.PieVersion != 3 {
		return fmt.Errorf("%w: export.pie_version must be 2 or 3, got %d", ErrInvalid, c.Export.PieVersion)
	}
	if c.Texture.DefaultWidth <= 0 || c.Texture.DefaultHeight <= 0 {
		return fmt.Errorf("%w: texture default size %dx%d", ErrInvalid, c.Texture.DefaultWidth, c.Texture.DefaultHeight)
	}
	return nil
}
