package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory and in
// ConfigDir.
const FileName = "wmit.yaml"

// Load builds the effective config: defaults, then the config file given by
// -config or found by findConfigFile, then command-line flags. The result
// is validated.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns ./wmit.yaml if present, else wmit.yaml in
// ConfigDir, else "".
func findConfigFile() string {
	for _, path := range []string{FileName, filepath.Join(ConfigDir(), FileName)} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user directory holding wmit.yaml.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "WMIT")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "WMIT")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "wmit")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "wmit")
	}
}

// loadFromFile merges a YAML file over cfg. Keys missing from the file
// keep their current values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
