package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// FileName is the config file name looked up in the working directory.
const FileName = "rvt2three.yaml"

// Load loads configuration with priority: defaults < file < flags.
// f may be nil.
func Load(f *Flags) (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	var configPath string
	if f != nil {
		configPath = f.Config
	}
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	f.applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no export can run with.
func (c *Config) Validate() error {
	if c.Export.ModelScale <= 0 {
		return fmt.Errorf("export.model_scale must be positive, got %g", c.Export.ModelScale)
	}
	if c.Export.VertexScale <= 0 {
		return fmt.Errorf("export.vertex_scale must be positive, got %g", c.Export.VertexScale)
	}
	if c.Batch.Workers < 1 {
		c.Batch.Workers = 1
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./" + FileName,
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	home, err := homedir.Dir()
	if err != nil {
		home = os.TempDir()
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "rvt2three")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "rvt2three")
		}
		return filepath.Join(home, "AppData", "Roaming", "rvt2three")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "rvt2three")
		}
		return filepath.Join(home, ".config", "rvt2three")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
