// Package config handles exporter configuration loading and management.
package config

import (
	"runtime"

	"github.com/CodeCavePro/RvtVa3cExporter/pkg/threejs"
)

// Config holds all exporter settings.
type Config struct {
	Export     ExportConfig     `yaml:"export"`
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Properties PropertiesConfig `yaml:"properties"`
	Batch      BatchConfig      `yaml:"batch"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ExportConfig holds scene conversion settings.
type ExportConfig struct {
	SwitchCoordinates     bool    `yaml:"switch_coordinates"`
	ModelScale            float64 `yaml:"model_scale"`  // uniform scale of the root node
	VertexScale           float64 `yaml:"vertex_scale"` // applied to every vertex coordinate
	IncludeTypeParameters bool    `yaml:"include_type_parameters"`
	Generator             string  `yaml:"generator"`
}

// InputConfig holds scene file settings.
type InputConfig struct {
	Encoding string `yaml:"encoding"` // charset label, e.g. "utf-8" or "windows-1252"
}

// OutputConfig holds JSON output settings.
type OutputConfig struct {
	Dir    string `yaml:"dir"` // empty writes next to the input
	Indent bool   `yaml:"indent"`
}

// PropertiesConfig selects the element parameters written to user data.
type PropertiesConfig struct {
	// Filter maps a category name to the parameter names kept for it.
	// Empty exports every parameter.
	Filter map[string][]string `yaml:"filter"`
}

// BatchConfig holds batch export settings.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			SwitchCoordinates:     true,
			ModelScale:            1.0,
			VertexScale:           1.0,
			IncludeTypeParameters: true,
			Generator:             threejs.DefaultGenerator,
		},
		Input: InputConfig{
			Encoding: "utf-8",
		},
		Output: OutputConfig{
			Dir:    "",
			Indent: false,
		},
		Batch: BatchConfig{
			Workers: runtime.NumCPU(),
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
