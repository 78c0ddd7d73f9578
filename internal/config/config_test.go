package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test export defaults
	if !cfg.Export.SwitchCoordinates {
		t.Error("expected switch_coordinates to be true by default")
	}
	if cfg.Export.ModelScale != 1.0 {
		t.Errorf("expected model scale 1.0, got %f", cfg.Export.ModelScale)
	}
	if cfg.Export.VertexScale != 1.0 {
		t.Errorf("expected vertex scale 1.0, got %f", cfg.Export.VertexScale)
	}
	if !cfg.Export.IncludeTypeParameters {
		t.Error("expected include_type_parameters to be true by default")
	}
	if cfg.Export.Generator == "" {
		t.Error("expected a default generator")
	}

	// Test input/output defaults
	if cfg.Input.Encoding != "utf-8" {
		t.Errorf("expected encoding utf-8, got %s", cfg.Input.Encoding)
	}
	if cfg.Output.Dir != "" {
		t.Errorf("expected empty output dir, got %s", cfg.Output.Dir)
	}
	if cfg.Output.Indent {
		t.Error("expected indent to be false by default")
	}
	if len(cfg.Properties.Filter) != 0 {
		t.Errorf("expected no property filter, got %v", cfg.Properties.Filter)
	}
	if cfg.Batch.Workers < 1 {
		t.Errorf("expected at least one worker, got %d", cfg.Batch.Workers)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
export:
  switch_coordinates: false
  model_scale: 0.001
  vertex_scale: 2
  include_type_parameters: false
  generator: "test generator"

input:
  encoding: windows-1252

output:
  dir: out
  indent: true

properties:
  filter:
    Walls: [Mark, Comments]
    Doors: [Mark]

batch:
  workers: 3

logging:
  level: "debug"
  log_file: "export.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Export.SwitchCoordinates {
		t.Error("expected switch_coordinates to be false")
	}
	if cfg.Export.ModelScale != 0.001 {
		t.Errorf("expected model scale 0.001, got %f", cfg.Export.ModelScale)
	}
	if cfg.Export.VertexScale != 2 {
		t.Errorf("expected vertex scale 2, got %f", cfg.Export.VertexScale)
	}
	if cfg.Export.IncludeTypeParameters {
		t.Error("expected include_type_parameters to be false")
	}
	if cfg.Export.Generator != "test generator" {
		t.Errorf("expected generator 'test generator', got %s", cfg.Export.Generator)
	}
	if cfg.Input.Encoding != "windows-1252" {
		t.Errorf("expected encoding windows-1252, got %s", cfg.Input.Encoding)
	}
	if cfg.Output.Dir != "out" || !cfg.Output.Indent {
		t.Errorf("unexpected output config %+v", cfg.Output)
	}
	if got := cfg.Properties.Filter["Walls"]; len(got) != 2 || got[0] != "Mark" || got[1] != "Comments" {
		t.Errorf("unexpected Walls filter %v", got)
	}
	if cfg.Batch.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Batch.Workers)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "export.log" {
		t.Errorf("expected log file 'export.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  indent: true\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if !cfg.Output.Indent {
		t.Error("expected indent to be true")
	}
	if !cfg.Export.SwitchCoordinates || cfg.Export.ModelScale != 1.0 {
		t.Errorf("defaults not kept: %+v", cfg.Export)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
export:
  model_scale: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Isolate from any real user config
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create rvt2three.yaml in current directory
	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("output:\n  indent: true\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(t *testing.T, cfg *Config)
	}{
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "output flags",
			args: []string{"-out-dir", "build", "-indent"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Output.Dir != "build" {
					t.Errorf("expected output dir build, got %s", cfg.Output.Dir)
				}
				if !cfg.Output.Indent {
					t.Error("expected indent to be true")
				}
			},
		},
		{
			name: "no-switch flag",
			args: []string{"-no-switch"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Export.SwitchCoordinates {
					t.Error("expected switch_coordinates to be false")
				}
			},
		},
		{
			name: "encoding, log file and workers",
			args: []string{"-encoding", "latin1", "-log-file", "x.log", "-workers", "7"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Input.Encoding != "latin1" {
					t.Errorf("expected encoding latin1, got %s", cfg.Input.Encoding)
				}
				if cfg.Logging.LogFile != "x.log" {
					t.Errorf("expected log file x.log, got %s", cfg.Logging.LogFile)
				}
				if cfg.Batch.Workers != 7 {
					t.Errorf("expected 7 workers, got %d", cfg.Batch.Workers)
				}
			},
		},
		{
			name: "no flags",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Export.SwitchCoordinates || cfg.Logging.Level != "info" {
					t.Errorf("defaults changed without flags: %+v", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			f := RegisterFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse flags: %v", err)
			}

			cfg := Default()
			f.applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := "output:\n  dir: from-file\nlogging:\n  level: warn\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", configPath, "-out-dir", "from-flag"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Dir != "from-flag" {
		t.Errorf("flag should override file, got %s", cfg.Output.Dir)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("file should override default, got %s", cfg.Logging.Level)
	}
}

func TestLoadInvalidScale(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("export:\n  model_scale: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(&Flags{Config: configPath}); err == nil {
		t.Error("expected error for zero model scale")
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Output.Indent = true
	cfg.Properties.Filter = map[string][]string{"Walls": {"Mark"}}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !loaded.Output.Indent {
		t.Error("expected indent to survive save/load")
	}
	if got := loaded.Properties.Filter["Walls"]; len(got) != 1 || got[0] != "Mark" {
		t.Errorf("unexpected filter after reload: %v", got)
	}
}
