package config

import "flag"

// Flags are the command-line overrides shared by every subcommand.
type Flags struct {
	Config   string
	Debug    bool
	OutDir   string
	Indent   bool
	NoSwitch bool
	Encoding string
	LogFile  string
	Workers  int
}

// RegisterFlags registers the shared flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.OutDir, "out-dir", "", "Output directory (default: next to input)")
	fs.BoolVar(&f.Indent, "indent", false, "Indent JSON output")
	fs.BoolVar(&f.NoSwitch, "no-switch", false, "Keep the BIM Z-up axes")
	fs.StringVar(&f.Encoding, "encoding", "", "Charset of scene files")
	fs.StringVar(&f.LogFile, "log-file", "", "Also log to this file")
	fs.IntVar(&f.Workers, "workers", 0, "Concurrent exports in batch mode")
	return f
}

// applyFlags applies CLI flag overrides to the config.
func (f *Flags) applyFlags(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.OutDir != "" {
		cfg.Output.Dir = f.OutDir
	}
	if f.Indent {
		cfg.Output.Indent = true
	}
	if f.NoSwitch {
		cfg.Export.SwitchCoordinates = false
	}
	if f.Encoding != "" {
		cfg.Input.Encoding = f.Encoding
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Workers > 0 {
		cfg.Batch.Workers = f.Workers
	}
}
