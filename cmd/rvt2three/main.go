// rvt2three converts BIM scene files into three.js JSON object scenes.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/CodeCavePro/RvtVa3cExporter/internal/config"
	"github.com/CodeCavePro/RvtVa3cExporter/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "export", "x":
		cmdExport(args)
	case "batch":
		cmdBatch(args)
	case "watch":
		cmdWatch(args)
	case "info":
		cmdInfo(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`rvt2three - BIM scene to three.js JSON exporter

Usage:
  rvt2three <command> [options]

Commands:
  export [-o out.json] <scene.yaml>  Export one scene
  batch <scene.yaml>...              Export scenes concurrently
  watch <scene.yaml>                 Re-export whenever the scene changes
  info <scene.yaml>                  Show scene information
  config [-save]                     Print the effective configuration

Shared options:
  -config <file>    Config file (default: ./rvt2three.yaml)
  -debug            Debug logging
  -out-dir <dir>    Output directory (default: next to input)
  -indent           Indent JSON output
  -no-switch        Keep the BIM Z-up axes
  -encoding <name>  Charset of scene files
  -log-file <file>  Also log to a rotating file
  -workers <n>      Concurrent exports in batch mode

Examples:
  rvt2three export office.yaml
  rvt2three export -o web/office.json -indent office.yaml
  rvt2three batch -out-dir build -workers 4 models/*.yaml
  rvt2three watch -debug office.yaml`)
}

// setup parses the shared flags plus any registered by the command,
// loads the configuration and starts logging.
func setup(fs *flag.FlagSet, args []string) *config.Config {
	f := config.RegisterFlags(fs)
	fs.Parse(args)

	cfg, err := config.Load(f)
	if err != nil {
		fatal(err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fatal(fmt.Errorf("init logger: %w", err))
	}
	return cfg
}

func fatal(err error) {
	logger.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
