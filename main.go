package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"hexgrid/internal/config"
	"hexgrid/internal/editor"
	"hexgrid/internal/grid"
	"hexgrid/internal/logging"
	"hexgrid/internal/render"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
)

var version = "dev"

type cliConfig struct {
	showVersion bool
	writeConfig bool
	bytesPerRow int
	repr        string
	configPath  string
	logFile     string
	logLevel    string
	path        string
}

// parseArgs parses command-line arguments. A zero bytesPerRow or empty repr
// means the value from the config file is used.
func parseArgs(args []string, stderr io.Writer) (cliConfig, error) {
	var cfg cliConfig

	fs := pflag.NewFlagSet("hexgrid", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")
	fs.IntVarP(&cfg.bytesPerRow, "bytes-per-row", "w", 0, "Bytes shown per row (8, 16 or 32)")
	fs.StringVarP(&cfg.repr, "repr", "r", "", "Representation column: ascii or bars")
	fs.StringVarP(&cfg.configPath, "config", "c", "", "Config file (default "+config.ConfigPath()+")")
	fs.BoolVar(&cfg.writeConfig, "write-config", false, "Write the effective config file and exit")
	fs.StringVar(&cfg.logFile, "log-file", "", "Write logs to this file")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: hexgrid [flags] [file]")
		fmt.Fprintln(stderr, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.showVersion {
		return cfg, nil
	}

	if fs.NArg() > 1 {
		return cfg, fmt.Errorf("expected at most one file, got %d", fs.NArg())
	}
	if fs.NArg() == 1 {
		cfg.path = fs.Arg(0)
	}
	if cfg.bytesPerRow < 0 {
		return cfg, fmt.Errorf("--bytes-per-row must be positive, got %d", cfg.bytesPerRow)
	}
	if cfg.repr != "" {
		if _, err := render.ParseMode(cfg.repr); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// displayConfig merges the config file's display settings with flags.
func displayConfig(cli cliConfig, cfg *config.Config) grid.DisplayConfig {
	display, err := cfg.DisplayConfig()
	if err != nil {
		logging.Warnf("display config: %v", err)
		display = grid.DefaultDisplayConfig()
	}
	if cli.bytesPerRow > 0 {
		display.BytesPerRow = cli.bytesPerRow
	}
	if cli.repr != "" {
		if mode, err := render.ParseMode(cli.repr); err == nil {
			display.Representation = mode
		}
	}
	return display
}

func main() {
	cli, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if cli.showVersion {
		fmt.Println("hexgrid", version)
		return
	}

	logging.SetLevel(logging.ParseLevel(cli.logLevel))
	if cli.logFile != "" {
		f, err := tea.LogToFile(cli.logFile, "hexgrid")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		logging.Discard()
	}

	var cfg *config.Config
	configPath := cli.configPath
	if configPath == "" {
		configPath = config.ConfigPath()
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFrom(configPath)
	}
	if err != nil {
		logging.Warnf("config %s: %v", configPath, err)
	}

	display := displayConfig(cli, cfg)
	if cli.writeConfig {
		cfg.Display.BytesPerRow = display.BytesPerRow
		cfg.Display.Representation = display.Representation.String()
		if cli.configPath == "" {
			err = cfg.Save()
		} else {
			err = cfg.SaveTo(configPath)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Wrote", configPath)
		return
	}

	model, err := editor.NewModel(cli.path, editor.Options{
		Config:  cfg,
		Display: display,
		Watch:   true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
