// Package commands holds the griddle command line: one struct per command, each
// with a Run method that kong invokes with the shared Global state.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/griddle/internal/config"
	"git.home.luguber.info/inful/griddle/internal/console"
	"git.home.luguber.info/inful/griddle/internal/observability"
)

// Global is the state shared by every command after flag parsing.
type Global struct {
	Config     *config.Config
	ConfigPath string
	Reporter   *console.Reporter
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: ${config_file} when present)." type:"path"`
	Verbose bool             `short:"v" help:"Print extra status output and info-level logs."`
	Debug   bool             `short:"d" help:"Enable debug logging, including source locations and full error details."`
	NoColor bool             `name:"no-color" help:"Disable coloured console output."`
	Version kong.VersionFlag `name:"version" help:"Show version and exit."`

	Build   BuildCmd   `cmd:"" default:"withargs" help:"Convert the input folder into an HTML site (default command)."`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file."`
	Preview PreviewCmd `cmd:"" help:"Build, serve the output and rebuild whenever the input changes."`
}

// Vars are the interpolation variables used by the CLI help text.
func Vars() kong.Vars {
	return kong.Vars{"config_file": config.DefaultFile}
}

// Setup loads the configuration and configures logging and console output.
// Logging is configured even when loading fails so the failure can be reported.
// Commands that do not read the configuration (init) pass loadConfig false.
func (c *CLI) Setup(out io.Writer, loadConfig bool) (*Global, error) {
	cfg, err := config.Default(), error(nil)
	if loadConfig {
		cfg, err = config.Load(c.Config)
	}
	if err != nil {
		slog.SetDefault(NewLogger(os.Stderr, config.LoggingConfig{}, c.Verbose, c.Debug))
		observability.RouteLogrus(nil, slog.Default(), c.Debug)
		return nil, err
	}
	slog.SetDefault(NewLogger(os.Stderr, cfg.Logging, c.Verbose, c.Debug))
	observability.RouteLogrus(nil, slog.Default(), c.Debug)

	var color *bool
	if c.NoColor {
		off := false
		color = &off
	}
	return &Global{
		Config:     cfg,
		ConfigPath: c.Config,
		Reporter:   console.New(out, console.Options{Color: color, Verbose: c.Verbose || c.Debug}),
	}, nil
}

// NewLogger builds the diagnostics logger. The configured level is the floor;
// verbose raises it to info and debug to debug with source locations.
func NewLogger(w io.Writer, cfg config.LoggingConfig, verbose, debug bool) *slog.Logger {
	level := config.NormalizeLogLevel(cfg.Level).SlogLevel()
	if verbose && level > slog.LevelInfo {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	if config.NormalizeLogFormat(cfg.Format) == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
