package geoview

import (
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"
)

const (
	DefaultWidth              = 1920
	DefaultHeight             = 1080
	DefaultTerrainConcurrency = 6
)

// Options contains the command-line configuration of an application.
type Options struct {
	//
	// Device.
	//
	Debug     bool // Enables the device debug layer and debug checks.
	APIDump   bool // Enables API call tracing.
	VSync     bool // Presents in step with the display.
	Wireframe bool // Draws a wireframe overlay on the terrain.
	//
	// Windows.
	//
	Width         int    // Width of the default window.
	Height        int    // Height of the default window.
	Title         string // Title of the default window.
	DisplayConfig string // YAML window/view layout; replaces the default window.
	Watch         bool   // Reloads viewports when DisplayConfig changes.
	//
	// Automation.
	//
	Script        string // JSON script run from the per-frame callback.
	ScreenshotDir string // Directory script screenshots are written to.
	//
	// Diagnostics.
	//
	MetricsAddr  string // Address of the prometheus /metrics endpoint; empty disables it.
	LogVerbosity int    // Number for the log level verbosity.
	ShowFPS      bool   // Draws a frame rate overlay in every view.
	//
	// Terrain.
	//
	TerrainConcurrency uint // Background terrain loading jobs.

	noVSync bool
	fs      *pflag.FlagSet
}

// NewOptions returns a new Options struct initialized with default values.
func NewOptions() *Options {
	return &Options{
		VSync:              true,
		Width:              DefaultWidth,
		Height:             DefaultHeight,
		Title:              "geoview",
		ScreenshotDir:      "screenshots",
		TerrainConcurrency: DefaultTerrainConcurrency,
	}
}

// AddFlags binds the Options fields to command-line flags on the given FlagSet.
func (opts *Options) AddFlags(fs *pflag.FlagSet) {
	if fs == nil {
		fs = pflag.CommandLine
	}
	opts.fs = fs

	fs.BoolVar(&opts.Debug, "debug", opts.Debug,
		"Enables the device debug layer and debug checks.")
	fs.BoolVar(&opts.APIDump, "api", opts.APIDump,
		"Enables API call tracing.")
	fs.BoolVar(&opts.noVSync, "novsync", !opts.VSync,
		"Disables vertical sync.")
	fs.BoolVar(&opts.Wireframe, "wire", opts.Wireframe,
		"Draws a wireframe overlay on the terrain.")
	fs.IntVar(&opts.Width, "width", opts.Width,
		"Width of the default window.")
	fs.IntVar(&opts.Height, "height", opts.Height,
		"Height of the default window.")
	fs.StringVar(&opts.Title, "title", opts.Title,
		"Title of the default window.")
	fs.StringVar(&opts.DisplayConfig, "display", opts.DisplayConfig,
		"YAML file describing windows and views.")
	fs.BoolVar(&opts.Watch, "watch", opts.Watch,
		"Reloads view viewports when the display file changes.")
	fs.StringVar(&opts.Script, "script", opts.Script,
		"JSON script of view operations, input and screenshots.")
	fs.StringVar(&opts.ScreenshotDir, "screenshots", opts.ScreenshotDir,
		"Directory screenshots are written to.")
	fs.StringVar(&opts.MetricsAddr, "metrics-addr", opts.MetricsAddr,
		"Address to serve prometheus metrics on, e.g. :9090. Empty disables it.")
	fs.BoolVar(&opts.ShowFPS, "fps", opts.ShowFPS,
		"Draws a frame rate overlay in every view.")
	fs.IntVarP(&opts.LogVerbosity, "v", "v", opts.LogVerbosity,
		"Number for the log level verbosity.")
	fs.UintVar(&opts.TerrainConcurrency, "terrain-concurrency", opts.TerrainConcurrency,
		"Number of background terrain loading jobs.")
}

// Complete performs post-processing of parsed command-line arguments.
func (opts *Options) Complete() error {
	if opts.fs != nil && opts.fs.Changed("novsync") {
		opts.VSync = !opts.noVSync
	}
	return nil
}

// Validate checks the Options for invalid or conflicting values.
func (opts *Options) Validate() error {
	for _, d := range []struct {
		name  string
		value int
	}{
		{"width", opts.Width},
		{"height", opts.Height},
	} {
		if d.value < 1 {
			return fmt.Errorf("invalid value %d for flag %q: must be positive", d.value, d.name)
		}
	}

	if opts.Watch && opts.DisplayConfig == "" {
		return fmt.Errorf("flag %q requires %q", "watch", "display")
	}

	if opts.TerrainConcurrency == 0 {
		return fmt.Errorf("invalid value 0 for flag %q: must be positive", "terrain-concurrency")
	}

	if opts.LogVerbosity < 0 {
		return fmt.Errorf("invalid value %d for flag %q: must be >= 0", opts.LogVerbosity, "v")
	}

	return nil
}

// LogLevel maps the verbosity to a slog level: 0 is info, 1 debug, and the
// debug flag forces debug.
func (opts *Options) LogLevel() slog.Level {
	if opts.Debug || opts.LogVerbosity > 0 {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
