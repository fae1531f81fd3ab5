package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"tempo/internal/core/volume"
	"tempo/internal/logging"
	"tempo/internal/ui/preferences"
)

// CLI represents the command-line interface structure.
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	LogFile     string           `help:"Write logs to this file instead of stderr" type:"path"`
	LogLevel    string           `help:"Log level (debug, info, warn, error); overrides settings"`
	MaxLogFiles int              `help:"Maximum number of debug log files to keep" default:"${max_log_files}"`

	Volume   int    `help:"Initial volume 0-100; overrides settings" default:"-1"`
	Playlist string `help:"Preselected playlist (${playlists}); overrides settings"`
	NoAudio  bool   `help:"Disable the session transition tones"`
	MPVPath  string `help:"mpv executable used for background audio" name:"mpv-path" default:"mpv"`
}

// Validate is called by kong after parsing.
func (cli *CLI) Validate() error {
	if cli.Volume != -1 && cli.Volume != volume.Clamp(cli.Volume) {
		return fmt.Errorf("--volume must be between %d and %d", volume.MinPercent, volume.MaxPercent)
	}
	return nil
}

// Apply overlays explicitly set flags on settings loaded from disk.
func (cli *CLI) Apply(settings preferences.Settings) (preferences.Settings, error) {
	if cli.Volume >= 0 {
		settings.Volume = cli.Volume
	}
	if cli.Playlist != "" {
		settings.Playlist = cli.Playlist
	}
	if cli.LogLevel != "" {
		settings.LogLevel = cli.LogLevel
	}
	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("invalid flags: %w", err)
	}
	return settings, nil
}

// LoggingOptions derives logging options from flags and effective settings.
func (cli *CLI) LoggingOptions(settings preferences.Settings) logging.Options {
	return logging.Options{
		Level:    settings.LogLevel,
		File:     cli.LogFile,
		Debug:    cli.Debug,
		MaxFiles: cli.MaxLogFiles,
	}
}
