package main

import (
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"tempo/internal/logging"
	"tempo/internal/media"
)

const (
	appName = "Tempo"
	appID   = "dev.tempo.app"
	version = "0.3.0"
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tempo"),
		kong.Description("Pomodoro timer with transition tones and background audio."),
		kong.UsageOnError(),
		kong.Vars{
			"version":       version,
			"max_log_files": strconv.Itoa(logging.DefaultMaxFiles),
			"playlists":     strings.Join(media.Keys(), ", "),
		},
	)

	ctx.FatalIfErrorf(run(&cli))
}
