package preferences

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"tempo/internal/core/model"
	"tempo/internal/core/volume"
	"tempo/internal/media"
)

const (
	MinIdleAfter = time.Minute
	MaxIdleAfter = 2 * time.Hour
)

// Settings defines editable user preferences. Timer durations are fixed and
// deliberately absent.
type Settings struct {
	Volume    int
	Playlist  string
	CustomURL string

	DesktopNotifications bool
	PauseWhenIdle        bool
	IdleAfter            time.Duration

	LogLevel string
}

// DefaultSettings returns default settings for Tempo.
func DefaultSettings() Settings {
	return Settings{
		Volume:               volume.DefaultPercent,
		Playlist:             media.DefaultPlaylist,
		DesktopNotifications: true,
		PauseWhenIdle:        false,
		IdleAfter:            model.DefaultIdleConfig().PauseAfter,
		LogLevel:             logrus.InfoLevel.String(),
	}
}

// IdleConfig converts settings to the idle watcher configuration.
func (settings Settings) IdleConfig() model.IdleConfig {
	config := model.DefaultIdleConfig()
	config.Enabled = settings.PauseWhenIdle
	config.PauseAfter = settings.IdleAfter
	return config
}

// Validate reports every out-of-range field.
func (settings Settings) Validate() error {
	var errs []error
	if settings.Volume != volume.Clamp(settings.Volume) {
		errs = append(errs, fmt.Errorf("volume %d outside %d..%d", settings.Volume, volume.MinPercent, volume.MaxPercent))
	}
	if _, ok := media.Lookup(settings.Playlist); !ok {
		errs = append(errs, fmt.Errorf("unknown playlist %q", settings.Playlist))
	}
	if settings.CustomURL != "" {
		if _, err := media.ParseSource(settings.CustomURL); err != nil {
			errs = append(errs, err)
		}
	}
	if settings.IdleAfter < MinIdleAfter || settings.IdleAfter > MaxIdleAfter {
		errs = append(errs, fmt.Errorf("idle threshold %s outside %s..%s", settings.IdleAfter, MinIdleAfter, MaxIdleAfter))
	}
	if _, err := logrus.ParseLevel(settings.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
