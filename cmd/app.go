package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/sirupsen/logrus"

	"tempo/internal/audio"
	"tempo/internal/core/model"
	"tempo/internal/core/timekeeper"
	"tempo/internal/core/volume"
	"tempo/internal/logging"
	"tempo/internal/media"
	"tempo/internal/notify"
	"tempo/internal/platform"
	"tempo/internal/storage"
	"tempo/internal/ui/animation"
	"tempo/internal/ui/frameloop"
	"tempo/internal/ui/preferences"
	"tempo/internal/ui/timerwindow"
	"tempo/internal/ui/tray"
	"tempo/resources"
)

const (
	playerTimeout = 5 * time.Second
	// mpv needs a moment to resolve a stream before it knows the title.
	titleDelay = 4 * time.Second
)

func run(cli *CLI) error {
	settings, loadErr := storage.LoadSettings(appName)
	settings, err := cli.Apply(settings)
	if err != nil {
		return err
	}

	logOutput, err := logging.Setup(cli.LoggingOptions(settings))
	if err != nil {
		return err
	}
	defer func() {
		_ = logOutput.Close()
	}()
	if loadErr != nil {
		logrus.WithFields(logrus.Fields{
			"function": "run",
			"error":    loadErr.Error(),
		}).Warn("Settings file unreadable, using defaults")
	}

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "run",
			"error":    err.Error(),
		}).Info("Another instance is running")
		return nil
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustLogo(resources.LogoWork))

	volumeControl := volume.New(settings.Volume)
	loop := frameloop.New()
	defer loop.Close()

	keeperConfig := timekeeper.Config{
		Scheduler: loop,
		Volume:    volumeControl,
	}
	var synth *audio.Synth
	if !cli.NoAudio {
		synth = audio.NewSynth(audio.NewContext(audio.DefaultSampleRate, audio.SpeakerSink{}))
		synth.SetVolume(volumeControl.Normalized())
		keeperConfig.Tones = synth
	}
	keeper := timekeeper.New(model.DefaultSessionConfig(), keeperConfig)

	player := newPlayer(cli.MPVPath)
	controller := media.NewController(player, settings.Volume)
	defer func() {
		_ = controller.Close()
	}()

	var settingsMu sync.Mutex
	saveSettings := func(update func(*preferences.Settings)) {
		settingsMu.Lock()
		defer settingsMu.Unlock()
		update(&settings)
		if err := storage.SaveSettings(appName, settings); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "saveSettings",
				"error":    err.Error(),
			}).Warn("Failed to save settings")
		}
	}

	var window *timerwindow.Window
	sprites, err := loadSprites()
	if err != nil {
		return err
	}
	engine := animation.New(animation.DefaultConfig(), sprites, func(resource fyne.Resource) {
		window.SetSprite(resource)
	})

	window = timerwindow.New(fyneApp, timerwindow.Initial{
		Volume:    settings.Volume,
		Playlist:  settings.Playlist,
		CustomURL: settings.CustomURL,
	}, timerwindow.Actions{
		OnStart:  keeper.Start,
		OnPause:  keeper.Pause,
		OnReset:  keeper.Reset,
		OnVolume: volumeControl.Set,
		OnPlaylist: func(key string) {
			go playMedia(window, func(ctx context.Context) (media.NowPlaying, error) {
				return controller.SelectPlaylist(ctx, key)
			}, controller)
			saveSettings(func(current *preferences.Settings) {
				current.Playlist = key
			})
		},
		OnPlayURL: func(raw string) {
			go playMedia(window, func(ctx context.Context) (media.NowPlaying, error) {
				return controller.PlayURL(ctx, raw)
			}, controller)
			saveSettings(func(current *preferences.Settings) {
				current.CustomURL = raw
			})
		},
	}, engine)
	defer window.Close()
	keeper.SetDisplay(window)
	if _, ok := player.(media.NopPlayer); ok {
		window.SetStatus("Install mpv to enable background audio")
	}

	controller.OnChange(window.SetNowPlaying)
	volumeControl.OnChange(func(percent int) {
		window.SetVolume(percent)
		if synth != nil {
			synth.SetVolume(volumeControl.Normalized())
		}
		controller.SetVolume(percent)
	})

	watcher := timekeeper.NewIdleWatcher(keeper, platform.NewIdleProvider(), settings.IdleConfig())
	watcher.Start()
	defer watcher.Stop()

	notifyCtx, stopNotify := context.WithCancel(context.Background())
	defer stopNotify()
	notifier := notify.New(settings.DesktopNotifications, "")
	go notifier.Watch(notifyCtx, keeper.Subscribe(8))

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) error {
		if err := updated.Validate(); err != nil {
			return err
		}
		level, err := logrus.ParseLevel(updated.LogLevel)
		if err != nil {
			return err
		}
		saveSettings(func(current *preferences.Settings) {
			current.DesktopNotifications = updated.DesktopNotifications
			current.PauseWhenIdle = updated.PauseWhenIdle
			current.IdleAfter = updated.IdleAfter
			current.LogLevel = updated.LogLevel
		})
		if !cli.Debug {
			logrus.SetLevel(level)
		}
		notifier.SetEnabled(updated.DesktopNotifications)
		watcher.UpdateConfig(updated.IdleConfig())
		return nil
	})

	quit := func() {
		keeper.Pause()
		saveSettings(func(current *preferences.Settings) {
			current.Volume = volumeControl.Percent()
		})
		fyneApp.Quit()
	}

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager := tray.New(desktopApp, tray.Icons{
			Work:   resources.MustLogo(resources.LogoWork),
			Break:  resources.MustLogo(resources.LogoBreak),
			Paused: resources.MustLogo(resources.LogoPaused),
		}, tray.Callbacks{
			OnToggle:      keeper.Toggle,
			OnReset:       keeper.Reset,
			OnShow:        window.Show,
			OnPreferences: prefsWindow.Show,
			OnQuit:        quit,
		})
		go trayManager.Watch(keeper.Subscribe(16))
		window.SetCloseIntercept(window.Hide)
	} else {
		logrus.WithFields(logrus.Fields{
			"function": "run",
		}).Info("System tray unsupported, closing the window quits")
		window.SetCloseIntercept(quit)
	}

	logrus.WithFields(logrus.Fields{
		"function": "run",
		"volume":   settings.Volume,
		"playlist": settings.Playlist,
		"audio":    !cli.NoAudio,
	}).Info("Tempo started")

	window.ShowAndRun()
	return nil
}

func newPlayer(mpvPath string) media.Player {
	player := media.NewMPVPlayer(media.MPVOptions{Path: mpvPath})
	if !player.Available() {
		logrus.WithFields(logrus.Fields{
			"function": "newPlayer",
			"path":     mpvPath,
		}).Info("mpv unavailable, background audio disabled")
		return media.NopPlayer{}
	}
	return player
}

func loadSprites() (animation.Set, error) {
	work, err := resources.SpriteSequence("work")
	if err != nil {
		return animation.Set{}, err
	}
	breakFrames, err := resources.SpriteSequence("break")
	if err != nil {
		return animation.Set{}, err
	}
	accent, err := resources.Sprite("work-accent.svg")
	if err != nil {
		return animation.Set{}, err
	}
	return animation.Set{
		Work:  animation.SessionSpec{Frames: work, Accent: accent},
		Break: animation.SessionSpec{Frames: breakFrames},
	}, nil
}

// playMedia runs a controller call off the UI goroutine and reports the
// outcome in the window.
func playMedia(window *timerwindow.Window, load func(context.Context) (media.NowPlaying, error), controller *media.Controller) {
	ctx, cancel := context.WithTimeout(context.Background(), playerTimeout)
	defer cancel()

	if _, err := load(ctx); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "playMedia",
			"error":    err.Error(),
		}).Warn("Background audio failed")
		if errors.Is(err, media.ErrPlayerUnavailable) {
			window.SetStatus("Background audio needs mpv")
		} else {
			window.SetStatus("Could not play that source")
		}
		return
	}
	window.SetStatus("")

	time.Sleep(titleDelay)
	titleCtx, cancelTitle := context.WithTimeout(context.Background(), playerTimeout)
	defer cancelTitle()
	if _, err := controller.RefreshTitle(titleCtx); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "playMedia",
			"error":    err.Error(),
		}).Debug("Title refresh failed")
	}
}
