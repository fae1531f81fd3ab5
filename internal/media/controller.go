package media

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const volumeTimeout = 5 * time.Second

// Controller selects what the ambient player plays and keeps the
// now-playing line in sync. Player calls may block; call from a goroutine.
// Volume changes are the exception and never block the caller.
type Controller struct {
	mu        sync.Mutex
	player    Player
	current   NowPlaying
	volume    int
	listeners []func(NowPlaying)

	// volumeMu orders player.Volume calls so the last one applied always
	// carries the latest recorded volume.
	volumeMu      sync.Mutex
	volumePending chan struct{}
	ctx           context.Context
	cancel        context.CancelFunc
	workerDone    chan struct{}
	closeOnce     sync.Once
}

// NewController wraps player. A nil player is replaced by NopPlayer.
func NewController(player Player, volume int) *Controller {
	if player == nil {
		player = NopPlayer{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	controller := &Controller{
		player:        player,
		volume:        volume,
		volumePending: make(chan struct{}, 1),
		ctx:           ctx,
		cancel:        cancel,
		workerDone:    make(chan struct{}),
	}
	go controller.volumeWorker()
	return controller
}

// OnChange registers a listener for now-playing updates.
func (controller *Controller) OnChange(listener func(NowPlaying)) {
	if listener == nil {
		return
	}
	controller.mu.Lock()
	controller.listeners = append(controller.listeners, listener)
	controller.mu.Unlock()
}

// NowPlaying returns the current description.
func (controller *Controller) NowPlaying() NowPlaying {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.current
}

// SelectPlaylist plays a catalog entry. The now-playing line is updated from
// catalog data before the player is asked to load.
func (controller *Controller) SelectPlaylist(ctx context.Context, key string) (NowPlaying, error) {
	playlist, ok := Lookup(key)
	if !ok {
		return NowPlaying{}, fmt.Errorf("%w: unknown playlist %q", ErrInvalidSource, key)
	}
	nowPlaying := playlist.NowPlaying()
	controller.update(nowPlaying)
	return nowPlaying, controller.load(ctx, playlist.Source())
}

// PlayURL plays a user-supplied video or playlist URL.
func (controller *Controller) PlayURL(ctx context.Context, raw string) (NowPlaying, error) {
	source, err := ParseSource(raw)
	if err != nil {
		return NowPlaying{}, err
	}
	nowPlaying := source.NowPlaying()
	controller.update(nowPlaying)
	return nowPlaying, controller.load(ctx, source)
}

// SetVolume records percent and hands it to the volume worker. Intermediate
// values that arrive while the player is busy are skipped.
func (controller *Controller) SetVolume(percent int) {
	controller.mu.Lock()
	controller.volume = percent
	controller.mu.Unlock()

	select {
	case controller.volumePending <- struct{}{}:
	default:
	}
}

// Volume returns the last recorded volume.
func (controller *Controller) Volume() int {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.volume
}

// RefreshTitle replaces the placeholder title with the one the player resolved.
func (controller *Controller) RefreshTitle(ctx context.Context) (NowPlaying, error) {
	title, err := controller.player.Title(ctx)
	if err != nil {
		return controller.NowPlaying(), fmt.Errorf("read player title: %w", err)
	}

	controller.mu.Lock()
	current := controller.current
	controller.mu.Unlock()
	if title == "" || title == current.Title {
		return current, nil
	}
	current.Title = title
	controller.update(current)
	return current, nil
}

// Close stops the volume worker and the player.
func (controller *Controller) Close() error {
	controller.closeOnce.Do(func() {
		controller.cancel()
		<-controller.workerDone
	})
	return controller.player.Close()
}

func (controller *Controller) volumeWorker() {
	defer close(controller.workerDone)
	for {
		select {
		case <-controller.ctx.Done():
			return
		case <-controller.volumePending:
		}

		ctx, cancel := context.WithTimeout(controller.ctx, volumeTimeout)
		if err := controller.applyVolume(ctx); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Controller.volumeWorker",
				"error":    err.Error(),
			}).Debug("Player volume not applied")
		}
		cancel()
	}
}

// applyVolume reads the volume after taking volumeMu, so a stale value can
// never overwrite a newer one.
func (controller *Controller) applyVolume(ctx context.Context) error {
	controller.volumeMu.Lock()
	defer controller.volumeMu.Unlock()

	volume := controller.Volume()
	if err := controller.player.Volume(ctx, volume); err != nil {
		return fmt.Errorf("set player volume: %w", err)
	}
	return nil
}

func (controller *Controller) load(ctx context.Context, source Source) error {
	if err := controller.player.Load(ctx, source); err != nil {
		return fmt.Errorf("load %s %s: %w", source.Kind, source.ID, err)
	}
	if err := controller.applyVolume(ctx); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function": "Controller.load",
		"kind":     source.Kind.String(),
		"id":       source.ID,
	}).Info("Ambient source loaded")
	return nil
}

func (controller *Controller) update(nowPlaying NowPlaying) {
	controller.mu.Lock()
	controller.current = nowPlaying
	listeners := append([]func(NowPlaying){}, controller.listeners...)
	controller.mu.Unlock()

	for _, listener := range listeners {
		listener(nowPlaying)
	}
}
