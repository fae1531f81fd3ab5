package timekeeper

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"tempo/internal/core/model"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// IdleWatcher pauses a running work session once the user has been idle
// for longer than the configured threshold. Breaks are never paused.
type IdleWatcher struct {
	mu      sync.Mutex
	keeper  *Keeper
	checker IdleChecker
	config  model.IdleConfig
	stopCh  chan struct{}
	running bool
}

// NewIdleWatcher creates a watcher. It does nothing until Start.
func NewIdleWatcher(keeper *Keeper, checker IdleChecker, config model.IdleConfig) *IdleWatcher {
	return &IdleWatcher{
		keeper:  keeper,
		checker: checker,
		config:  normalizeIdleConfig(config),
	}
}

func normalizeIdleConfig(config model.IdleConfig) model.IdleConfig {
	defaults := model.DefaultIdleConfig()
	if config.CheckInterval <= 0 {
		config.CheckInterval = defaults.CheckInterval
	}
	if config.PauseAfter <= 0 {
		config.PauseAfter = defaults.PauseAfter
	}
	return config
}

// UpdateConfig replaces the idle configuration. It takes effect on the next check.
func (watcher *IdleWatcher) UpdateConfig(config model.IdleConfig) {
	watcher.mu.Lock()
	watcher.config = normalizeIdleConfig(config)
	watcher.mu.Unlock()
}

// Config returns the active configuration.
func (watcher *IdleWatcher) Config() model.IdleConfig {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	return watcher.config
}

// Start launches the polling loop.
func (watcher *IdleWatcher) Start() {
	watcher.mu.Lock()
	if watcher.running {
		watcher.mu.Unlock()
		return
	}
	watcher.running = true
	watcher.stopCh = make(chan struct{})
	interval := watcher.config.CheckInterval
	stopCh := watcher.stopCh
	watcher.mu.Unlock()

	go watcher.run(interval, stopCh)
}

// Stop terminates the polling loop.
func (watcher *IdleWatcher) Stop() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if !watcher.running {
		return
	}
	close(watcher.stopCh)
	watcher.running = false
}

func (watcher *IdleWatcher) run(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			watcher.check()
		}
	}
}

// check returns true when it paused the Keeper.
func (watcher *IdleWatcher) check() bool {
	watcher.mu.Lock()
	config := watcher.config
	checker := watcher.checker
	watcher.mu.Unlock()

	if !config.Enabled || checker == nil {
		return false
	}
	snapshot := watcher.keeper.Snapshot()
	if snapshot.State != StateRunning || !snapshot.IsWork {
		return false
	}

	idle, err := checker.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			watcher.mu.Lock()
			watcher.config.Enabled = false
			watcher.mu.Unlock()
		}
		logrus.WithFields(logrus.Fields{
			"function": "IdleWatcher.check",
			"error":    err.Error(),
		}).Warn("Idle check failed")
		watcher.keeper.emit(Event{
			Type:    EventIdleError,
			State:   snapshot.State,
			IsWork:  snapshot.IsWork,
			Message: err.Error(),
			At:      watcher.keeper.options.Clock.Now(),
		})
		return false
	}
	if idle < config.PauseAfter {
		return false
	}
	return watcher.keeper.pauseForIdle(idle)
}

func (keeper *Keeper) pauseForIdle(idle time.Duration) bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if !keeper.isWork {
		return false
	}
	message := fmt.Sprintf("idle for %s", idle.Round(time.Second))
	if !keeper.pauseLocked(message) {
		return false
	}
	logrus.WithFields(logrus.Fields{
		"function": "pauseForIdle",
		"idle":     idle.String(),
	}).Info("Paused work session while idle")
	keeper.emitLocked(Event{
		Type:      EventIdlePause,
		State:     StatePaused,
		IsWork:    true,
		Remaining: keeper.remaining,
		Completed: keeper.completed,
		Message:   message,
		At:        keeper.options.Clock.Now(),
	})
	return true
}
