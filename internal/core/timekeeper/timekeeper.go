package timekeeper

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"tempo/internal/core/model"
)

const fullVolume = 1.0

// Config contains runtime collaborators for Keeper. Nil fields fall back to
// the system clock, a timer-driven scheduler and silent sinks.
type Config struct {
	Clock            Clock
	Scheduler        FrameScheduler
	Display          Display
	Tones            ToneSynth
	Volume           VolumeReader
	ProgressInterval time.Duration
}

// Snapshot is a copy of the Keeper state.
type Snapshot struct {
	State        State
	IsWork       bool
	Remaining    time.Duration
	Completed    int
	LastTick     time.Time
	FramePending bool
}

// Keeper is the pomodoro state machine. It advances on frame callbacks and
// measures elapsed time from the wall clock, not from the callback cadence.
type Keeper struct {
	mu               sync.Mutex
	config           model.SessionConfig
	options          Config
	state            State
	isWork           bool
	remaining        time.Duration
	completed        int
	lastTick         time.Time
	frame            FrameHandle
	generation       uint64
	audioInitialized bool
	events           []chan Event
	lastProgressSent time.Time
}

// New creates a stopped Keeper at the start of a work session.
func New(config model.SessionConfig, options Config) *Keeper {
	defaults := model.DefaultSessionConfig()
	if config.Work <= 0 {
		config.Work = defaults.Work
	}
	if config.Break <= 0 {
		config.Break = defaults.Break
	}
	if options.Clock == nil {
		options.Clock = SystemClock
	}
	if options.Scheduler == nil {
		options.Scheduler = NewTimerScheduler(0)
	}
	if options.ProgressInterval <= 0 {
		options.ProgressInterval = time.Second
	}

	return &Keeper{
		config:    config,
		options:   options,
		state:     StateStopped,
		isWork:    true,
		remaining: config.Work,
	}
}

// SetDisplay injects the display sink and renders the current state into it.
func (keeper *Keeper) SetDisplay(display Display) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.options.Display = display
	keeper.renderLocked()
}

// Subscribe registers a new observer channel. Slow observers miss events.
func (keeper *Keeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	keeper.events = append(keeper.events, ch)
	keeper.mu.Unlock()
	return ch
}

// Snapshot returns the current state.
func (keeper *Keeper) Snapshot() Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return Snapshot{
		State:        keeper.state,
		IsWork:       keeper.isWork,
		Remaining:    keeper.remaining,
		Completed:    keeper.completed,
		LastTick:     keeper.lastTick,
		FramePending: keeper.frame != 0,
	}
}

// Start begins or resumes counting down. It is a no-op while running.
func (keeper *Keeper) Start() {
	keeper.initAudio()

	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.startLocked()
}

// Pause freezes the countdown. It is a no-op unless running.
func (keeper *Keeper) Pause() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.pauseLocked("")
}

// Toggle starts a stopped or paused Keeper and pauses a running one.
func (keeper *Keeper) Toggle() {
	keeper.initAudio()

	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.state == StateRunning {
		keeper.pauseLocked("")
		return
	}
	keeper.startLocked()
}

// Reset stops the Keeper and restores a fresh work session with no completed sessions.
func (keeper *Keeper) Reset() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	keeper.cancelFrameLocked()
	keeper.state = StateStopped
	keeper.isWork = true
	keeper.remaining = keeper.config.Work
	keeper.completed = 0
	keeper.lastTick = time.Time{}
	keeper.lastProgressSent = time.Time{}

	keeper.renderLocked()
	keeper.emitLocked(Event{
		Type:      EventStateChange,
		State:     StateStopped,
		IsWork:    true,
		Remaining: keeper.remaining,
		At:        keeper.options.Clock.Now(),
	})
}

func (keeper *Keeper) startLocked() {
	if keeper.state == StateRunning {
		return
	}

	now := keeper.options.Clock.Now()
	keeper.state = StateRunning
	keeper.lastTick = now
	keeper.emitLocked(Event{
		Type:      EventStateChange,
		State:     StateRunning,
		IsWork:    keeper.isWork,
		Remaining: keeper.remaining,
		Completed: keeper.completed,
		At:        now,
	})
	keeper.tickLocked(now)
}

func (keeper *Keeper) pauseLocked(message string) bool {
	if keeper.state != StateRunning {
		return false
	}
	keeper.cancelFrameLocked()
	keeper.state = StatePaused
	keeper.lastTick = time.Time{}

	keeper.renderLocked()
	keeper.emitLocked(Event{
		Type:      EventStateChange,
		State:     StatePaused,
		IsWork:    keeper.isWork,
		Remaining: keeper.remaining,
		Completed: keeper.completed,
		Message:   message,
		At:        keeper.options.Clock.Now(),
	})
	return true
}

// initAudio opens the tone output once. Init may block on the audio
// device, so it runs without holding the lock.
func (keeper *Keeper) initAudio() {
	keeper.mu.Lock()
	tones := keeper.options.Tones
	if keeper.audioInitialized || tones == nil {
		keeper.mu.Unlock()
		return
	}
	keeper.audioInitialized = true
	keeper.mu.Unlock()

	if err := tones.Init(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "initAudio",
			"error":    err.Error(),
		}).Warn("Audio output unavailable, transition tones disabled")
	}
}

func (keeper *Keeper) onFrame(generation uint64) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if generation != keeper.generation {
		return
	}
	keeper.frame = 0
	keeper.tickLocked(keeper.options.Clock.Now())
}

func (keeper *Keeper) tickLocked(now time.Time) {
	if keeper.state != StateRunning {
		return
	}

	delta := now.Sub(keeper.lastTick)
	if delta < 0 {
		delta = 0
	}
	keeper.lastTick = now

	if keeper.remaining <= 0 {
		keeper.completeSessionLocked(now)
		keeper.tickLocked(now)
		return
	}

	keeper.remaining -= delta
	if keeper.remaining < 0 {
		keeper.remaining = 0
	}
	keeper.renderLocked()
	keeper.maybeEmitProgressLocked(now)
	keeper.requestFrameLocked()
}

func (keeper *Keeper) completeSessionLocked(now time.Time) {
	endedWork := keeper.isWork
	keeper.playToneLocked(endedWork)

	if endedWork {
		keeper.completed++
		keeper.isWork = false
		keeper.remaining = keeper.config.Break
	} else {
		keeper.isWork = true
		keeper.remaining = keeper.config.Work
	}
	keeper.lastTick = now

	logrus.WithFields(logrus.Fields{
		"function":   "completeSession",
		"ended_work": endedWork,
		"completed":  keeper.completed,
	}).Info("Session complete")

	keeper.emitLocked(Event{
		Type:      EventSessionComplete,
		State:     keeper.state,
		IsWork:    keeper.isWork,
		EndedWork: endedWork,
		Remaining: keeper.remaining,
		Completed: keeper.completed,
		At:        now,
	})
}

func (keeper *Keeper) playToneLocked(endingWork bool) {
	if keeper.options.Tones == nil {
		return
	}
	volume := fullVolume
	if keeper.options.Volume != nil {
		volume = keeper.options.Volume.Normalized()
	}
	keeper.options.Tones.PlayTransitionTone(endingWork, volume)
}

func (keeper *Keeper) requestFrameLocked() {
	keeper.cancelFrameLocked()
	generation := keeper.generation
	keeper.frame = keeper.options.Scheduler.RequestFrame(func() {
		keeper.onFrame(generation)
	})
}

func (keeper *Keeper) cancelFrameLocked() {
	keeper.generation++
	if keeper.frame == 0 {
		return
	}
	keeper.options.Scheduler.CancelFrame(keeper.frame)
	keeper.frame = 0
}

func (keeper *Keeper) renderLocked() {
	if keeper.options.Display == nil {
		return
	}
	keeper.options.Display.Render(View{
		Clock:     FormatClock(keeper.remaining),
		Session:   SessionLabel(keeper.isWork),
		Completed: CompletedLabel(keeper.completed),
		State:     keeper.state,
		IsWork:    keeper.isWork,
		Remaining: keeper.remaining,
		Progress:  progressOf(keeper.config.Duration(keeper.isWork), keeper.remaining),
	})
}

func (keeper *Keeper) maybeEmitProgressLocked(now time.Time) {
	if !keeper.lastProgressSent.IsZero() && now.Sub(keeper.lastProgressSent) < keeper.options.ProgressInterval {
		return
	}
	keeper.emitLocked(Event{
		Type:      EventProgress,
		State:     keeper.state,
		IsWork:    keeper.isWork,
		Remaining: keeper.remaining,
		Completed: keeper.completed,
		At:        now,
	})
	keeper.lastProgressSent = now
}

func (keeper *Keeper) emit(event Event) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.emitLocked(event)
}

func (keeper *Keeper) emitLocked(event Event) {
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
