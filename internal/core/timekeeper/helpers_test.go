package timekeeper

import (
	"sync"
	"time"

	"tempo/internal/core/model"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (clock *manualClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *manualClock) Advance(d time.Duration) {
	clock.mu.Lock()
	clock.now = clock.now.Add(d)
	clock.mu.Unlock()
}

type manualScheduler struct {
	mu       sync.Mutex
	next     FrameHandle
	pending  map[FrameHandle]func()
	requests int
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{pending: make(map[FrameHandle]func())}
}

func (scheduler *manualScheduler) RequestFrame(callback func()) FrameHandle {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.next++
	scheduler.requests++
	scheduler.pending[scheduler.next] = callback
	return scheduler.next
}

func (scheduler *manualScheduler) CancelFrame(handle FrameHandle) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	delete(scheduler.pending, handle)
}

func (scheduler *manualScheduler) Pending() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return len(scheduler.pending)
}

func (scheduler *manualScheduler) Requests() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.requests
}

func (scheduler *manualScheduler) Callbacks() []func() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	callbacks := make([]func(), 0, len(scheduler.pending))
	for _, callback := range scheduler.pending {
		callbacks = append(callbacks, callback)
	}
	return callbacks
}

// Fire runs every pending callback, as a rendered frame would.
func (scheduler *manualScheduler) Fire() {
	scheduler.mu.Lock()
	callbacks := make([]func(), 0, len(scheduler.pending))
	for handle, callback := range scheduler.pending {
		callbacks = append(callbacks, callback)
		delete(scheduler.pending, handle)
	}
	scheduler.mu.Unlock()

	for _, callback := range callbacks {
		callback()
	}
}

type toneCall struct {
	endingWork bool
	volume     float64
}

type recordingTones struct {
	mu        sync.Mutex
	initErr   error
	initCalls int
	calls     []toneCall
}

func (tones *recordingTones) Init() error {
	tones.mu.Lock()
	defer tones.mu.Unlock()
	tones.initCalls++
	return tones.initErr
}

func (tones *recordingTones) PlayTransitionTone(endingWork bool, volume float64) {
	tones.mu.Lock()
	defer tones.mu.Unlock()
	tones.calls = append(tones.calls, toneCall{endingWork: endingWork, volume: volume})
}

func (tones *recordingTones) Calls() []toneCall {
	tones.mu.Lock()
	defer tones.mu.Unlock()
	return append([]toneCall(nil), tones.calls...)
}

type recordingDisplay struct {
	mu    sync.Mutex
	views []View
}

func (display *recordingDisplay) Render(view View) {
	display.mu.Lock()
	defer display.mu.Unlock()
	display.views = append(display.views, view)
}

func (display *recordingDisplay) Last() View {
	display.mu.Lock()
	defer display.mu.Unlock()
	if len(display.views) == 0 {
		return View{}
	}
	return display.views[len(display.views)-1]
}

type fixedVolume float64

func (volume fixedVolume) Normalized() float64 {
	return float64(volume)
}

type fixture struct {
	clock     *manualClock
	scheduler *manualScheduler
	tones     *recordingTones
	display   *recordingDisplay
	keeper    *Keeper
}

func newFixture() *fixture {
	f := &fixture{
		clock:     newManualClock(),
		scheduler: newManualScheduler(),
		tones:     &recordingTones{},
		display:   &recordingDisplay{},
	}
	f.keeper = New(model.DefaultSessionConfig(), Config{
		Clock:     f.clock,
		Scheduler: f.scheduler,
		Display:   f.display,
		Tones:     f.tones,
		Volume:    fixedVolume(0.5),
	})
	return f
}

// step advances the clock and delivers one frame.
func (f *fixture) step(d time.Duration) {
	f.clock.Advance(d)
	f.scheduler.Fire()
}
