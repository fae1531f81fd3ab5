package timekeeper

import "time"

// Clock reports wall-clock time. Tests inject a manual clock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock backed by time.Now.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// FrameHandle identifies one pending frame callback. Zero means none.
type FrameHandle uint64

// FrameScheduler runs a callback once on the next rendered frame.
type FrameScheduler interface {
	RequestFrame(callback func()) FrameHandle
	CancelFrame(handle FrameHandle)
}

// Display receives formatted timer state on every tick and transition.
type Display interface {
	Render(view View)
}

// ToneSynth plays the audible cue at a session boundary.
// Init is called on the first Start and may fail; PlayTransitionTone must not block.
type ToneSynth interface {
	Init() error
	PlayTransitionTone(endingWork bool, volume float64)
}

// VolumeReader exposes the shared volume normalized to [0,1].
type VolumeReader interface {
	Normalized() float64
}
