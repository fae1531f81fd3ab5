package timekeeper

import (
	"sync"
	"time"
)

const defaultFrameInterval = time.Second / 60

// TimerScheduler approximates a display refresh with timers. It is used when
// no UI frame source is attached. Callbacks always run on a timer goroutine,
// never inside RequestFrame.
type TimerScheduler struct {
	mu       sync.Mutex
	interval time.Duration
	next     FrameHandle
	timers   map[FrameHandle]*time.Timer
}

// NewTimerScheduler creates a scheduler firing every interval (60 Hz when zero).
func NewTimerScheduler(interval time.Duration) *TimerScheduler {
	if interval <= 0 {
		interval = defaultFrameInterval
	}
	return &TimerScheduler{
		interval: interval,
		timers:   make(map[FrameHandle]*time.Timer),
	}
}

// RequestFrame schedules callback once after the frame interval.
func (scheduler *TimerScheduler) RequestFrame(callback func()) FrameHandle {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	scheduler.next++
	handle := scheduler.next
	scheduler.timers[handle] = time.AfterFunc(scheduler.interval, func() {
		scheduler.mu.Lock()
		_, pending := scheduler.timers[handle]
		delete(scheduler.timers, handle)
		scheduler.mu.Unlock()
		if pending {
			callback()
		}
	})
	return handle
}

// CancelFrame drops a pending callback. Unknown handles are ignored.
func (scheduler *TimerScheduler) CancelFrame(handle FrameHandle) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	timer, ok := scheduler.timers[handle]
	if !ok {
		return
	}
	timer.Stop()
	delete(scheduler.timers, handle)
}

// Pending reports how many callbacks are waiting.
func (scheduler *TimerScheduler) Pending() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return len(scheduler.timers)
}
