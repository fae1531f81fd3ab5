package volume

import "sync"

const (
	MinPercent     = 0
	MaxPercent     = 100
	DefaultPercent = 50
)

// Control holds the one user-set volume shared by the ambient player and the
// tone synthesizer.
type Control struct {
	mu        sync.Mutex
	percent   int
	listeners []func(percent int)
}

// New creates a Control clamped to [0,100].
func New(percent int) *Control {
	return &Control{percent: Clamp(percent)}
}

// Clamp bounds a percent value to [0,100].
func Clamp(percent int) int {
	if percent < MinPercent {
		return MinPercent
	}
	if percent > MaxPercent {
		return MaxPercent
	}
	return percent
}

// Percent returns the current value in [0,100].
func (control *Control) Percent() int {
	control.mu.Lock()
	defer control.mu.Unlock()
	return control.percent
}

// Normalized returns the current value in [0,1].
func (control *Control) Normalized() float64 {
	return float64(control.Percent()) / MaxPercent
}

// Set stores a new value and notifies listeners when it changed.
func (control *Control) Set(percent int) {
	percent = Clamp(percent)

	control.mu.Lock()
	if percent == control.percent {
		control.mu.Unlock()
		return
	}
	control.percent = percent
	listeners := append([]func(int){}, control.listeners...)
	control.mu.Unlock()

	for _, listener := range listeners {
		listener(percent)
	}
}

// OnChange registers a listener called with the new percent after every change.
func (control *Control) OnChange(listener func(percent int)) {
	if listener == nil {
		return
	}
	control.mu.Lock()
	control.listeners = append(control.listeners, listener)
	control.mu.Unlock()
}
