package audio

import (
	"math"
	"time"
)

// Oscillator is a one-shot sine voice. It is silent outside [start, stop)
// and is removed from the graph once its stop time has been rendered.
type Oscillator struct {
	Frequency *Param

	phase   float64
	started bool
	startAt time.Duration
	stopped bool
	stopAt  time.Duration
}

func newOscillator(frequency float64) *Oscillator {
	return &Oscillator{Frequency: NewParam(frequency)}
}

// Start makes the voice audible from at.
func (oscillator *Oscillator) Start(at time.Duration) {
	oscillator.started = true
	oscillator.startAt = at
}

// Stop silences the voice from at.
func (oscillator *Oscillator) Stop(at time.Duration) {
	oscillator.stopped = true
	oscillator.stopAt = at
}

func (oscillator *Oscillator) sample(t time.Duration, step float64) float64 {
	if !oscillator.started || t < oscillator.startAt {
		return 0
	}
	if oscillator.stopped && t >= oscillator.stopAt {
		return 0
	}
	value := math.Sin(2 * math.Pi * oscillator.phase)
	oscillator.phase += oscillator.Frequency.ValueAt(t) * step
	oscillator.phase -= math.Floor(oscillator.phase)
	return value
}

func (oscillator *Oscillator) finished(now time.Duration) bool {
	return oscillator.stopped && now >= oscillator.stopAt
}
