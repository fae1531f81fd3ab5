package audio

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Contour frequencies in Hz.
const (
	lowFrequency      = 300.33
	midFrequency      = 880.0
	highFrequency     = 1174.66
	resolveFrequency  = 587.33
	contourStep       = 200 * time.Millisecond
	nearSilence       = 0.01
	breakHoldFraction = 0.7
)

type gainPoint struct {
	kind automationKind
	// scale multiplies the tone volume; level is added as an absolute value.
	scale float64
	level float64
	at    time.Duration
}

type toneShape struct {
	frequencies [3]float64
	envelope    []gainPoint
	stopAt      time.Duration
}

// Ending work: ascending contour, short decay.
var breakStartingTone = toneShape{
	frequencies: [3]float64{lowFrequency, midFrequency, highFrequency},
	envelope: []gainPoint{
		{kind: setValue, scale: 1},
		{kind: exponentialRamp, level: nearSilence, at: 600 * time.Millisecond},
		{kind: setValue, at: 700 * time.Millisecond},
	},
	stopAt: time.Second,
}

// Ending a break: descending contour, two-stage decay.
var workResumingTone = toneShape{
	frequencies: [3]float64{highFrequency, midFrequency, resolveFrequency},
	envelope: []gainPoint{
		{kind: setValue, scale: 1},
		{kind: exponentialRamp, scale: breakHoldFraction, at: 300 * time.Millisecond},
		{kind: exponentialRamp, level: nearSilence, at: 800 * time.Millisecond},
		{kind: setValue, at: 900 * time.Millisecond},
	},
	stopAt: 1200 * time.Millisecond,
}

func shapeFor(endingWork bool) toneShape {
	if endingWork {
		return breakStartingTone
	}
	return workResumingTone
}

// Synth plays session transition tones through a Context.
type Synth struct {
	output *Context
}

// NewSynth creates a synthesizer rendering into output.
func NewSynth(output *Context) *Synth {
	return &Synth{output: output}
}

// Init opens the audio output. Call it from a user gesture.
func (synth *Synth) Init() error {
	return synth.output.Init()
}

// PlayTransitionTone schedules a fresh oscillator and the gain envelope for
// the session that is ending and returns immediately. The tone is skipped
// when the output is not open.
func (synth *Synth) PlayTransitionTone(endingWork bool, volume float64) {
	if !synth.output.Ready() {
		logrus.WithFields(logrus.Fields{
			"function":    "PlayTransitionTone",
			"ending_work": endingWork,
		}).Debug("Skipping tone, audio output not open")
		return
	}
	volume = clamp(volume, 0, 1)
	shape := shapeFor(endingWork)

	synth.output.Schedule(func(graph *Graph) {
		scheduleTone(graph, shape, volume)
	})
}

// SetVolume applies a live volume change from now on. Ramp points that are
// already scheduled keep their targets.
func (synth *Synth) SetVolume(volume float64) {
	volume = clamp(volume, 0, 1)
	synth.output.Schedule(func(graph *Graph) {
		graph.Gain.SetValueAtTime(volume, graph.Now)
	})
}

func scheduleTone(graph *Graph, shape toneShape, volume float64) {
	start := graph.Now

	oscillator := graph.NewOscillator(shape.frequencies[0])
	oscillator.Frequency.SetValueAtTime(shape.frequencies[0], start)
	oscillator.Frequency.LinearRampToValueAtTime(shape.frequencies[1], start+contourStep)
	oscillator.Frequency.LinearRampToValueAtTime(shape.frequencies[2], start+2*contourStep)

	for _, point := range shape.envelope {
		value := point.scale*volume + point.level
		at := start + point.at
		switch point.kind {
		case exponentialRamp:
			graph.Gain.ExponentialRampToValueAtTime(value, at)
		case linearRamp:
			graph.Gain.LinearRampToValueAtTime(value, at)
		default:
			graph.Gain.SetValueAtTime(value, at)
		}
	}

	oscillator.Start(start)
	oscillator.Stop(start + shape.stopAt)
}
