package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/sirupsen/logrus"
)

// DefaultSampleRate is used when a Context is created with a zero rate.
const DefaultSampleRate beep.SampleRate = 44100

// ErrOutputUnavailable is returned when the audio device cannot be opened.
var ErrOutputUnavailable = errors.New("audio output unavailable")

// Sink is where the rendered graph is played.
type Sink interface {
	Init(sampleRate beep.SampleRate) error
	Play(streamer beep.Streamer)
}

// Context is a tiny audio graph: oscillators summed through one shared gain
// stage into a sink. It implements beep.Streamer; the sink pulls samples on
// its own goroutine and the sample clock is the graph's notion of time.
type Context struct {
	mu         sync.Mutex
	sampleRate beep.SampleRate
	sink       Sink
	initOnce   sync.Once
	initErr    error
	ready      bool
	position   int
	gain       *Param
	voices     []*Oscillator
}

// Graph is the locked view of a Context handed to Schedule callbacks.
type Graph struct {
	Now  time.Duration
	Gain *Param

	owner *Context
}

// NewContext creates a Context. Nothing is opened until Init.
func NewContext(sampleRate beep.SampleRate, sink Sink) *Context {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Context{
		sampleRate: sampleRate,
		sink:       sink,
		gain:       NewParam(1),
	}
}

// Init opens the sink and starts playback once. Later calls return the first result.
func (audioContext *Context) Init() error {
	audioContext.initOnce.Do(func() {
		if audioContext.sink == nil {
			audioContext.initErr = ErrOutputUnavailable
			return
		}
		if err := audioContext.sink.Init(audioContext.sampleRate); err != nil {
			audioContext.initErr = fmt.Errorf("%w: %w", ErrOutputUnavailable, err)
			return
		}
		audioContext.mu.Lock()
		audioContext.ready = true
		audioContext.mu.Unlock()
		audioContext.sink.Play(audioContext)

		logrus.WithFields(logrus.Fields{
			"function":    "Context.Init",
			"sample_rate": int(audioContext.sampleRate),
		}).Debug("Audio output opened")
	})
	return audioContext.initErr
}

// Ready reports whether Init succeeded.
func (audioContext *Context) Ready() bool {
	audioContext.mu.Lock()
	defer audioContext.mu.Unlock()
	return audioContext.ready
}

// SampleRate returns the rate the graph renders at.
func (audioContext *Context) SampleRate() beep.SampleRate {
	return audioContext.sampleRate
}

// CurrentTime is the time of the next sample to be rendered.
func (audioContext *Context) CurrentTime() time.Duration {
	audioContext.mu.Lock()
	defer audioContext.mu.Unlock()
	return audioContext.sampleRate.D(audioContext.position)
}

// Schedule runs fn with the graph locked so a group of automation points and
// voices is added atomically relative to rendering.
func (audioContext *Context) Schedule(fn func(graph *Graph)) {
	audioContext.mu.Lock()
	defer audioContext.mu.Unlock()
	fn(&Graph{
		Now:   audioContext.sampleRate.D(audioContext.position),
		Gain:  audioContext.gain,
		owner: audioContext,
	})
}

// GainAt returns the shared gain value at t.
func (audioContext *Context) GainAt(t time.Duration) float64 {
	audioContext.mu.Lock()
	defer audioContext.mu.Unlock()
	return audioContext.gain.ValueAt(t)
}

// Voices returns the number of oscillators that have not stopped yet.
func (audioContext *Context) Voices() int {
	audioContext.mu.Lock()
	defer audioContext.mu.Unlock()
	return len(audioContext.voices)
}

// NewOscillator creates a sine oscillator connected to the shared gain.
func (graph *Graph) NewOscillator(frequency float64) *Oscillator {
	oscillator := newOscillator(frequency)
	graph.owner.voices = append(graph.owner.voices, oscillator)
	return oscillator
}

// Stream renders mono audio to both channels. It never drains.
func (audioContext *Context) Stream(samples [][2]float64) (int, bool) {
	audioContext.mu.Lock()
	defer audioContext.mu.Unlock()

	step := 1 / float64(audioContext.sampleRate)
	for i := range samples {
		t := audioContext.sampleRate.D(audioContext.position)
		var mix float64
		for _, voice := range audioContext.voices {
			mix += voice.sample(t, step)
		}
		value := clamp(mix*audioContext.gain.ValueAt(t), -1, 1)
		samples[i][0] = value
		samples[i][1] = value
		audioContext.position++
	}

	now := audioContext.sampleRate.D(audioContext.position)
	audioContext.removeFinishedLocked(now)
	audioContext.gain.prune(now)
	return len(samples), true
}

// Err implements beep.Streamer.
func (audioContext *Context) Err() error {
	return nil
}

func (audioContext *Context) removeFinishedLocked(now time.Duration) {
	active := audioContext.voices[:0]
	for _, voice := range audioContext.voices {
		if !voice.finished(now) {
			active = append(active, voice)
		}
	}
	for i := len(active); i < len(audioContext.voices); i++ {
		audioContext.voices[i] = nil
	}
	audioContext.voices = active
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
