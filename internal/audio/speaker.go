package audio

import (
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const defaultSpeakerBuffer = 50 * time.Millisecond

// SpeakerSink plays the graph on the default output device.
type SpeakerSink struct {
	// Buffer trades latency for robustness; 50ms when zero.
	Buffer time.Duration
}

// Init opens the device.
func (sink SpeakerSink) Init(sampleRate beep.SampleRate) error {
	buffer := sink.Buffer
	if buffer <= 0 {
		buffer = defaultSpeakerBuffer
	}
	return speaker.Init(sampleRate, sampleRate.N(buffer))
}

// Play hands the streamer to the speaker mixer.
func (sink SpeakerSink) Play(streamer beep.Streamer) {
	speaker.Play(streamer)
}
