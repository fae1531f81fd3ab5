package animation

import "time"

// DefaultConfig returns timings tuned for a small 160px sprite.
func DefaultConfig() Config {
	return Config{
		WorkFrame: Range{
			Min: 450 * time.Millisecond,
			Max: 600 * time.Millisecond,
		},
		BreakFrame: Range{
			Min: 700 * time.Millisecond,
			Max: 900 * time.Millisecond,
		},
		AccentEvery: 4,
		AccentDuration: Range{
			Min: 250 * time.Millisecond,
			Max: 350 * time.Millisecond,
		},
	}
}
