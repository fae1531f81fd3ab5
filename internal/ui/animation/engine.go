package animation

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"github.com/sirupsen/logrus"
)

// Range defines a duration range with random sampling.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Random returns a random duration within the range.
func (value Range) Random(rng *rand.Rand) time.Duration {
	if value.Max <= value.Min {
		return value.Min
	}
	delta := value.Max - value.Min
	return value.Min + time.Duration(rng.Int63n(int64(delta)))
}

// Config contains animation timing values.
type Config struct {
	WorkFrame  Range
	BreakFrame Range

	// AccentEvery is the number of full loops between accent frames. Zero
	// disables accents.
	AccentEvery    int
	AccentDuration Range
}

func (config Config) frameRange(kind Kind) Range {
	if kind == KindWork {
		return config.WorkFrame
	}
	return config.BreakFrame
}

// Engine cycles session sprites on a background goroutine.
type Engine struct {
	mu           sync.Mutex
	config       Config
	sprites      Set
	updateSprite func(fyne.Resource)
	cancel       context.CancelFunc
	playing      bool
	kind         Kind
	rng          *rand.Rand
}

// New creates a new animation engine.
func New(config Config, sprites Set, updateSprite func(fyne.Resource)) *Engine {
	return &Engine{
		config:       config,
		sprites:      sprites,
		updateSprite: updateSprite,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Play starts looping the sequence for kind. Calling Play with the kind
// that is already playing is a no-op.
func (engine *Engine) Play(ctx context.Context, kind Kind) {
	engine.mu.Lock()
	if engine.playing && engine.kind == kind {
		engine.mu.Unlock()
		return
	}
	engine.mu.Unlock()

	spec := engine.sprites.For(kind)
	if len(spec.Frames) == 0 {
		logrus.WithFields(logrus.Fields{
			"function": "Play",
			"kind":     kind.String(),
		}).Warn("no frames for animation")
		return
	}

	frameRange := engine.config.frameRange(kind)
	engine.start(ctx, kind, func(runCtx context.Context) {
		engine.loop(runCtx, spec, frameRange)
	})
}

// Stop terminates any active animation.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
	engine.playing = false
}

// Playing reports whether an animation is running and which one.
func (engine *Engine) Playing() (Kind, bool) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.kind, engine.playing
}

func (engine *Engine) start(parent context.Context, kind Kind, run func(context.Context)) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(parent)
	engine.cancel = cancel
	engine.playing = true
	engine.kind = kind
	engine.mu.Unlock()

	go run(runCtx)
}

func (engine *Engine) loop(ctx context.Context, spec SessionSpec, frameRange Range) {
	for loops := 1; ; loops++ {
		for _, frame := range spec.Frames {
			engine.updateSprite(frame)
			if !sleepWithContext(ctx, engine.sample(frameRange)) {
				return
			}
		}

		if spec.Accent != nil && engine.config.AccentEvery > 0 && loops%engine.config.AccentEvery == 0 {
			engine.updateSprite(spec.Accent)
			if !sleepWithContext(ctx, engine.sample(engine.config.AccentDuration)) {
				return
			}
		}
	}
}

// sample guards the shared rng; Random itself is not safe for concurrent use.
func (engine *Engine) sample(value Range) time.Duration {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return value.Random(engine.rng)
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
