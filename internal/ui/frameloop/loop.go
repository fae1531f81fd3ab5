// Package frameloop drives timer frame callbacks from the fyne render loop.
package frameloop

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"tempo/internal/core/timekeeper"
)

// ticker is the part of fyne.Animation the loop uses.
type ticker interface {
	Start()
	Stop()
}

// Loop is a timekeeper.FrameScheduler backed by a repeating fyne.Animation.
// Callbacks run on the fyne main goroutine, once per rendered frame, and the
// animation is stopped whenever nothing is pending.
type Loop struct {
	mu        sync.Mutex
	next      timekeeper.FrameHandle
	pending   map[timekeeper.FrameHandle]func()
	order     []timekeeper.FrameHandle
	active    ticker
	newTicker func(tick func(float32)) ticker
}

// New creates an idle loop.
func New() *Loop {
	return &Loop{
		pending:   make(map[timekeeper.FrameHandle]func()),
		newTicker: newAnimation,
	}
}

func newAnimation(tick func(float32)) ticker {
	animation := fyne.NewAnimation(time.Second, tick)
	animation.Curve = fyne.AnimationLinear
	animation.RepeatCount = fyne.AnimationRepeatForever
	return animation
}

// RequestFrame queues callback for the next rendered frame.
func (loop *Loop) RequestFrame(callback func()) timekeeper.FrameHandle {
	loop.mu.Lock()
	defer loop.mu.Unlock()

	loop.next++
	handle := loop.next
	loop.pending[handle] = callback
	loop.order = append(loop.order, handle)

	if loop.active == nil {
		loop.active = loop.newTicker(func(float32) { loop.drain() })
		loop.active.Start()
	}
	return handle
}

// CancelFrame drops a queued callback. Unknown handles are ignored.
func (loop *Loop) CancelFrame(handle timekeeper.FrameHandle) {
	loop.mu.Lock()
	defer loop.mu.Unlock()
	delete(loop.pending, handle)
}

// Pending returns the number of queued callbacks.
func (loop *Loop) Pending() int {
	loop.mu.Lock()
	defer loop.mu.Unlock()
	return len(loop.pending)
}

// Close stops the animation and discards queued callbacks.
func (loop *Loop) Close() {
	loop.mu.Lock()
	defer loop.mu.Unlock()
	loop.pending = make(map[timekeeper.FrameHandle]func())
	loop.order = nil
	loop.stopLocked()
}

// drain runs every callback queued before this frame. Callbacks requested
// while draining wait for the next frame.
func (loop *Loop) drain() {
	loop.mu.Lock()
	order := loop.order
	loop.order = nil
	callbacks := make([]func(), 0, len(order))
	for _, handle := range order {
		if callback, ok := loop.pending[handle]; ok {
			callbacks = append(callbacks, callback)
			delete(loop.pending, handle)
		}
	}
	loop.mu.Unlock()

	for _, callback := range callbacks {
		callback()
	}

	loop.mu.Lock()
	if len(loop.pending) == 0 {
		loop.order = nil
		loop.stopLocked()
	}
	loop.mu.Unlock()
}

func (loop *Loop) stopLocked() {
	if loop.active != nil {
		loop.active.Stop()
		loop.active = nil
	}
}
