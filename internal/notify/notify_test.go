package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/internal/core/timekeeper"
)

type sent struct {
	title   string
	message string
	icon    string
}

type recorder struct {
	mu   sync.Mutex
	sent []sent
	err  error
}

func (r *recorder) send(title, message, icon string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{title: title, message: message, icon: icon})
	return r.err
}

func (r *recorder) Sent() []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sent(nil), r.sent...)
}

func newTestNotifier(enabled bool) (*Notifier, *recorder) {
	r := &recorder{}
	notifier := New(enabled, "/tmp/tempo.png")
	notifier.send = r.send
	return notifier, r
}

func TestSessionCompleteMessages(t *testing.T) {
	notifier, r := newTestNotifier(true)

	notifier.handle(timekeeper.Event{Type: timekeeper.EventSessionComplete, EndedWork: true})
	notifier.handle(timekeeper.Event{Type: timekeeper.EventSessionComplete, EndedWork: false})
	notifier.handle(timekeeper.Event{Type: timekeeper.EventProgress})
	notifier.handle(timekeeper.Event{Type: timekeeper.EventIdlePause})

	assert.Equal(t, []sent{
		{title: "Tempo", message: "Break time", icon: "/tmp/tempo.png"},
		{title: "Tempo", message: "Back to work", icon: "/tmp/tempo.png"},
		{title: "Tempo", message: idleMessage, icon: "/tmp/tempo.png"},
	}, r.Sent())
}

func TestDisabledNotifierStaysQuiet(t *testing.T) {
	notifier, r := newTestNotifier(false)

	notifier.handle(timekeeper.Event{Type: timekeeper.EventSessionComplete, EndedWork: true})
	assert.Empty(t, r.Sent())

	notifier.SetEnabled(true)
	assert.True(t, notifier.Enabled())
	notifier.handle(timekeeper.Event{Type: timekeeper.EventSessionComplete, EndedWork: true})
	assert.Len(t, r.Sent(), 1)
}

func TestSendFailureIsSwallowed(t *testing.T) {
	notifier, r := newTestNotifier(true)
	r.err = errors.New("no notification daemon")

	assert.NotPanics(t, func() {
		notifier.handle(timekeeper.Event{Type: timekeeper.EventSessionComplete})
	})
}

func TestWatchStopsOnCancelAndClose(t *testing.T) {
	notifier, r := newTestNotifier(true)
	events := make(chan timekeeper.Event, 2)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		notifier.Watch(ctx, events)
		close(done)
	}()

	events <- timekeeper.Event{Type: timekeeper.EventSessionComplete, EndedWork: true}
	require.Eventually(t, func() bool { return len(r.Sent()) == 1 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}

	closed := make(chan timekeeper.Event)
	close(closed)
	notifier.Watch(context.Background(), closed)
}
