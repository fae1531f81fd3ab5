package notify

import (
	"context"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/sirupsen/logrus"

	"tempo/internal/core/timekeeper"
)

const appTitle = "Tempo"

const (
	breakMessage = "Break time"
	workMessage  = "Back to work"
	idleMessage  = "Timer paused while you were away"
)

// Notifier shows desktop notifications for session boundaries.
type Notifier struct {
	mu      sync.Mutex
	enabled bool
	icon    string
	send    func(title, message, icon string) error
}

// New creates a Notifier backed by beeep. icon may be empty.
func New(enabled bool, icon string) *Notifier {
	return &Notifier{
		enabled: enabled,
		icon:    icon,
		send:    beeep.Notify,
	}
}

// SetEnabled toggles notifications at runtime.
func (notifier *Notifier) SetEnabled(enabled bool) {
	notifier.mu.Lock()
	notifier.enabled = enabled
	notifier.mu.Unlock()
}

// Enabled reports whether notifications are shown.
func (notifier *Notifier) Enabled() bool {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return notifier.enabled
}

// Watch shows notifications for Keeper events until ctx is done or events closes.
func (notifier *Notifier) Watch(ctx context.Context, events <-chan timekeeper.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			notifier.handle(event)
		}
	}
}

func (notifier *Notifier) handle(event timekeeper.Event) {
	switch event.Type {
	case timekeeper.EventSessionComplete:
		notifier.show(messageFor(event.EndedWork))
	case timekeeper.EventIdlePause:
		notifier.show(idleMessage)
	}
}

func messageFor(endedWork bool) string {
	if endedWork {
		return breakMessage
	}
	return workMessage
}

func (notifier *Notifier) show(message string) {
	notifier.mu.Lock()
	enabled := notifier.enabled
	send := notifier.send
	icon := notifier.icon
	notifier.mu.Unlock()

	if !enabled {
		return
	}
	if err := send(appTitle, message, icon); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Notifier.show",
			"message":  message,
			"error":    err.Error(),
		}).Warn("Desktop notification failed")
	}
}
