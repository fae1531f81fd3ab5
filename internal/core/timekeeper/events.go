package timekeeper

import "time"

// State represents the lifecycle of the Keeper.
type State string

const (
	StateStopped State = "stopped"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// EventType defines the type of Keeper event.
type EventType string

const (
	EventStateChange     EventType = "state_change"
	EventSessionComplete EventType = "session_complete"
	EventProgress        EventType = "progress"
	EventIdlePause       EventType = "idle_pause"
	EventIdleError       EventType = "idle_error"
)

// Event represents a Keeper update for observers.
type Event struct {
	Type      EventType
	State     State
	IsWork    bool
	EndedWork bool
	Remaining time.Duration
	Completed int
	Message   string
	At        time.Time
}
