package model

import "time"

// Fixed session lengths. They are not user-configurable.
const (
	WorkDuration  = 25 * time.Minute
	BreakDuration = 5 * time.Minute
)

// SessionConfig defines the length of each interval type.
type SessionConfig struct {
	Work  time.Duration
	Break time.Duration
}

// DefaultSessionConfig returns the standard 25/5 pomodoro cycle.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Work:  WorkDuration,
		Break: BreakDuration,
	}
}

// Longest returns the upper bound for the remaining time of any session.
func (config SessionConfig) Longest() time.Duration {
	if config.Break > config.Work {
		return config.Break
	}
	return config.Work
}

// Duration returns the length of a work or break session.
func (config SessionConfig) Duration(isWork bool) time.Duration {
	if isWork {
		return config.Work
	}
	return config.Break
}

// IdleConfig controls automatic pausing while the user is away.
type IdleConfig struct {
	Enabled       bool
	PauseAfter    time.Duration
	CheckInterval time.Duration
}

// DefaultIdleConfig returns a disabled watcher with a five minute threshold.
func DefaultIdleConfig() IdleConfig {
	return IdleConfig{
		Enabled:       false,
		PauseAfter:    5 * time.Minute,
		CheckInterval: 5 * time.Second,
	}
}
