package timekeeper

import (
	"fmt"
	"time"
)

const (
	workLabel  = "Work Session"
	breakLabel = "Break Session"
)

// View is what the display sink renders.
type View struct {
	Clock     string
	Session   string
	Completed string
	State     State
	IsWork    bool
	Remaining time.Duration
	Progress  float64
}

// FormatClock renders a duration as MM:SS with seconds floored.
func FormatClock(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining / time.Second)
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// SessionLabel names the session kind.
func SessionLabel(isWork bool) string {
	if isWork {
		return workLabel
	}
	return breakLabel
}

// CompletedLabel renders the completed work session counter.
func CompletedLabel(completed int) string {
	return fmt.Sprintf("Sessions completed: %d", completed)
}

func progressOf(total, remaining time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	progress := float64(total-remaining) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}
