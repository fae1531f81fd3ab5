// Package platform holds OS-specific helpers: idle time and the single
// instance lock.
package platform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tempo/internal/core/timekeeper"
)

// NewIdleProvider returns the idle checker for this OS. Providers that
// cannot measure idle time return timekeeper.ErrIdleUnsupported.
func NewIdleProvider() timekeeper.IdleChecker {
	return newIdleProvider()
}

type unsupportedIdleProvider struct{}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, timekeeper.ErrIdleUnsupported
}

// parseIdleMillis reads a millisecond count as printed by xprintidle.
func parseIdleMillis(output []byte) (time.Duration, error) {
	value := strings.TrimSpace(string(output))
	idleMillis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds %q: %w", value, err)
	}
	if idleMillis < 0 {
		idleMillis = 0
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}
