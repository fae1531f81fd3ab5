package timekeeper

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatClock(t *testing.T) {
	cases := []struct {
		name      string
		remaining time.Duration
		want      string
	}{
		{"full work", 25 * time.Minute, "25:00"},
		{"floors fractional seconds", 1499*time.Second + 900*time.Millisecond, "24:59"},
		{"pads minutes", 61 * time.Second, "01:01"},
		{"zero", 0, "00:00"},
		{"negative clamps", -3 * time.Second, "00:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatClock(tc.remaining))
		})
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Work Session", SessionLabel(true))
	assert.Equal(t, "Break Session", SessionLabel(false))
	assert.Equal(t, "Sessions completed: 4", CompletedLabel(4))
}

func TestProgressOf(t *testing.T) {
	assert.Equal(t, 0.0, progressOf(time.Minute, time.Minute))
	assert.Equal(t, 0.5, progressOf(time.Minute, 30*time.Second))
	assert.Equal(t, 1.0, progressOf(0, 0))
	assert.Equal(t, 0.0, progressOf(time.Minute, 2*time.Minute))
}

func TestTimerSchedulerRunsAndCancels(t *testing.T) {
	scheduler := NewTimerScheduler(time.Millisecond)

	var fired atomic.Int32
	scheduler.RequestFrame(func() { fired.Add(1) })
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, time.Millisecond)
	assert.Zero(t, scheduler.Pending())

	var cancelled atomic.Int32
	slow := NewTimerScheduler(time.Hour)
	handle := slow.RequestFrame(func() { cancelled.Add(1) })
	assert.Equal(t, 1, slow.Pending())
	slow.CancelFrame(handle)
	slow.CancelFrame(handle)
	assert.Zero(t, slow.Pending())
	assert.Zero(t, cancelled.Load())
}
