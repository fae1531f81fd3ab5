package audio

import (
	"math"
	"sort"
	"time"
)

type automationKind int

const (
	setValue automationKind = iota
	linearRamp
	exponentialRamp
)

type automationEvent struct {
	kind  automationKind
	value float64
	at    time.Duration
}

// Param is a value automated over the context timeline. Scheduled points are
// fixed once added: a later SetValueAtTime changes where a following ramp
// starts, never the ramp's target.
//
// Param is not safe for concurrent use; the owning Context serializes access.
type Param struct {
	initial float64
	events  []automationEvent
}

// NewParam creates a Param holding initial until the first scheduled point.
func NewParam(initial float64) *Param {
	return &Param{initial: initial}
}

// SetValueAtTime jumps to value at the given time.
func (param *Param) SetValueAtTime(value float64, at time.Duration) {
	param.insert(automationEvent{kind: setValue, value: value, at: at})
}

// LinearRampToValueAtTime ramps linearly from the previous point to value, reaching it at the given time.
func (param *Param) LinearRampToValueAtTime(value float64, at time.Duration) {
	param.insert(automationEvent{kind: linearRamp, value: value, at: at})
}

// ExponentialRampToValueAtTime ramps exponentially from the previous point.
// Ramps from or to a non-positive value hold the previous value and jump at the end.
func (param *Param) ExponentialRampToValueAtTime(value float64, at time.Duration) {
	param.insert(automationEvent{kind: exponentialRamp, value: value, at: at})
}

func (param *Param) insert(event automationEvent) {
	index := sort.Search(len(param.events), func(i int) bool {
		return param.events[i].at > event.at
	})
	if index > 0 {
		previous := &param.events[index-1]
		if previous.at == event.at && previous.kind == event.kind {
			previous.value = event.value
			return
		}
	}
	param.events = append(param.events, automationEvent{})
	copy(param.events[index+1:], param.events[index:])
	param.events[index] = event
}

// ValueAt returns the automated value at t.
func (param *Param) ValueAt(t time.Duration) float64 {
	next := sort.Search(len(param.events), func(i int) bool {
		return param.events[i].at > t
	})

	startValue := param.initial
	var startAt time.Duration
	if next > 0 {
		startValue = param.events[next-1].value
		startAt = param.events[next-1].at
	}
	if next == len(param.events) {
		return startValue
	}

	end := param.events[next]
	span := end.at - startAt
	if span <= 0 {
		return startValue
	}
	fraction := float64(t-startAt) / float64(span)

	switch end.kind {
	case linearRamp:
		return startValue + (end.value-startValue)*fraction
	case exponentialRamp:
		if startValue <= 0 || end.value <= 0 {
			return startValue
		}
		return startValue * math.Pow(end.value/startValue, fraction)
	default:
		return startValue
	}
}

// prune drops points that can no longer influence values at or after t.
func (param *Param) prune(t time.Duration) {
	last := sort.Search(len(param.events), func(i int) bool {
		return param.events[i].at > t
	}) - 1
	if last <= 0 {
		return
	}
	param.events = append(param.events[:0], param.events[last:]...)
}

// Len reports the number of scheduled points.
func (param *Param) Len() int {
	return len(param.events)
}
