package animation

import "fyne.io/fyne/v2"

// Kind selects which sprite sequence plays.
type Kind int

const (
	KindWork Kind = iota
	KindBreak
)

// KindFor maps the timer's session flag to an animation kind.
func KindFor(isWork bool) Kind {
	if isWork {
		return KindWork
	}
	return KindBreak
}

func (kind Kind) String() string {
	if kind == KindWork {
		return "work"
	}
	return "break"
}

// SessionSpec holds the looping frames for one session kind. Accent is shown
// briefly every few loops when set.
type SessionSpec struct {
	Frames []fyne.Resource
	Accent fyne.Resource
}

// Set bundles both session animations.
type Set struct {
	Work  SessionSpec
	Break SessionSpec
}

// For returns the spec for kind.
func (set Set) For(kind Kind) SessionSpec {
	if kind == KindWork {
		return set.Work
	}
	return set.Break
}
