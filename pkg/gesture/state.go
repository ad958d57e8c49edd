// Package gesture turns pointer input into taps, scrolling, flings and
// drag-resizing for a table. A Controller is an explicit state machine
// with one method per input; it is driven from the host's UI goroutine.
package gesture

import "time"

// State is the controller's gesture state.
type State int

const (
	Idle State = iota
	TrackingTap
	Scrolling
	Flinging
	DragResizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case TrackingTap:
		return "tracking-tap"
	case Scrolling:
		return "scrolling"
	case Flinging:
		return "flinging"
	case DragResizing:
		return "drag-resizing"
	}
	return "unknown"
}

// Tuning holds the gesture thresholds. Distances are in surface units.
type Tuning struct {
	// TouchSlop is the distance a pointer may travel before a press
	// stops being a tap.
	TouchSlop        int
	LongPressTimeout time.Duration
	// MinFlingVelocity is in units per second on either axis.
	MinFlingVelocity float64
	// EnableFlingRate is how many viewports the content must span
	// before flinging is allowed.
	EnableFlingRate float64
	// FlingRate scales the release velocity.
	FlingRate float64
	// FlingXY flings both axes; otherwise only the dominant one.
	FlingXY bool
	// Deceleration is in units per second squared.
	Deceleration     float64
	MaxFlingDuration time.Duration
	FPS              int
}

// DefaultTuning returns the stock thresholds.
func DefaultTuning() Tuning {
	return Tuning{
		TouchSlop:        1,
		LongPressTimeout: 500 * time.Millisecond,
		MinFlingVelocity: 50,
		EnableFlingRate:  1.2,
		FlingRate:        1,
		Deceleration:     400,
		MaxFlingDuration: 300 * time.Millisecond,
		FPS:              60,
	}
}

func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t.TouchSlop < 0 {
		t.TouchSlop = d.TouchSlop
	}
	if t.LongPressTimeout <= 0 {
		t.LongPressTimeout = d.LongPressTimeout
	}
	if t.MinFlingVelocity <= 0 {
		t.MinFlingVelocity = d.MinFlingVelocity
	}
	if t.EnableFlingRate < 1 {
		t.EnableFlingRate = 1
	}
	if t.FlingRate <= 0 {
		t.FlingRate = d.FlingRate
	}
	if t.Deceleration <= 0 {
		t.Deceleration = d.Deceleration
	}
	if t.MaxFlingDuration <= 0 {
		t.MaxFlingDuration = d.MaxFlingDuration
	}
	if t.FPS <= 0 {
		t.FPS = d.FPS
	}
	return t
}
