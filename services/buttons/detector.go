// Package buttons turns raw button levels into one-shot long-press events.
package buttons

import "time"

const DefaultThreshold = 1500 * time.Millisecond

type State uint8

const (
	Idle State = iota
	Pressed
	Fired
)

func (s State) String() string {
	switch s {
	case Pressed:
		return "pressed"
	case Fired:
		return "fired"
	default:
		return "idle"
	}
}

// Detector tracks one button. It reports a long press once per physical
// hold; a release at any point returns it to Idle, and a release alone
// never reports anything.
type Detector struct {
	Threshold time.Duration

	state State
	start int64
}

func NewDetector(threshold time.Duration) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{Threshold: threshold}
}

// Poll feeds one sample and reports whether the long press fired on it.
func (d *Detector) Poll(pressed bool, nowMs int64) bool {
	if !pressed {
		d.state = Idle
		return false
	}
	switch d.state {
	case Idle:
		d.state, d.start = Pressed, nowMs
	case Pressed:
		if time.Duration(nowMs-d.start)*time.Millisecond >= d.Threshold {
			d.state = Fired
			return true
		}
	}
	return false
}

func (d *Detector) State() State { return d.state }

// HeldMs is how long the current press has lasted, 0 when idle.
func (d *Detector) HeldMs(nowMs int64) int64 {
	if d.state == Idle {
		return 0
	}
	return nowMs - d.start
}
