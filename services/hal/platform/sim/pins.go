package sim

import (
	"strconv"
	"sync"

	"handheld-go/services/hal/halcore"
)

type Mode uint8

const (
	ModeInput Mode = iota
	ModeOutput
	ModeWake
)

// Pin is a simulated pad. Outputs read back what they drive; inputs read
// the pull unless an external switch to ground is closed (Press). A hold
// freezes the pad: configuration and writes are ignored until released.
type Pin struct {
	n  int
	tr *Trace

	mu      sync.Mutex
	mode    Mode
	level   bool
	pull    halcore.Pull
	hold    bool
	pressed bool
}

func NewPin(n int, tr *Trace) *Pin { return &Pin{n: n, tr: tr} }

func (p *Pin) Number() int { return p.n }

func (p *Pin) ev(s string) { p.tr.Add("pin" + strconv.Itoa(p.n) + "." + s) }

func (p *Pin) ConfigureInput(pull halcore.Pull) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hold {
		return nil
	}
	p.mode, p.pull = ModeInput, pull
	p.ev("input")
	return nil
}

func (p *Pin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hold {
		return nil
	}
	p.mode, p.level, p.pull = ModeOutput, initial, halcore.PullNone
	p.ev("output")
	return nil
}

func (p *Pin) Set(level bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hold || p.mode != ModeOutput {
		return
	}
	p.level = level
}

func (p *Pin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode == ModeOutput {
		return p.level
	}
	if p.pressed {
		return false
	}
	return p.pull == halcore.PullUp
}

func (p *Pin) SetHold(on bool) error {
	p.mu.Lock()
	p.hold = on
	p.mu.Unlock()
	if on {
		p.ev("hold")
	} else {
		p.ev("release")
	}
	return nil
}

func (p *Pin) ConfigureWake(pullUp, pullDown bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = ModeWake
	switch {
	case pullUp && !pullDown:
		p.pull = halcore.PullUp
	case pullDown && !pullUp:
		p.pull = halcore.PullDown
	default:
		p.pull = halcore.PullNone
	}
	p.ev("wake")
	return nil
}

// Press closes (true) or opens the external switch to ground.
func (p *Pin) Press(on bool) {
	p.mu.Lock()
	p.pressed = on
	p.mu.Unlock()
}

func (p *Pin) Held() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hold
}

func (p *Pin) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

func (p *Pin) Pull() halcore.Pull {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pull
}

// Level is the driven output level, regardless of hold.
func (p *Pin) Level() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}
