// Package periphpins exposes Linux GPIO lines as halcore pins through
// periph.io, for bench rigs that drive the power and button logic from a
// single-board computer.
package periphpins

import (
	"strconv"
	"sync"

	"handheld-go/errcode"
	"handheld-go/services/hal/halcore"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var (
	initOnce sync.Once
	initErr  error
)

// Init loads the host drivers once.
func Init() error {
	initOnce.Do(func() { _, initErr = host.Init() })
	return initErr
}

// Pin adapts a periph line. Linux has no pad latch, so the hold is kept in
// software: while held, writes and reconfiguration are ignored and the
// line stays at its last driven level for as long as the process runs.
type Pin struct {
	p gpio.PinIO
	n int

	mu   sync.Mutex
	out  bool
	held bool
}

// Open returns line n ("GPIO<n>").
func Open(n int) (*Pin, error) {
	if err := Init(); err != nil {
		return nil, errcode.Wrap(errcode.Error, "periphpins.init", err)
	}
	p := gpioreg.ByName("GPIO" + strconv.Itoa(n))
	if p == nil {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "periphpins.open", Msg: "GPIO" + strconv.Itoa(n)}
	}
	return Wrap(p, n), nil
}

// Wrap adapts an already resolved line.
func Wrap(p gpio.PinIO, n int) *Pin { return &Pin{p: p, n: n} }

func toPull(p halcore.Pull) gpio.Pull {
	switch p {
	case halcore.PullUp:
		return gpio.PullUp
	case halcore.PullDown:
		return gpio.PullDown
	default:
		return gpio.Float
	}
}

func (p *Pin) Number() int { return p.n }

func (p *Pin) ConfigureInput(pull halcore.Pull) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.held {
		return nil
	}
	p.out = false
	return p.p.In(toPull(pull), gpio.NoEdge)
}

func (p *Pin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.held {
		return nil
	}
	p.out = true
	return p.p.Out(gpio.Level(initial))
}

func (p *Pin) Set(level bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.held || !p.out {
		return
	}
	_ = p.p.Out(gpio.Level(level))
}

func (p *Pin) Get() bool { return p.p.Read() == gpio.High }

func (p *Pin) SetHold(on bool) error {
	p.mu.Lock()
	p.held = on
	p.mu.Unlock()
	return nil
}

// ConfigureWake sets the input bias the wake source will use; the bench
// has no sleep, so that is all it means here.
func (p *Pin) ConfigureWake(pullUp, pullDown bool) error {
	pull := halcore.PullNone
	switch {
	case pullUp && !pullDown:
		pull = halcore.PullUp
	case pullDown && !pullUp:
		pull = halcore.PullDown
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.out = false
	return p.p.In(toPull(pull), gpio.NoEdge)
}

var (
	_ halcore.HoldPin = (*Pin)(nil)
	_ halcore.WakePin = (*Pin)(nil)
)
