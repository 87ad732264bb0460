// Package sim is a host-side board: every halcore collaborator backed by
// memory and a manual clock, with a shared call trace.
package sim

import (
	"handheld-go/services/hal/halcore"
	"handheld-go/x/timex"
)

// Default pin map, matching the embedded "sim" device config.
const (
	PinSelect    = 2
	PinPower     = 3
	PinSensor    = 26
	PinBacklight = 27
	PinSCK       = 18
	PinSDO       = 23
	PinSDI       = 19
	PinCS        = 5
)

type Options struct {
	Width, Height int16
	Caps          halcore.Capabilities
	StartMs       int64
	BootCount     uint32
	WokeFromSleep bool
	Seed          uint32
	Battery       Battery
}

// DefaultCaps describes a chip with per-pin and global hold and every
// gateable domain.
var DefaultCaps = halcore.Capabilities{
	PinHold:         true,
	GlobalHold:      true,
	PowerDownXTAL:   true,
	PowerDownAnalog: true,
	PowerDownRTCMem: true,
}

func DefaultOptions() Options {
	return Options{
		Width:   296,
		Height:  128,
		Caps:    DefaultCaps,
		Seed:    1,
		Battery: Battery{Pct: 72, OK: true},
	}
}

type Sim struct {
	Clock    *timex.Fake
	Trace    *Trace
	Chip     *Chip
	Retained *Retained
	Display  *Display
	Storage  *Storage
	Bus      *SerialBus
	Radio    *Radio
	Battery  Battery
	Random   *Random

	Sensor    *Pin
	Backlight *Pin
	Select    *Pin
	Power     *Pin
}

func New(o Options) *Sim {
	tr := &Trace{}
	clk := timex.NewFake(o.StartMs)
	s := &Sim{
		Clock:     clk,
		Trace:     tr,
		Chip:      NewChip(o.Caps, tr),
		Retained:  NewRetained(o.BootCount, o.WokeFromSleep),
		Display:   NewDisplay(o.Width, o.Height, tr),
		Storage:   &Storage{tr: tr},
		Radio:     newRadio(clk, tr),
		Battery:   o.Battery,
		Random:    NewRandom(o.Seed),
		Sensor:    NewPin(PinSensor, tr),
		Backlight: NewPin(PinBacklight, tr),
		Select:    NewPin(PinSelect, tr),
		Power:     NewPin(PinPower, tr),
	}
	s.Bus = &SerialBus{tr: tr, pins: []*Pin{
		NewPin(PinSCK, tr), NewPin(PinSDO, tr), NewPin(PinSDI, tr), NewPin(PinCS, tr),
	}}
	// Boot state: rails on, buttons pulled up.
	_ = s.Sensor.ConfigureOutput(true)
	_ = s.Backlight.ConfigureOutput(true)
	_ = s.Select.ConfigureInput(halcore.PullUp)
	_ = s.Power.ConfigureInput(halcore.PullUp)
	tr.Reset()
	return s
}

func (s *Sim) Board() halcore.Board {
	return halcore.Board{
		Chip:        s.Chip,
		Retained:    s.Retained,
		Clock:       s.Clock,
		Random:      s.Random,
		Display:     s.Display,
		Storage:     s.Storage,
		Bus:         s.Bus,
		Radio:       s.Radio,
		Battery:     s.Battery,
		SensorPower: s.Sensor,
		Backlight:   s.Backlight,
		WakeButton:  s.Select,
		PowerButton: s.Power,
	}
}

// BusPins returns the simulated bus lines in SCK, SDO, SDI, CS order.
func (s *Sim) BusPins() []*Pin { return s.Bus.pins }
