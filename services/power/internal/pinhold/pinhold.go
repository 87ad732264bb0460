// Package pinhold drives outputs to their sleep level and latches them so
// the level survives main-logic power-down, then undoes that on the next
// boot.
package pinhold

import (
	"time"

	"handheld-go/errcode"
	"handheld-go/services/hal/halcore"
	"handheld-go/x/logx"
)

// DefaultSettle is the wait between writing a level and latching it.
const DefaultSettle = time.Millisecond

// Record pairs a held pin with the level it was latched at.
type Record struct {
	Pin   int
	Level bool
}

type Manager struct {
	chip   halcore.Chip
	caps   halcore.Capabilities
	clock  halcore.Clock
	log    *logx.Logger
	settle time.Duration

	held   map[int]Record
	global bool
}

func New(chip halcore.Chip, clock halcore.Clock, log *logx.Logger) *Manager {
	return &Manager{
		chip:   chip,
		caps:   chip.Capabilities(),
		clock:  clock,
		log:    log,
		settle: DefaultSettle,
		held:   make(map[int]Record),
	}
}

// Park leaves pin as a floating input, both pulls off. Used for bus lines
// that must not be driven during sleep.
func (m *Manager) Park(pin halcore.GPIOPin) error {
	if _, ok := m.held[pin.Number()]; ok {
		return &errcode.E{C: errcode.PinHeld, Op: "pinhold.park"}
	}
	return pin.ConfigureInput(halcore.PullNone)
}

// DriveAndHold writes level, waits for the pad to settle, then latches it.
// A pin already held is left alone: reconfiguring a latched pad gives an
// undefined level after wake.
func (m *Manager) DriveAndHold(pin halcore.HoldPin, level bool) error {
	n := pin.Number()
	if r, ok := m.held[n]; ok {
		if r.Level == level {
			return nil
		}
		return &errcode.E{C: errcode.PinHeld, Op: "pinhold.drive"}
	}
	if err := pin.ConfigureOutput(level); err != nil {
		return errcode.Wrap(errcode.Error, "pinhold.drive", err)
	}
	pin.Set(level)
	m.clock.Sleep(m.settle)
	if m.caps.PinHold {
		if err := pin.SetHold(true); err != nil {
			return errcode.Wrap(errcode.Error, "pinhold.hold", err)
		}
	} else {
		m.log.Infof("pin %d latches at %v without hold", n, level)
	}
	m.held[n] = Record{Pin: n, Level: level}
	return nil
}

// ReleaseHold drops the latch on pin and drives restore. Safe to call on a
// pin that is not held; the pin is still driven to restore.
func (m *Manager) ReleaseHold(pin halcore.HoldPin, restore bool) error {
	if m.caps.PinHold {
		if err := pin.SetHold(false); err != nil {
			return errcode.Wrap(errcode.Error, "pinhold.release", err)
		}
	}
	delete(m.held, pin.Number())
	if err := pin.ConfigureOutput(restore); err != nil {
		return errcode.Wrap(errcode.Error, "pinhold.restore", err)
	}
	pin.Set(restore)
	return nil
}

// EnableGlobal turns on chip-wide hold retention for all latched pins. It
// is only meaningful once every per-pin hold is set, so it refuses when
// none is.
func (m *Manager) EnableGlobal() error {
	if len(m.held) == 0 {
		return &errcode.E{C: errcode.NotHeld, Op: "pinhold.global", Msg: "no pin held"}
	}
	if m.caps.GlobalHold {
		if err := m.chip.SetGlobalHold(true); err != nil {
			return errcode.Wrap(errcode.Error, "pinhold.global", err)
		}
	}
	m.global = true
	return nil
}

// DisableGlobal turns chip-wide retention off. Always issued to the chip,
// since after a wake the flag is still set in hardware while this process
// has no record of it.
func (m *Manager) DisableGlobal() error {
	m.global = false
	if !m.caps.GlobalHold {
		return nil
	}
	return errcode.Wrap(errcode.Error, "pinhold.global", m.chip.SetGlobalHold(false))
}

func (m *Manager) Held(pin int) (Record, bool) {
	r, ok := m.held[pin]
	return r, ok
}

func (m *Manager) GlobalEnabled() bool { return m.global }
