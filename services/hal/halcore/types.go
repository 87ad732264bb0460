// services/hal/halcore/types.go
//
// Package halcore holds the hardware collaborator contracts the power and
// button services are written against. Boards implement them; the simulator
// in platform/sim implements them for host builds and tests.
package halcore

import (
	"image/color"
	"time"

	"tinygo.org/x/drivers"
)

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

func (p Pull) String() string {
	switch p {
	case PullUp:
		return "up"
	case PullDown:
		return "down"
	default:
		return "none"
	}
}

type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// HoldPin is a GPIO whose driven level can be latched independently of the
// logic driving it. While the hold is on, Set and Configure* have no effect
// on the pad.
type HoldPin interface {
	GPIOPin
	SetHold(on bool) error
}

// WakePin is a GPIO that can be switched into its low-power (always-on
// domain) input configuration to serve as the sleep wake source.
type WakePin interface {
	GPIOPin
	ConfigureWake(pullUp, pullDown bool) error
}

// ---- Chip power control ----

// Capabilities are resolved once at startup from the chip variant.
type Capabilities struct {
	PinHold         bool // per-pin hold latches exist
	GlobalHold      bool // holds need a chip-wide "keep during sleep" switch
	PowerDownXTAL   bool
	PowerDownAnalog bool // analog front-end domain gateable
	PowerDownRTCMem bool // slow/fast retention memories gateable
}

// DomainPlan says which gateable domains stay powered during sleep.
type DomainPlan struct {
	KeepPinRetention bool
	XTALOff          bool
	AnalogOff        bool
	RTCMemOff        bool
}

// Chip is the processor's sleep controller.
type Chip interface {
	Capabilities() Capabilities
	SetGlobalHold(on bool) error
	ConfigureDomains(p DomainPlan) error
	// ArmWakeLow arms a single-pin external wake on level low.
	ArmWakeLow(pin int) error
	// Sleep enters deep sleep. It does not return on hardware; the next
	// thing that runs is a fresh boot.
	Sleep()
}

// Retained is the small memory region that survives deep sleep but not a
// cold reset.
type Retained interface {
	BootCount() uint32
	SetBootCount(n uint32)
	WokeFromSleep() bool
}

// ---- Peripherals ----

// Panel colours. Any non-zero channel is ink, matching the UC8151 buffer.
var (
	Ink   = color.RGBA{R: 1, G: 1, B: 1, A: 255}
	Paper = color.RGBA{A: 255}
)

// IsInk reports whether c marks a pixel as ink on a 1-bit panel.
func IsInk(c color.RGBA) bool { return c.R != 0 || c.G != 0 || c.B != 0 }

// Display is the persistent (e-paper) panel. Pixels are set through the
// drivers.Displayer contract; Display() pushes the buffer and runs the
// panel's refresh.
type Display interface {
	drivers.Displayer
	ClearBuffer()
	// SetFastRefresh selects a quick partial-quality refresh (true) or a
	// full clean refresh (false) for the next Display call.
	SetFastRefresh(fast bool)
	// PowerOff cuts the controller supply; the last image stays visible.
	PowerOff() error
}

type Storage interface {
	Deinit() error
}

// SerialBus is the shared peripheral bus (display, storage, sensors).
type SerialBus interface {
	Deinit() error
	// Pins returns the clock/data/select lines to park after Deinit.
	Pins() []GPIOPin
}

// Radio is the BLE link. Connected is mutated by the radio stack's own
// callbacks and is safe to poll.
type Radio interface {
	Connected() bool
	Disconnect() error
	Deinit() error
	ControllerEnabled() bool
	DisableController() error
	DeinitController() error
}

// Battery supplies the gauge shown on the last frame. ok=false when no
// reading is available.
type Battery interface {
	Percent() (pct int, ok bool)
}

// ---- Time & entropy ----

type Clock interface {
	NowMs() int64
	Sleep(d time.Duration)
}

// Random returns uniformly distributed 32-bit values from the hardware
// generator.
type Random interface {
	Uint32() uint32
}

// Board bundles the collaborators one device exposes.
type Board struct {
	Chip     Chip
	Retained Retained
	Clock    Clock
	Random   Random

	Display Display
	Storage Storage
	Bus     SerialBus
	Radio   Radio
	Battery Battery

	SensorPower HoldPin
	Backlight   HoldPin
	WakeButton  WakePin // also the "select" button
	PowerButton GPIOPin
}
