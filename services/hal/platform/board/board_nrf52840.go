//go:build tinygo && nrf52840

package board

import (
	"device/nrf"
	"image/color"
	"machine"
	"time"

	"handheld-go/errcode"
	"handheld-go/services/config"
	"handheld-go/services/hal/halcore"
	"handheld-go/x/logx"
	"handheld-go/x/mathx"
	"handheld-go/x/noise"
	"handheld-go/x/timex"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/drivers/uc8151"
	"tinygo.org/x/tinyfs/fatfs"
)

// Fixed wiring of the SPI peripherals.
const (
	pinSCK    = machine.P0_13
	pinSDO    = machine.P0_15
	pinSDI    = machine.P0_17
	pinEpdCS  = machine.P0_20
	pinEpdDC  = machine.P0_22
	pinEpdRST = machine.P1_00
	pinEpdBSY = machine.P0_06
	pinSdCS   = machine.P0_08
	pinVBAT   = machine.P0_29 // AIN5, behind a 1/2 divider

	panelW = 296
	panelH = 128

	// Heap share for the pattern field (one byte per pixel). The SoftDevice
	// reserves the bottom of RAM, so the full-panel field must fit in this.
	fieldBudget = 40 * 1024
)

// Capabilities: nRF52 pads keep their configuration through System OFF,
// so there are no hold latches to manage.
var caps = halcore.Capabilities{
	PowerDownAnalog: true,
}

// New brings up the board. Pins come from the device config.
func New(pins config.Pins) (halcore.Board, error) {
	logx.SetOutput(machine.Serial)

	spi := &machine.SPI0
	if err := spi.Configure(machine.SPIConfig{
		Frequency: 4_000_000,
		SCK:       pinSCK,
		SDO:       pinSDO,
		SDI:       pinSDI,
	}); err != nil {
		return halcore.Board{}, err
	}

	epd := uc8151.New(spi, pinEpdCS, pinEpdDC, pinEpdRST, pinEpdBSY)
	epd.Configure(uc8151.Config{
		Width:    panelH, // panel is portrait-native
		Height:   panelW,
		Rotation: drivers.Rotation90,
		Speed:    uc8151.DEFAULT,
		Blocking: true,
	})

	// POWER registers must be read before the SoftDevice takes them over.
	ret := newRetained()
	noise.MaxPixels = fieldBudget

	b := halcore.Board{
		Chip:        chip{ret: ret},
		Retained:    ret,
		Clock:       timex.System{},
		Random:      rng{},
		Display:     &panel{dev: &epd},
		Bus:         &spiBus{spi: spi},
		Radio:       newRadio(),
		Battery:     newBattery(pinVBAT),
		SensorPower: pin(pins.SensorPower),
		Backlight:   pin(pins.Backlight),
		WakeButton:  pin(pins.Wake),
		PowerButton: pin(pins.Power),
	}

	sd := sdcard.New(spi, pinSCK, pinSDO, pinSDI, pinSdCS)
	if err := sd.Configure(); err != nil {
		logx.New("board").Warnf("sd card: %v", err)
	} else {
		fs := fatfs.New(&sd).Configure(&fatfs.Config{SectorSize: fatfs.SectorSize})
		if err := fs.Mount(); err != nil {
			logx.New("board").Warnf("sd mount: %v", err)
		} else {
			b.Storage = &storage{fs: fs}
		}
	}

	_ = b.WakeButton.ConfigureInput(halcore.PullUp)
	_ = b.PowerButton.ConfigureInput(halcore.PullUp)
	return b, nil
}

// ---- pins ----

type pin machine.Pin

func (p pin) Number() int { return int(p) }

func (p pin) ConfigureInput(pull halcore.Pull) error {
	mode := machine.PinInput
	switch pull {
	case halcore.PullUp:
		mode = machine.PinInputPullup
	case halcore.PullDown:
		mode = machine.PinInputPulldown
	}
	machine.Pin(p).Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (p pin) ConfigureOutput(initial bool) error {
	machine.Pin(p).Configure(machine.PinConfig{Mode: machine.PinOutput})
	machine.Pin(p).Set(initial)
	return nil
}

func (p pin) Set(level bool) { machine.Pin(p).Set(level) }
func (p pin) Get() bool      { return machine.Pin(p).Get() }

// SetHold is a no-op: the pad keeps its level through System OFF.
func (p pin) SetHold(bool) error { return nil }

func (p pin) ConfigureWake(pullUp, pullDown bool) error {
	pull := halcore.PullNone
	switch {
	case pullUp && !pullDown:
		pull = halcore.PullUp
	case pullDown && !pullUp:
		pull = halcore.PullDown
	}
	return p.ConfigureInput(pull)
}

// ---- chip ----

type chip struct{ ret *retained }

func (chip) Capabilities() halcore.Capabilities { return caps }
func (chip) SetGlobalHold(bool) error           { return nil }

func (chip) ConfigureDomains(p halcore.DomainPlan) error {
	nrf.TWI0.ENABLE.Set(0)
	nrf.TWI1.ENABLE.Set(0)
	nrf.QSPI.ENABLE.Set(0)
	nrf.SPIM1.ENABLE.Set(0)
	nrf.SPIM2.ENABLE.Set(0)
	nrf.TIMER1.TASKS_STOP.Set(1)
	nrf.TIMER2.TASKS_STOP.Set(1)
	if p.AnalogOff {
		nrf.SAADC.ENABLE.Set(0)
	}
	return nil
}

// ArmWakeLow sets the pin's SENSE field; any pin with SENSE set wakes the
// chip from System OFF. Only port 0 is supported.
func (chip) ArmWakeLow(n int) error {
	if !mathx.Between(n, 0, 31) {
		return &errcode.E{C: errcode.UnknownPin, Op: "board.wake", Msg: "port 1 cannot wake"}
	}
	nrf.P0.PIN_CNF[n].Set(nrf.GPIO_PIN_CNF_DIR_Input<<nrf.GPIO_PIN_CNF_DIR_Pos |
		nrf.GPIO_PIN_CNF_INPUT_Connect<<nrf.GPIO_PIN_CNF_INPUT_Pos |
		nrf.GPIO_PIN_CNF_PULL_Pullup<<nrf.GPIO_PIN_CNF_PULL_Pos |
		nrf.GPIO_PIN_CNF_SENSE_Low<<nrf.GPIO_PIN_CNF_SENSE_Pos)
	return nil
}

// Sleep enters System OFF. Wake is a reset. POWER is restricted while the
// SoftDevice runs, so it is disabled first if teardown left it on, and the
// pending boot count is written to GPREGRET only then.
func (c chip) Sleep() {
	if err := disableSoftDevice(); err != nil {
		logx.New("board").Errorf("sleep: %v", err)
	}
	if c.ret != nil {
		nrf.POWER.GPREGRET.Set(c.ret.count & 0xff)
	}
	nrf.POWER.SYSTEMOFF.Set(nrf.POWER_SYSTEMOFF_SYSTEMOFF_Enter)
	for {
	}
}

// ---- retained ----

// retained keeps the boot counter in GPREGRET, which survives System OFF
// but not a power cycle. It is 8 bits wide, so the count wraps at 256.
// The registers are read before the SoftDevice starts; updates stay in RAM
// until chip.Sleep writes them back.
type retained struct {
	count uint32
	woke  bool
}

func newRetained() *retained {
	r := nrf.POWER.RESETREAS.Get()
	nrf.POWER.RESETREAS.Set(r) // write-one-to-clear
	return &retained{
		count: nrf.POWER.GPREGRET.Get() & 0xff,
		woke:  r&nrf.POWER_RESETREAS_OFF_Msk != 0,
	}
}

func (r *retained) BootCount() uint32     { return r.count }
func (r *retained) SetBootCount(n uint32) { r.count = n & 0xff }
func (r *retained) WokeFromSleep() bool   { return r.woke }

// ---- entropy ----

type rng struct{}

func (rng) Uint32() uint32 {
	v, err := machine.GetRNG()
	if err != nil {
		return uint32(time.Now().UnixNano())
	}
	return v
}

// ---- display ----

type panel struct{ dev *uc8151.Device }

func (p *panel) Size() (x, y int16)                { return p.dev.Size() }
func (p *panel) SetPixel(x, y int16, c color.RGBA) { p.dev.SetPixel(x, y, c) }
func (p *panel) Display() error                    { return p.dev.Display() }
func (p *panel) ClearBuffer()                      { p.dev.ClearBuffer() }
func (p *panel) PowerOff() error                   { p.dev.PowerOff(); return nil }

func (p *panel) SetFastRefresh(fast bool) {
	if fast {
		p.dev.SetSpeed(uc8151.TURBO)
	} else {
		p.dev.SetSpeed(uc8151.DEFAULT)
	}
}

// ---- storage & bus ----

type storage struct{ fs *fatfs.FATFS }

func (s *storage) Deinit() error { return s.fs.Unmount() }

type spiBus struct{ spi *machine.SPI }

func (b *spiBus) Deinit() error {
	b.spi.Bus.ENABLE.Set(nrf.SPIM_ENABLE_ENABLE_Disabled)
	return nil
}

func (b *spiBus) Pins() []halcore.GPIOPin {
	return []halcore.GPIOPin{pin(pinSCK), pin(pinSDO), pin(pinSDI), pin(pinEpdCS), pin(pinSdCS)}
}

// ---- battery ----

type battery struct{ adc machine.ADC }

func newBattery(p machine.Pin) *battery {
	machine.InitADC()
	adc := machine.ADC{Pin: p}
	adc.Configure(machine.ADCConfig{})
	return &battery{adc: adc}
}

// Percent maps 3.3 V..4.2 V linearly onto 0..100.
func (b *battery) Percent() (int, bool) {
	raw := int(b.adc.Get()) // 0..65535 over 0..3.6 V
	mv := raw * 3600 / 65535 * 2
	if mv < 2500 {
		return 0, false // no cell
	}
	return mathx.Scale(mathx.Clamp(mv-3300, 0, 900), 900, 100), true
}
