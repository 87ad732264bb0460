// Package shutdown tears the peripherals down in the one order that is safe
// for the sleep transition and reports what each step did.
package shutdown

import (
	"errors"
	"time"

	"handheld-go/services/hal/halcore"
	"handheld-go/services/power/internal/pinhold"
	"handheld-go/types"
	"handheld-go/x/logx"
	"handheld-go/x/pollx"
)

// Step names, in run order.
const (
	StepSensorHold      = "sensor_hold"
	StepBacklightHold   = "backlight_hold"
	StepDisplayOff      = "display_off"
	StepStorageDeinit   = "storage_deinit"
	StepBusDeinit       = "bus_deinit"
	StepRadioDisconnect = "radio_disconnect"
	StepRadioDeinit     = "radio_deinit"
)

const (
	DefaultPollInterval      = 10 * time.Millisecond
	DefaultDisconnectTimeout = 2000 * time.Millisecond
)

type Config struct {
	PollInterval      time.Duration
	DisconnectTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.DisconnectTimeout <= 0 || c.DisconnectTimeout > DefaultDisconnectTimeout {
		c.DisconnectTimeout = DefaultDisconnectTimeout
	}
	return c
}

// Step is one named unit of teardown.
type Step struct {
	Name string
	Run  func() error
}

type Orchestrator struct {
	b     halcore.Board
	holds *pinhold.Manager
	cfg   Config
	log   *logx.Logger

	waited   time.Duration
	timedOut bool
}

func New(b halcore.Board, holds *pinhold.Manager, cfg Config, log *logx.Logger) *Orchestrator {
	return &Orchestrator{b: b, holds: holds, cfg: cfg.withDefaults(), log: log}
}

// Steps lists the teardown in order. A collaborator the board lacks makes
// its step a no-op.
func (o *Orchestrator) Steps() []Step {
	return []Step{
		{StepSensorHold, func() error { return o.hold(o.b.SensorPower) }},
		{StepBacklightHold, func() error { return o.hold(o.b.Backlight) }},
		{StepDisplayOff, o.displayOff},
		{StepStorageDeinit, o.storageDeinit},
		{StepBusDeinit, o.busDeinit},
		{StepRadioDisconnect, o.radioDisconnect},
		{StepRadioDeinit, o.radioDeinit},
	}
}

// Run executes every step. A failing step is logged and recorded; the
// sequence always continues.
func (o *Orchestrator) Run() types.ShutdownReport {
	o.waited, o.timedOut = 0, false
	var rep types.ShutdownReport
	for _, s := range o.Steps() {
		res := types.StepResult{Name: s.Name}
		if err := s.Run(); err != nil {
			o.log.Warnf("%s: %v", s.Name, err)
			res.Error = err.Error()
		}
		rep.Steps = append(rep.Steps, res)
	}
	rep.DisconnectWaitMs = o.waited.Milliseconds()
	rep.DisconnectTimedOut = o.timedOut
	return rep
}

func (o *Orchestrator) hold(p halcore.HoldPin) error {
	if p == nil {
		return nil
	}
	return o.holds.DriveAndHold(p, false)
}

func (o *Orchestrator) displayOff() error {
	if o.b.Display == nil {
		return nil
	}
	return o.b.Display.PowerOff()
}

func (o *Orchestrator) storageDeinit() error {
	if o.b.Storage == nil {
		return nil
	}
	return o.b.Storage.Deinit()
}

// busDeinit releases the shared bus and floats its lines so nothing leaks
// current into unpowered peripherals.
func (o *Orchestrator) busDeinit() error {
	if o.b.Bus == nil {
		return nil
	}
	err := o.b.Bus.Deinit()
	for _, p := range o.b.Bus.Pins() {
		if perr := o.holds.Park(p); perr != nil {
			err = errors.Join(err, perr)
		}
	}
	return err
}

// radioDisconnect asks a connected peer to leave and waits, bounded, for
// the stack to report it gone. Tearing the stack down under a live link
// corrupts its memory, but a peer that never answers must not keep the
// device awake, so a timeout only warns.
func (o *Orchestrator) radioDisconnect() error {
	r := o.b.Radio
	if r == nil || !r.Connected() {
		return nil
	}
	err := r.Disconnect()
	out, waited := pollx.Until(o.b.Clock, o.cfg.PollInterval, o.cfg.DisconnectTimeout, func() bool {
		return !r.Connected()
	})
	o.waited = waited
	if out == pollx.TimedOut {
		o.timedOut = true
		o.log.Warnf("radio peer still connected after %dms", waited.Milliseconds())
	} else {
		o.log.Infof("radio peer left after %dms", waited.Milliseconds())
	}
	return err
}

func (o *Orchestrator) radioDeinit() error {
	r := o.b.Radio
	if r == nil {
		return nil
	}
	err := r.Deinit()
	if r.ControllerEnabled() {
		err = errors.Join(err, r.DisableController(), r.DeinitController())
	}
	return err
}

// DisconnectWait reports the last handshake's elapsed time and whether it
// gave up.
func (o *Orchestrator) DisconnectWait() (time.Duration, bool) { return o.waited, o.timedOut }
