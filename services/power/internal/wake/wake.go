// Package wake arms the single external wake source and checks it before
// the processor is allowed to sleep.
package wake

import (
	"errors"
	"time"

	"handheld-go/errcode"
	"handheld-go/services/hal/halcore"
	"handheld-go/services/power/internal/pinhold"
	"handheld-go/x/logx"
	"handheld-go/x/pollx"
)

const (
	DefaultPollInterval   = 10 * time.Millisecond
	DefaultReleaseTimeout = 5000 * time.Millisecond
	DefaultReleaseSettle  = 50 * time.Millisecond
	DefaultWakeSettle     = 10 * time.Millisecond
)

type Config struct {
	PollInterval   time.Duration
	ReleaseTimeout time.Duration
	ReleaseSettle  time.Duration // after the button is up
	WakeSettle     time.Duration // after switching the pin to its wake config
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.ReleaseTimeout <= 0 || c.ReleaseTimeout > DefaultReleaseTimeout {
		c.ReleaseTimeout = DefaultReleaseTimeout
	}
	if c.ReleaseSettle <= 0 {
		c.ReleaseSettle = DefaultReleaseSettle
	}
	if c.WakeSettle <= 0 {
		c.WakeSettle = DefaultWakeSettle
	}
	return c
}

// Result of one arming attempt. Abort means the wake pin was not high
// after reconfiguration; sleeping then would wake immediately, so the
// holds have been rolled back and the caller must stay active.
type Result struct {
	Abort           bool
	ReleaseWait     time.Duration
	ReleaseTimedOut bool
	Err             error // non-fatal errors from arming calls
}

type Armer struct {
	b     halcore.Board
	holds *pinhold.Manager
	cfg   Config
	log   *logx.Logger
}

func New(b halcore.Board, holds *pinhold.Manager, cfg Config, log *logx.Logger) *Armer {
	return &Armer{b: b, holds: holds, cfg: cfg.withDefaults(), log: log}
}

// Arm runs the wake sequence. On success the chip is ready for Sleep.
func (a *Armer) Arm() Result {
	var res Result
	btn := a.b.WakeButton
	if btn == nil {
		// Sleeping without a wake source would never come back.
		a.log.Errorf("no wake button, aborting sleep")
		a.Rollback()
		res.Abort = true
		res.Err = &errcode.E{C: errcode.Unsupported, Op: "wake.arm", Msg: "no wake button"}
		return res
	}
	if err := a.holds.EnableGlobal(); err != nil {
		a.log.Warnf("global hold: %v", err)
		res.Err = err
	}

	// Active low: the button is up when the pin reads high.
	out, waited := pollx.Until(a.b.Clock, a.cfg.PollInterval, a.cfg.ReleaseTimeout, btn.Get)
	res.ReleaseWait = waited
	if out == pollx.TimedOut {
		res.ReleaseTimedOut = true
		a.log.Warnf("wake button still pressed after %dms", waited.Milliseconds())
	}
	a.b.Clock.Sleep(a.cfg.ReleaseSettle)

	if err := btn.ConfigureWake(true, false); err != nil {
		res.Err = errors.Join(res.Err, err)
	}
	a.b.Clock.Sleep(a.cfg.WakeSettle)

	if !btn.Get() {
		a.log.Errorf("wake pin %d reads low, aborting sleep", btn.Number())
		a.Rollback()
		res.Abort = true
		return res
	}

	if err := a.b.Chip.ConfigureDomains(a.Plan()); err != nil {
		a.log.Warnf("domains: %v", err)
		res.Err = errors.Join(res.Err, err)
	}
	if err := a.b.Chip.ArmWakeLow(btn.Number()); err != nil {
		a.log.Warnf("arm wake: %v", err)
		res.Err = errors.Join(res.Err, err)
	}
	return res
}

// Plan keeps the pin-retention domain powered and gates everything else
// the chip can gate.
func (a *Armer) Plan() halcore.DomainPlan {
	c := a.b.Chip.Capabilities()
	return halcore.DomainPlan{
		KeepPinRetention: true,
		XTALOff:          c.PowerDownXTAL,
		AnalogOff:        c.PowerDownAnalog,
		RTCMemOff:        c.PowerDownRTCMem,
	}
}

// Rollback undoes the holds taken during shutdown: global retention off,
// sensor power back on, backlight released and left off.
func (a *Armer) Rollback() {
	if err := a.holds.DisableGlobal(); err != nil {
		a.log.Warnf("rollback global hold: %v", err)
	}
	if p := a.b.SensorPower; p != nil {
		if err := a.holds.ReleaseHold(p, true); err != nil {
			a.log.Warnf("rollback sensor: %v", err)
		}
	}
	if p := a.b.Backlight; p != nil {
		if err := a.holds.ReleaseHold(p, false); err != nil {
			a.log.Warnf("rollback backlight: %v", err)
		}
	}
}
