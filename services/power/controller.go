// Package power owns the sleep transition: paint the last frame, tear the
// peripherals down, arm the wake pin and sleep, and undo the pin holds on
// the next boot.
package power

import (
	"context"
	"sync"
	"time"

	"handheld-go/bus"
	"handheld-go/errcode"
	"handheld-go/services/config"
	"handheld-go/services/hal/halcore"
	"handheld-go/services/power/internal/lastframe"
	"handheld-go/services/power/internal/pinhold"
	"handheld-go/services/power/internal/shutdown"
	"handheld-go/services/power/internal/wake"
	"handheld-go/types"
	"handheld-go/x/logx"
	"handheld-go/x/noise"
)

var (
	topicState  = bus.T("power", "state")
	topicBoot   = bus.T("power", "boot")
	topicReport = bus.T("power", "shutdown", "report")
)

type Controller struct {
	b     halcore.Board
	cfg   config.Power
	conn  *bus.Connection // nil: nothing published
	log   *logx.Logger
	holds *pinhold.Manager

	painter *lastframe.Painter
	teardn  *shutdown.Orchestrator
	armer   *wake.Armer

	mu       sync.Mutex
	state    types.PowerState
	restored bool
	boot     types.BootInfo
	report   types.ShutdownReport
}

// NewController wires the transition stages to b. A nil src draws pattern
// parameters from the board's random source.
func NewController(b halcore.Board, cfg config.Power, src noise.ParamSource, conn *bus.Connection) *Controller {
	log := logx.New("power")
	if src == nil {
		src = noise.RandomSource{Rand: b.Random}
	}
	holds := pinhold.New(b.Chip, b.Clock, log.With("hold"))
	c := &Controller{
		b:     b,
		cfg:   cfg,
		conn:  conn,
		log:   log,
		holds: holds,
		state: types.PowerActive,
	}
	if b.Display != nil {
		c.painter = lastframe.New(b.Display, b.Clock, src, b.Battery, lastframe.Config{
			StatusHold: cfg.StatusHold(),
			BarHeight:  int16(cfg.BarHeight),
			WakeHint:   cfg.WakeHint,
		}, log.With("frame"))
	}
	c.teardn = shutdown.New(b, holds, shutdown.Config{
		PollInterval:      cfg.Poll(),
		DisconnectTimeout: cfg.DisconnectTimeout(),
	}, log.With("shutdown"))
	c.armer = wake.New(b, holds, wake.Config{
		PollInterval:   cfg.Poll(),
		ReleaseTimeout: cfg.ReleaseTimeout(),
		ReleaseSettle:  cfg.ReleaseSettle(),
		WakeSettle:     cfg.WakeSettle(),
	}, log.With("wake"))
	return c
}

func (c *Controller) State() types.PowerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastReport is the diagnostics of the most recent Shutdown.
func (c *Controller) LastReport() types.ShutdownReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report
}

func (c *Controller) Boot() types.BootInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.boot
}

func (c *Controller) setState(s types.PowerState, reason string) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.publish(topicState, types.PowerStateValue{State: s, Reason: reason, TS: c.b.Clock.NowMs()})
}

func (c *Controller) publish(t bus.Topic, payload any) {
	if c.conn == nil {
		return
	}
	c.conn.Publish(c.conn.NewMessage(t, payload, true))
}

// Restore undoes the holds left by the previous sleep. It must run before
// anything else drives the sensor or backlight pins. Calling it again is
// harmless; the boot counter only advances on the first call.
func (c *Controller) Restore() (types.BootInfo, error) {
	c.mu.Lock()
	switch c.state {
	case types.PowerShuttingDown, types.PowerArmingWake:
		c.mu.Unlock()
		return types.BootInfo{}, &errcode.E{C: errcode.Busy, Op: "power.restore"}
	}
	if !c.restored {
		n := c.b.Retained.BootCount() + 1
		c.b.Retained.SetBootCount(n)
		c.boot = types.BootInfo{Count: n, WokeFromSleep: c.b.Retained.WokeFromSleep()}
		c.restored = true
	}
	boot := c.boot
	c.mu.Unlock()

	if err := c.holds.DisableGlobal(); err != nil {
		c.log.Warnf("restore global hold: %v", err)
	}
	if p := c.b.SensorPower; p != nil {
		if err := c.holds.ReleaseHold(p, true); err != nil {
			c.log.Warnf("restore sensor: %v", err)
		}
	}
	if p := c.b.Backlight; p != nil {
		if err := c.holds.ReleaseHold(p, false); err != nil {
			c.log.Warnf("restore backlight: %v", err)
		}
	}
	c.log.Infof("boot %d (woke from sleep: %v)", boot.Count, boot.WokeFromSleep)
	c.publish(topicBoot, boot)
	c.setState(types.PowerActive, "restore")
	return boot, nil
}

// Shutdown runs the whole sleep transition. On hardware a successful call
// never returns. It returns errcode.Busy when a transition is already
// under way and errcode.WakePinStuck when wake verification failed and the
// holds were rolled back; the device is then ACTIVE again. On a host board
// Sleep returns and the controller stays SLEEPING.
func (c *Controller) Shutdown(ctx context.Context, reason string) error {
	c.mu.Lock()
	if c.state != types.PowerActive {
		st := c.state
		c.mu.Unlock()
		return &errcode.E{C: errcode.Busy, Op: "power.shutdown", Msg: string(st)}
	}
	c.state = types.PowerShuttingDown
	c.mu.Unlock()

	start := c.b.Clock.NowMs()
	c.log.Infof("shutting down (%s)", reason)
	c.setState(types.PowerShuttingDown, reason)

	if c.painter != nil {
		label := c.cfg.StatusLabel
		if label == "" {
			label = lastframe.DefaultStatus
		}
		if !c.painter.Paint(ctx, label) {
			c.log.Warnf("no final frame, panel keeps its last image")
		}
	}

	rep := c.teardn.Run()

	c.setState(types.PowerArmingWake, reason)
	res := c.armer.Arm()
	rep.ReleaseWaitMs = res.ReleaseWait.Milliseconds()
	rep.ReleaseTimedOut = res.ReleaseTimedOut
	rep.Aborted = res.Abort
	if res.Err != nil {
		rep.Steps = append(rep.Steps, types.StepResult{Name: "arm_wake", Error: res.Err.Error()})
	}
	c.mu.Lock()
	c.report = rep
	c.mu.Unlock()
	c.publish(topicReport, rep)

	if res.Abort {
		code, msg := errcode.WakePinStuck, "wake pin low after arming"
		if errcode.Of(res.Err) == errcode.Unsupported {
			code, msg = errcode.Unsupported, "no wake source"
		}
		c.setState(types.PowerActive, string(code))
		return &errcode.E{C: code, Op: "power.shutdown", Msg: msg}
	}

	c.log.Infof("sleeping after %v", time.Duration(c.b.Clock.NowMs()-start)*time.Millisecond)
	c.setState(types.PowerSleeping, reason)
	c.b.Chip.Sleep()
	return nil
}
