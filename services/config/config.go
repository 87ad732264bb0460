package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"handheld-go/bus"
	"handheld-go/errcode"
	"handheld-go/x/logx"
	"handheld-go/x/mathx"
)

// -----------------------------------------------------------------------------
// String constants
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for device ID
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// -----------------------------------------------------------------------------
// Typed sections
// -----------------------------------------------------------------------------

// Power tunes the sleep transition. Durations are milliseconds.
type Power struct {
	PollMs              int    `json:"poll_ms"`
	DisconnectTimeoutMs int    `json:"disconnect_timeout_ms"`
	ReleaseTimeoutMs    int    `json:"release_timeout_ms"`
	ReleaseSettleMs     int    `json:"release_settle_ms"`
	WakeSettleMs        int    `json:"wake_settle_ms"`
	StatusHoldMs        int    `json:"status_hold_ms"`
	StatusLabel         string `json:"status_label"`
	WakeHint            string `json:"wake_hint"`
	BarHeight           int    `json:"bar_height"`
}

func (p Power) Poll() time.Duration              { return ms(p.PollMs) }
func (p Power) DisconnectTimeout() time.Duration { return ms(p.DisconnectTimeoutMs) }
func (p Power) ReleaseTimeout() time.Duration    { return ms(p.ReleaseTimeoutMs) }
func (p Power) ReleaseSettle() time.Duration     { return ms(p.ReleaseSettleMs) }
func (p Power) WakeSettle() time.Duration        { return ms(p.WakeSettleMs) }
func (p Power) StatusHold() time.Duration        { return ms(p.StatusHoldMs) }

type Button struct {
	Name        string `json:"name"`
	Pin         int    `json:"pin"`
	ThresholdMs int    `json:"threshold_ms"`
}

type Buttons struct {
	PollMs  int      `json:"poll_ms"`
	Buttons []Button `json:"buttons"`
}

func (b Buttons) Poll() time.Duration { return ms(b.PollMs) }

// Pins names the board's fixed lines.
type Pins struct {
	SensorPower int `json:"sensor_power"`
	Backlight   int `json:"backlight"`
	Wake        int `json:"wake"`
	Power       int `json:"power"`
}

// Heartbeat sets the status log period; 0 turns it off.
type Heartbeat struct {
	Interval int `json:"interval"` // seconds
}

// Device is one embedded device config.
type Device struct {
	Power     Power     `json:"power"`
	Buttons   Buttons   `json:"buttons"`
	Pins      Pins      `json:"pins"`
	Heartbeat Heartbeat `json:"heartbeat"`
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Defaults returns the values used for anything a device config leaves out.
func Defaults() Device {
	return Device{
		Power: Power{
			PollMs:              PollMs,
			DisconnectTimeoutMs: MaxDisconnectTimeoutMs,
			ReleaseTimeoutMs:    MaxReleaseTimeoutMs,
			ReleaseSettleMs:     50,
			WakeSettleMs:        10,
			StatusHoldMs:        1000,
			StatusLabel:         "Sleeping...",
			WakeHint:            "hold SELECT to wake",
			BarHeight:           16,
		},
		Buttons: Buttons{
			PollMs: 20,
			Buttons: []Button{
				{Name: "power", Pin: -1, ThresholdMs: 1500},
				{Name: "select", Pin: -1, ThresholdMs: 1500},
			},
		},
		Pins:      Pins{SensorPower: -1, Backlight: -1, Wake: -1, Power: -1},
		Heartbeat: Heartbeat{Interval: 10},
	}
}

// Fixed timing of the sleep transition. Device configs may shorten the
// waits but never lengthen them.
const (
	PollMs                 = 10
	MaxDisconnectTimeoutMs = 2000
	MaxReleaseTimeoutMs    = 5000
)

// Validate bounds every field that drives a wait or a draw.
func (d Device) Validate() error {
	p := d.Power
	switch {
	case p.PollMs != PollMs:
		return invalid("power.poll_ms")
	case !mathx.Between(p.DisconnectTimeoutMs, p.PollMs, MaxDisconnectTimeoutMs):
		return invalid("power.disconnect_timeout_ms")
	case !mathx.Between(p.ReleaseTimeoutMs, p.PollMs, MaxReleaseTimeoutMs):
		return invalid("power.release_timeout_ms")
	case !mathx.Between(p.ReleaseSettleMs, 0, 1000), !mathx.Between(p.WakeSettleMs, 0, 1000):
		return invalid("power settle")
	case !mathx.Between(p.StatusHoldMs, 0, 10000):
		return invalid("power.status_hold_ms")
	case !mathx.Between(p.BarHeight, 8, 64):
		return invalid("power.bar_height")
	}
	if !mathx.Between(d.Heartbeat.Interval, 0, 3600) {
		return invalid("heartbeat.interval")
	}
	if !mathx.Between(d.Buttons.PollMs, 1, 500) {
		return invalid("buttons.poll_ms")
	}
	seen := map[string]bool{}
	for _, b := range d.Buttons.Buttons {
		if b.Name == "" || seen[b.Name] {
			return invalid("buttons.name")
		}
		seen[b.Name] = true
		if !mathx.Between(b.ThresholdMs, d.Buttons.PollMs, 60000) {
			return invalid("buttons." + b.Name + ".threshold_ms")
		}
	}
	return nil
}

func invalid(field string) error {
	return &errcode.E{C: errcode.InvalidParams, Op: "config.validate", Msg: field}
}

// Decode applies raw over Defaults and validates the result. Unknown keys
// are rejected.
func Decode(raw []byte) (Device, error) {
	d := Defaults()
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return Device{}, errcode.Wrap(errcode.InvalidPayload, "config.decode", err)
	}
	if err := d.Validate(); err != nil {
		return Device{}, err
	}
	return d, nil
}

// Load resolves and decodes the embedded config for device.
func Load(device string) (Device, error) {
	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return Device{}, errors.New("no embedded config for device: " + device)
	}
	return Decode(raw)
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
	log  *logx.Logger
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName, log: logx.New(serviceName)}
}

// publishConfig loads the device config and publishes each section
// retained on config/<section>.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return errors.New("missing device ID in context")
	}
	d, err := Load(device)
	if err != nil {
		return err
	}
	conn.Publish(conn.NewMessage(bus.T(configPrefix, "power"), d.Power, true))
	conn.Publish(conn.NewMessage(bus.T(configPrefix, "buttons"), d.Buttons, true))
	conn.Publish(conn.NewMessage(bus.T(configPrefix, "pins"), d.Pins, true))
	conn.Publish(conn.NewMessage(bus.T(configPrefix, "heartbeat"), d.Heartbeat, true))
	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			s.log.Errorf("%v", err)
		}
	}()
}
