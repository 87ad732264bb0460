// Package app wires the services onto one bus for a given board. Both the
// firmware entry point and the host tools start the device through it.
package app

import (
	"context"

	"handheld-go/bus"
	"handheld-go/services/config"
	"handheld-go/services/hal/halcore"
	"handheld-go/services/heartbeat"
	"handheld-go/services/power"
	"handheld-go/x/logx"
	"handheld-go/x/noise"
)

const busQueueLen = 16

// Device is a running device.
type Device struct {
	Bus     *bus.Bus
	Context *power.Context
}

// Start restores the pins, then starts config, heartbeat, buttons and power
// services. src may be nil to draw patterns from the board's RNG.
func Start(ctx context.Context, b halcore.Board, device string, src noise.ParamSource) (*Device, error) {
	log := logx.New("main")
	cfg, err := config.Load(device)
	if err != nil {
		return nil, err
	}

	bb := bus.NewBus(busQueueLen)
	pc, err := power.NewContext(b, cfg, src, bb.NewConnection("power"))
	if err != nil {
		return nil, err
	}

	cctx := context.WithValue(ctx, config.CtxDeviceKey, device)
	config.NewConfigService().Start(cctx, bb.NewConnection("config"))
	if err := heartbeat.New().Start(ctx, bb.NewConnection("heartbeat")); err != nil {
		return nil, err
	}
	if err := pc.ButtonService().Start(ctx, bb.NewConnection("buttons")); err != nil {
		return nil, err
	}
	if err := power.NewService(pc.Controller).Start(ctx, bb.NewConnection("power-svc")); err != nil {
		return nil, err
	}
	log.Infof("device %q up, boot %d", device, pc.Controller.Boot().Count)
	return &Device{Bus: bb, Context: pc}, nil
}
