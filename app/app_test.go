package app

import (
	"context"
	"testing"
	"time"

	"handheld-go/bus"
	"handheld-go/services/hal/platform/sim"
	"handheld-go/types"
	"handheld-go/x/logx"
	"handheld-go/x/noise"
)

func TestStart_PowerOffOverBus(t *testing.T) {
	old := logx.SetOutput(&discard{})
	t.Cleanup(func() { logx.SetOutput(old) })

	s := sim.New(sim.DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d, err := Start(ctx, s.Board(), "sim", noise.Fixed{P: noise.Params{
		F1: 0.05, F2: 0.04, F3: 0.02, FR: 0.03, Warp: 30,
	}})
	if err != nil {
		t.Fatal(err)
	}
	if s.Retained.BootCount() != 1 {
		t.Fatalf("restore did not run")
	}

	client := d.Bus.NewConnection("ui")
	rctx, rc := context.WithTimeout(ctx, 5*time.Second)
	defer rc()
	reply, err := client.RequestWait(rctx, client.NewMessage(bus.T("power", "cmd", "off"), types.PowerOff{Reason: "menu"}, false))
	if err != nil {
		t.Fatalf("no reply to power off: %v", err)
	}
	if r, ok := reply.Payload.(types.PowerOffReply); !ok || !r.OK {
		t.Fatalf("reply=%#v", reply.Payload)
	}
	if d.Context.Controller.State() != types.PowerSleeping || s.Chip.Sleeps() != 1 {
		t.Fatalf("state=%v sleeps=%d", d.Context.Controller.State(), s.Chip.Sleeps())
	}
}

func TestStart_UnknownDevice(t *testing.T) {
	s := sim.New(sim.DefaultOptions())
	if _, err := Start(context.Background(), s.Board(), "nope", nil); err == nil {
		t.Fatal("expected error")
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
