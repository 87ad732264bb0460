package buttons

import (
	"context"
	"testing"
	"time"

	"handheld-go/bus"
	"handheld-go/services/config"
	"handheld-go/services/hal/platform/sim"
	"handheld-go/types"
	"handheld-go/x/timex"
)

func TestDetector_ShortOfThresholdNeverFires(t *testing.T) {
	d := NewDetector(1500 * time.Millisecond)
	for ms := int64(0); ms <= 1499; ms += 1 {
		if d.Poll(true, 1000+ms) {
			t.Fatalf("fired at %dms", ms)
		}
	}
	if d.Poll(false, 2500) {
		t.Fatalf("fired on release")
	}
	if d.State() != Idle {
		t.Fatalf("state=%v after release", d.State())
	}
}

func TestDetector_FiresOncePerHold(t *testing.T) {
	d := NewDetector(1500 * time.Millisecond)
	fired := 0
	for ms := int64(0); ms <= 4000; ms += 20 {
		if d.Poll(true, ms) {
			fired++
			if ms < 1500 || ms > 1520 {
				t.Fatalf("fired at %dms", ms)
			}
		}
	}
	if fired != 1 {
		t.Fatalf("fired %d times", fired)
	}
	if d.State() != Fired {
		t.Fatalf("state=%v", d.State())
	}
	// Release re-arms.
	d.Poll(false, 4020)
	d.Poll(true, 5000)
	if !d.Poll(true, 6501) {
		t.Fatalf("second hold did not fire")
	}
}

func TestDetector_ExactThresholdFires(t *testing.T) {
	d := NewDetector(100 * time.Millisecond)
	d.Poll(true, 0)
	if d.Poll(true, 99) {
		t.Fatalf("fired early")
	}
	if !d.Poll(true, 100) {
		t.Fatalf("did not fire at threshold")
	}
}

func TestDetector_DefaultThreshold(t *testing.T) {
	if d := NewDetector(0); d.Threshold != DefaultThreshold {
		t.Fatalf("threshold=%v", d.Threshold)
	}
}

func newService() (*Service, *sim.Sim, *timex.Fake) {
	s := sim.New(sim.DefaultOptions())
	svc := NewService(s.Clock, 0,
		Button{Name: "power", Pin: s.Power, Detector: NewDetector(0)},
		Button{Name: "select", Pin: s.Select, Detector: NewDetector(0)},
	)
	return svc, s, s.Clock
}

func TestService_PublishesLongPress(t *testing.T) {
	svc, s, clk := newService()
	b := bus.NewBus(8)
	conn := b.NewConnection("test")
	sub := conn.Subscribe(bus.T("buttons", "+", "event"))

	s.Power.Press(true)
	for i := 0; i < 100; i++ {
		svc.PollOnce(conn)
		clk.Advance(20)
	}

	select {
	case m := <-sub.Channel():
		ev, ok := m.Payload.(types.ButtonEvent)
		if !ok || ev.Name != "power" || ev.Kind != types.ButtonLongPress {
			t.Fatalf("payload=%#v", m.Payload)
		}
		if ev.HeldMs < 1500 || ev.HeldMs > 1520 {
			t.Fatalf("held=%d", ev.HeldMs)
		}
	default:
		t.Fatal("no event")
	}
	select {
	case m := <-sub.Channel():
		t.Fatalf("unexpected second event: %#v", m.Payload)
	default:
	}
}

func TestService_ConfigUpdatesThreshold(t *testing.T) {
	svc, _, _ := newService()
	svc.applyConfig(config.Buttons{Buttons: []config.Button{{Name: "select", ThresholdMs: 800}}})
	if got := svc.buttons[1].Detector.Threshold; got != 800*time.Millisecond {
		t.Fatalf("select threshold=%v", got)
	}
	if got := svc.buttons[0].Detector.Threshold; got != DefaultThreshold {
		t.Fatalf("power threshold changed: %v", got)
	}
}

func TestService_ConfigRightAfterStartIsApplied(t *testing.T) {
	s := sim.New(sim.DefaultOptions())
	s.Select.Press(true)
	svc := NewService(timex.System{}, 5*time.Millisecond,
		Button{Name: "select", Pin: s.Select, Detector: NewDetector(time.Hour)},
	)
	b := bus.NewBus(8)
	mon := b.NewConnection("mon")
	events := mon.Subscribe(EventTopic("select"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = svc.Start(ctx, b.NewConnection("buttons"))
	mon.Publish(mon.NewMessage(bus.T("config", "buttons"), config.Buttons{
		PollMs:  5,
		Buttons: []config.Button{{Name: "select", ThresholdMs: 10}},
	}, false))

	select {
	case <-events.Channel():
	case <-time.After(2 * time.Second):
		t.Fatal("threshold from config never applied")
	}
}
