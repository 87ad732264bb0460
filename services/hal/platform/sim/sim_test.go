package sim

import (
	"testing"

	"handheld-go/services/hal/halcore"
)

func TestPin_HoldFreezesPad(t *testing.T) {
	p := NewPin(7, nil)
	_ = p.ConfigureOutput(true)
	_ = p.SetHold(true)
	p.Set(false)
	_ = p.ConfigureInput(halcore.PullNone)
	if p.Mode() != ModeOutput || !p.Get() {
		t.Fatalf("held pad changed: mode=%v level=%v", p.Mode(), p.Get())
	}
	_ = p.SetHold(false)
	p.Set(false)
	if p.Get() {
		t.Fatalf("released pad ignored write")
	}
}

func TestPin_ButtonReadsLowWhenPressed(t *testing.T) {
	p := NewPin(2, nil)
	_ = p.ConfigureWake(true, false)
	if !p.Get() {
		t.Fatalf("pulled-up wake pin should read high")
	}
	p.Press(true)
	if p.Get() {
		t.Fatalf("pressed button should read low")
	}
}

func TestRadio_LeavesAfterDelay(t *testing.T) {
	s := New(DefaultOptions())
	s.Radio.LeaveAfterMs = 500
	s.Radio.Connect()
	_ = s.Radio.Disconnect()
	s.Clock.Advance(499)
	if !s.Radio.Connected() {
		t.Fatalf("peer left early")
	}
	s.Clock.Advance(1)
	if s.Radio.Connected() {
		t.Fatalf("peer still connected at 500ms")
	}
}

func TestRadio_NeverLeaves(t *testing.T) {
	s := New(DefaultOptions())
	s.Radio.LeaveAfterMs = -1
	s.Radio.Connect()
	_ = s.Radio.Disconnect()
	s.Clock.Advance(10_000)
	if !s.Radio.Connected() {
		t.Fatalf("peer should stay")
	}
}

func TestDisplay_SnapshotsFrames(t *testing.T) {
	s := New(DefaultOptions())
	d := s.Display
	d.SetPixel(1, 1, halcore.Ink)
	d.SetFastRefresh(true)
	if err := d.Display(); err != nil {
		t.Fatal(err)
	}
	d.SetPixel(1, 1, halcore.Paper)
	d.SetFastRefresh(false)
	_ = d.Display()

	fr := d.Frames()
	if len(fr) != 2 {
		t.Fatalf("frames=%d", len(fr))
	}
	if !fr[0].Fast || !fr[0].Ink(1, 1) {
		t.Fatalf("first frame wrong: fast=%v ink=%v", fr[0].Fast, fr[0].Ink(1, 1))
	}
	if fr[1].Fast || fr[1].Ink(1, 1) {
		t.Fatalf("second frame wrong")
	}
	_ = d.PowerOff()
	if err := d.Display(); err != ErrPoweredOff {
		t.Fatalf("want ErrPoweredOff, got %v", err)
	}
}

func TestRandom_Deterministic(t *testing.T) {
	a, b := NewRandom(42), NewRandom(42)
	for i := 0; i < 8; i++ {
		if a.Uint32() != b.Uint32() {
			t.Fatalf("diverged at %d", i)
		}
	}
}

func TestNew_BootStateNotTraced(t *testing.T) {
	s := New(DefaultOptions())
	if n := len(s.Trace.Events()); n != 0 {
		t.Fatalf("trace not reset: %v", s.Trace.Events())
	}
	if !s.Sensor.Level() || !s.Select.Get() {
		t.Fatalf("unexpected boot levels")
	}
}
