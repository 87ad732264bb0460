package periphpins

import (
	"testing"

	"handheld-go/services/hal/halcore"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestPin_OutputAndHold(t *testing.T) {
	line := &gpiotest.Pin{N: "GPIO22", Num: 22}
	p := Wrap(line, 22)

	if err := p.ConfigureOutput(true); err != nil {
		t.Fatal(err)
	}
	if line.L != gpio.High || !p.Get() {
		t.Fatalf("line level %v", line.L)
	}
	p.Set(false)
	_ = p.SetHold(true)
	p.Set(true)
	_ = p.ConfigureInput(halcore.PullUp)
	if line.L != gpio.Low {
		t.Fatalf("held line changed to %v", line.L)
	}
	_ = p.SetHold(false)
	p.Set(true)
	if line.L != gpio.High {
		t.Fatalf("released line ignored write")
	}
}

func TestPin_InputPull(t *testing.T) {
	cases := []struct {
		in   halcore.Pull
		want gpio.Pull
	}{
		{halcore.PullUp, gpio.PullUp},
		{halcore.PullDown, gpio.PullDown},
		{halcore.PullNone, gpio.Float},
	}
	for _, tc := range cases {
		line := &gpiotest.Pin{N: "GPIO17", Num: 17}
		p := Wrap(line, 17)
		if err := p.ConfigureInput(tc.in); err != nil {
			t.Fatal(err)
		}
		if line.P != tc.want {
			t.Fatalf("pull %v -> %v, want %v", tc.in, line.P, tc.want)
		}
	}
}

func TestPin_WakeBias(t *testing.T) {
	line := &gpiotest.Pin{N: "GPIO27", Num: 27}
	p := Wrap(line, 27)
	_ = p.ConfigureOutput(false)
	if err := p.ConfigureWake(true, false); err != nil {
		t.Fatal(err)
	}
	if line.P != gpio.PullUp {
		t.Fatalf("pull=%v", line.P)
	}
	p.Set(false) // input now: ignored
	if p.Number() != 27 {
		t.Fatalf("number=%d", p.Number())
	}
}
