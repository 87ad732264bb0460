package errcode

import (
	"errors"
	"testing"
)

func TestOf(t *testing.T) {
	if Of(nil) != OK {
		t.Fatal("nil should map to ok")
	}
	if Of(Busy) != Busy {
		t.Fatal("bare code should map to itself")
	}
	e := &E{C: WakePinStuck, Op: "wake.arm", Msg: "pin 0 low"}
	if Of(e) != WakePinStuck {
		t.Fatalf("wrapped code lost: %v", Of(e))
	}
	if Of(errors.New("x")) != Error {
		t.Fatal("foreign errors should map to generic error")
	}
}

func TestEMatchesCode(t *testing.T) {
	cause := errors.New("spi nak")
	err := Wrap(Timeout, "storage.deinit", cause)
	if !errors.Is(err, Timeout) {
		t.Fatal("errors.Is should match the code")
	}
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is should reach the cause")
	}
	if got := err.Error(); got != "storage.deinit: timeout: spi nak" {
		t.Fatalf("unexpected message %q", got)
	}
	if Wrap(Timeout, "x", nil) != nil {
		t.Fatal("Wrap(nil) must be nil")
	}
}
