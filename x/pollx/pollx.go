// Package pollx provides the bounded busy-wait used wherever the firmware has
// to wait on a hardware flag without an interrupt.
package pollx

import "time"

// Clock is the time source a wait runs against.
type Clock interface {
	NowMs() int64
	Sleep(d time.Duration)
}

// Outcome of a bounded wait.
type Outcome uint8

const (
	Succeeded Outcome = iota
	TimedOut
)

func (o Outcome) String() string {
	if o == Succeeded {
		return "succeeded"
	}
	return "timed_out"
}

// Until polls done every interval until it returns true or max has elapsed.
// done is evaluated once before the first sleep, so an already-satisfied
// condition costs no delay. The last sleep is shortened so the wait never
// runs past max. The returned duration is the time spent waiting.
func Until(clk Clock, interval, max time.Duration, done func() bool) (Outcome, time.Duration) {
	start := clk.NowMs()
	elapsed := func() time.Duration {
		return time.Duration(clk.NowMs()-start) * time.Millisecond
	}
	if done() {
		return Succeeded, 0
	}
	if interval <= 0 {
		interval = time.Millisecond
	}
	for {
		spent := elapsed()
		if spent >= max {
			return TimedOut, spent
		}
		step := interval
		if rem := max - spent; rem < step {
			step = rem
		}
		clk.Sleep(step)
		if done() {
			return Succeeded, elapsed()
		}
	}
}
