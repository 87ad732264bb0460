package timex

import (
	"sync"
	"time"
)

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// System is the wall/monotonic clock of the running process.
type System struct{}

func (System) NowMs() int64           { return NowMs() }
func (System) Sleep(d time.Duration) { time.Sleep(d) }

// Fake is a manual clock. Sleep advances it instantly, so bounded waits
// complete without real delay. Hooks run after every advance in the order
// they were added; simulators use them to flip pin or radio state at a
// given instant.
type Fake struct {
	mu    sync.Mutex
	now   int64
	slept time.Duration
	hooks []func(nowMs int64)
}

// NewFake returns a clock starting at startMs.
func NewFake(startMs int64) *Fake { return &Fake{now: startMs} }

func (f *Fake) NowMs() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Sleep advances the clock by d (rounded down to whole ms, minimum 1 ms
// for any positive d).
func (f *Fake) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	ms := d.Milliseconds()
	if ms == 0 {
		ms = 1
	}
	f.Advance(ms)
}

// Advance moves the clock forward by ms and runs hooks.
func (f *Fake) Advance(ms int64) {
	f.mu.Lock()
	f.now += ms
	f.slept += time.Duration(ms) * time.Millisecond
	now := f.now
	hooks := append([]func(int64){}, f.hooks...)
	f.mu.Unlock()
	for _, h := range hooks {
		h(now)
	}
}

// OnAdvance registers a hook called with the new time after each advance.
func (f *Fake) OnAdvance(h func(nowMs int64)) {
	f.mu.Lock()
	f.hooks = append(f.hooks, h)
	f.mu.Unlock()
}

// Slept reports the total time passed to Sleep/Advance.
func (f *Fake) Slept() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slept
}
