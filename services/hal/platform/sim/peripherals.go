package sim

import (
	"sync"

	"handheld-go/errcode"
	"handheld-go/services/hal/halcore"
	"handheld-go/x/timex"
)

type Storage struct {
	tr  *Trace
	Err error
}

func (s *Storage) Deinit() error {
	s.tr.Add("storage.deinit")
	return s.Err
}

type SerialBus struct {
	tr   *Trace
	pins []*Pin
	Err  error
}

func (b *SerialBus) Deinit() error {
	b.tr.Add("bus.deinit")
	return b.Err
}

func (b *SerialBus) Pins() []halcore.GPIOPin {
	out := make([]halcore.GPIOPin, len(b.pins))
	for i, p := range b.pins {
		out[i] = p
	}
	return out
}

// Radio models the BLE stack. A disconnect request clears the peer after
// LeaveAfterMs of simulated time; a negative delay means the peer never
// leaves.
type Radio struct {
	tr    *Trace
	clock *timex.Fake

	mu           sync.Mutex
	connected    bool
	leaveAt      int64
	leaving      bool
	controller   bool
	connAtDeinit bool

	LeaveAfterMs int64
	// DisableErr makes DisableController fail and leave the controller on.
	DisableErr error
}

func newRadio(clock *timex.Fake, tr *Trace) *Radio {
	r := &Radio{tr: tr, clock: clock, controller: true}
	clock.OnAdvance(r.tick)
	return r
}

func (r *Radio) tick(now int64) {
	r.mu.Lock()
	if r.leaving && now >= r.leaveAt {
		r.connected, r.leaving = false, false
	}
	r.mu.Unlock()
}

// Connect simulates a peer connecting.
func (r *Radio) Connect() {
	r.mu.Lock()
	r.connected = true
	r.mu.Unlock()
}

func (r *Radio) Connected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connected
}

func (r *Radio) Disconnect() error {
	r.tr.Add("radio.disconnect")
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.connected || r.LeaveAfterMs < 0 {
		return nil
	}
	if r.LeaveAfterMs == 0 {
		r.connected = false
		return nil
	}
	r.leaving = true
	r.leaveAt = r.clock.NowMs() + r.LeaveAfterMs
	return nil
}

func (r *Radio) Deinit() error {
	r.mu.Lock()
	r.connAtDeinit = r.connected
	r.mu.Unlock()
	r.tr.Add("radio.deinit")
	return nil
}

func (r *Radio) ControllerEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.controller
}

func (r *Radio) DisableController() error {
	r.tr.Add("radio.controller.disable")
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.DisableErr != nil {
		return r.DisableErr
	}
	r.controller = false
	return nil
}

// DeinitController refuses while the controller is still enabled, as the
// SoftDevice-backed board does.
func (r *Radio) DeinitController() error {
	r.tr.Add("radio.controller.deinit")
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.controller {
		return &errcode.E{C: errcode.Busy, Op: "radio.deinit_controller", Msg: "controller still enabled"}
	}
	return nil
}

// ConnectedAtDeinit reports whether a peer was still linked when the stack
// was torn down.
func (r *Radio) ConnectedAtDeinit() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connAtDeinit
}

type Battery struct {
	Pct int
	OK  bool
}

func (b Battery) Percent() (int, bool) { return b.Pct, b.OK }

// Random is a xorshift32 generator; the same seed gives the same frame.
type Random struct {
	mu sync.Mutex
	s  uint32
}

func NewRandom(seed uint32) *Random {
	if seed == 0 {
		seed = 0x9e3779b9
	}
	return &Random{s: seed}
}

func (r *Random) Uint32() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	x := r.s
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.s = x
	return x
}
