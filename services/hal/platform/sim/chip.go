package sim

import (
	"strconv"
	"sync"

	"handheld-go/services/hal/halcore"
)

// Chip records the sleep controller calls. Sleep returns on the host; the
// optional OnSleep hook lets a caller model the wake that follows.
type Chip struct {
	tr   *Trace
	caps halcore.Capabilities

	mu         sync.Mutex
	globalHold bool
	plan       *halcore.DomainPlan
	armedPin   int
	sleeps     int

	OnSleep func()
}

func NewChip(caps halcore.Capabilities, tr *Trace) *Chip {
	return &Chip{tr: tr, caps: caps, armedPin: -1}
}

func (c *Chip) Capabilities() halcore.Capabilities { return c.caps }

func (c *Chip) SetGlobalHold(on bool) error {
	c.mu.Lock()
	c.globalHold = on
	c.mu.Unlock()
	if on {
		c.tr.Add("chip.globalhold.on")
	} else {
		c.tr.Add("chip.globalhold.off")
	}
	return nil
}

func (c *Chip) ConfigureDomains(p halcore.DomainPlan) error {
	c.mu.Lock()
	c.plan = &p
	c.mu.Unlock()
	c.tr.Add("chip.domains")
	return nil
}

func (c *Chip) ArmWakeLow(pin int) error {
	c.mu.Lock()
	c.armedPin = pin
	c.mu.Unlock()
	c.tr.Add("chip.wake." + strconv.Itoa(pin))
	return nil
}

func (c *Chip) Sleep() {
	c.mu.Lock()
	c.sleeps++
	hook := c.OnSleep
	c.mu.Unlock()
	c.tr.Add("chip.sleep")
	if hook != nil {
		hook()
	}
}

func (c *Chip) GlobalHold() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.globalHold
}

// Plan returns the last domain plan, ok=false if none was applied.
func (c *Chip) Plan() (halcore.DomainPlan, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.plan == nil {
		return halcore.DomainPlan{}, false
	}
	return *c.plan, true
}

// ArmedPin is -1 until ArmWakeLow is called.
func (c *Chip) ArmedPin() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armedPin
}

func (c *Chip) Sleeps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sleeps
}

// Retained models the sleep-surviving memory word.
type Retained struct {
	mu    sync.Mutex
	count uint32
	woke  bool
}

func NewRetained(count uint32, woke bool) *Retained {
	return &Retained{count: count, woke: woke}
}

func (r *Retained) BootCount() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

func (r *Retained) SetBootCount(n uint32) {
	r.mu.Lock()
	r.count = n
	r.mu.Unlock()
}

func (r *Retained) WokeFromSleep() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.woke
}

// Wake marks the next boot as a wake from sleep.
func (r *Retained) Wake() {
	r.mu.Lock()
	r.woke = true
	r.mu.Unlock()
}
