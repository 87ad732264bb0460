package sim

import "sync"

// Trace is the ordered record of every collaborator call the simulator
// sees. Tests assert teardown ordering against it.
type Trace struct {
	mu     sync.Mutex
	events []string
}

func (t *Trace) Add(ev string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.events = append(t.events, ev)
	t.mu.Unlock()
}

func (t *Trace) Events() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.events...)
}

// Index returns the position of the first ev, or -1.
func (t *Trace) Index(ev string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, e := range t.events {
		if e == ev {
			return i
		}
	}
	return -1
}

func (t *Trace) Reset() {
	t.mu.Lock()
	t.events = nil
	t.mu.Unlock()
}
