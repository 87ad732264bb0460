package sim

import (
	"errors"
	"image/color"
	"sync"

	"handheld-go/services/hal/halcore"

	"tinygo.org/x/drivers/pixel"
)

var ErrPoweredOff = errors.New("sim: display powered off")

// Frame is one refresh as the panel would have shown it.
type Frame struct {
	Fast  bool
	Image pixel.Image[pixel.Monochrome] // true = paper
}

// Ink reports whether the pixel at x,y is ink.
func (f Frame) Ink(x, y int) bool { return !bool(f.Image.Get(x, y)) }

// InkCount counts ink pixels in the rectangle [x0,x1)×[y0,y1).
func (f Frame) InkCount(x0, y0, x1, y1 int) int {
	n := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if f.Ink(x, y) {
				n++
			}
		}
	}
	return n
}

// Display is an in-memory e-paper panel. Every Display call snapshots the
// buffer into Frames.
type Display struct {
	tr *Trace

	mu     sync.Mutex
	buf    pixel.Image[pixel.Monochrome]
	fast   bool
	off    bool
	frames []Frame
}

func NewDisplay(w, h int16, tr *Trace) *Display {
	d := &Display{tr: tr, buf: pixel.NewImage[pixel.Monochrome](int(w), int(h))}
	d.buf.FillSolidColor(true)
	return d
}

func (d *Display) Size() (x, y int16) {
	w, h := d.buf.Size()
	return int16(w), int16(h)
}

func (d *Display) SetPixel(x, y int16, c color.RGBA) {
	w, h := d.buf.Size()
	if x < 0 || y < 0 || int(x) >= w || int(y) >= h {
		return
	}
	d.mu.Lock()
	d.buf.Set(int(x), int(y), pixel.Monochrome(!halcore.IsInk(c)))
	d.mu.Unlock()
}

func (d *Display) ClearBuffer() {
	d.mu.Lock()
	d.buf.FillSolidColor(true)
	d.mu.Unlock()
}

func (d *Display) SetFastRefresh(fast bool) {
	d.mu.Lock()
	d.fast = fast
	d.mu.Unlock()
}

func (d *Display) Display() error {
	d.mu.Lock()
	if d.off {
		d.mu.Unlock()
		return ErrPoweredOff
	}
	w, h := d.buf.Size()
	raw := append([]byte(nil), d.buf.RawBuffer()...)
	d.frames = append(d.frames, Frame{Fast: d.fast, Image: pixel.NewImageFromBytes[pixel.Monochrome](w, h, raw)})
	fast := d.fast
	d.mu.Unlock()
	if fast {
		d.tr.Add("display.refresh.fast")
	} else {
		d.tr.Add("display.refresh.full")
	}
	return nil
}

func (d *Display) PowerOff() error {
	d.mu.Lock()
	d.off = true
	d.mu.Unlock()
	d.tr.Add("display.off")
	return nil
}

func (d *Display) Frames() []Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Frame(nil), d.frames...)
}

// Last returns the most recent frame, ok=false when nothing was displayed.
func (d *Display) Last() (Frame, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.frames) == 0 {
		return Frame{}, false
	}
	return d.frames[len(d.frames)-1], true
}

func (d *Display) PoweredOff() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.off
}
