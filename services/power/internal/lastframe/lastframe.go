// Package lastframe paints what the e-paper panel keeps showing once the
// device is asleep: a short status box, then a dithered noise pattern with
// a battery and wake-hint bar.
package lastframe

import (
	"context"
	"strconv"
	"time"

	"handheld-go/services/hal/halcore"
	"handheld-go/x/dither"
	"handheld-go/x/logx"
	"handheld-go/x/mathx"
	"handheld-go/x/noise"

	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	DefaultStatusHold = time.Second
	DefaultBarHeight  = 16
	DefaultWakeHint   = "hold SELECT to wake"
	DefaultStatus     = "Sleeping..."
)

type Config struct {
	StatusHold time.Duration
	BarHeight  int16
	WakeHint   string
}

func (c Config) withDefaults() Config {
	if c.StatusHold <= 0 {
		c.StatusHold = DefaultStatusHold
	}
	if c.BarHeight <= 0 {
		c.BarHeight = DefaultBarHeight
	}
	if c.WakeHint == "" {
		c.WakeHint = DefaultWakeHint
	}
	return c
}

// Box geometry for the status frame.
const (
	boxPadX   = 12
	boxPadY   = 10
	boxRadius = 6
	shadow    = 3
	labelAsc  = 13 // freemono 9pt cap height, roughly
)

// Battery glyph geometry inside the bar.
const (
	battX    = 4
	battW    = 24
	battNubW = 2
	battGap  = 2
)

type Painter struct {
	d     halcore.Display
	clock halcore.Clock
	src   noise.ParamSource
	batt  halcore.Battery
	cfg   Config
	log   *logx.Logger
}

func New(d halcore.Display, clock halcore.Clock, src noise.ParamSource, batt halcore.Battery, cfg Config, log *logx.Logger) *Painter {
	return &Painter{d: d, clock: clock, src: src, batt: batt, cfg: cfg.withDefaults(), log: log}
}

// Paint shows the status box, holds it briefly, then paints the final
// frame. It reports whether the final frame made it to the panel. A
// cancelled ctx only skips the pause.
func (p *Painter) Paint(ctx context.Context, status string) bool {
	if err := p.StatusFrame(status); err != nil {
		p.log.Warnf("status frame: %v", err)
	}
	if ctx.Err() == nil {
		p.clock.Sleep(p.cfg.StatusHold)
	}
	ok, err := p.FinalFrame()
	if err != nil {
		p.log.Warnf("final frame: %v", err)
	}
	return ok
}

// StatusFrame draws a centred rounded box with a drop shadow and label
// over the current screen and pushes it with a fast refresh.
func (p *Painter) StatusFrame(label string) error {
	w, h := p.d.Size()
	inner, _ := tinyfont.LineWidth(&freemono.Regular9pt7b, label)
	bw := int16(inner) + 2*boxPadX
	bh := int16(labelAsc) + 2*boxPadY
	bw = mathx.Min(bw, w-2*shadow)
	x := (w - bw) / 2
	y := (h - bh) / 2

	if err := roundedBox(p.d, x+shadow, y+shadow, bw, bh, boxRadius, halcore.Ink); err != nil {
		return err
	}
	if err := roundedBox(p.d, x, y, bw, bh, boxRadius, halcore.Paper); err != nil {
		return err
	}
	if err := roundedOutline(p.d, x, y, bw, bh, boxRadius, halcore.Ink); err != nil {
		return err
	}
	tinyfont.WriteLine(p.d, &freemono.Regular9pt7b, x+boxPadX, y+boxPadY+labelAsc, label, halcore.Ink)

	p.d.SetFastRefresh(true)
	return p.d.Display()
}

// FinalFrame fills the panel with a fresh dithered pattern and the status
// bar. When the field cannot be allocated nothing is drawn and ok is false;
// the panel keeps the status frame.
func (p *Painter) FinalFrame() (ok bool, err error) {
	w, h := p.d.Size()
	f, params, err := noise.Draw(p.src, int(w), int(h))
	if err != nil {
		p.log.Warnf("no pattern: %v", err)
		return false, nil
	}
	p.log.Infof("pattern f1=%.4f f2=%.4f warp=%.0f", params.F1, params.F2, params.Warp)

	dither.FloydSteinberg(f, func(x, y int, on bool) {
		c := halcore.Ink
		if on {
			c = halcore.Paper
		}
		p.d.SetPixel(int16(x), int16(y), c)
	})
	if err := p.statusBar(w, h); err != nil {
		return false, err
	}
	p.d.SetFastRefresh(false)
	if err := p.d.Display(); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Painter) statusBar(w, h int16) error {
	bar := p.cfg.BarHeight
	y := h - bar
	if err := tinydraw.FilledRectangle(p.d, 0, y, w, bar, halcore.Paper); err != nil {
		return err
	}
	tinydraw.Line(p.d, 0, y, w-1, y, halcore.Ink)

	pct, have := -1, false
	if p.batt != nil {
		pct, have = p.batt.Percent()
	}
	by, bh := y+3, bar-5
	if err := tinydraw.Rectangle(p.d, battX, by, battW, bh, halcore.Ink); err != nil {
		return err
	}
	if err := tinydraw.FilledRectangle(p.d, battX+battW, by+bh/2-2, battNubW, 4, halcore.Ink); err != nil {
		return err
	}
	text := "--%"
	if have {
		pct = mathx.Clamp(pct, 0, 100)
		if fill := int16(mathx.Scale(pct, 100, battW-2*battGap)); fill > 0 {
			if err := tinydraw.FilledRectangle(p.d, battX+battGap, by+battGap, fill, bh-2*battGap, halcore.Ink); err != nil {
				return err
			}
		}
		text = strconv.Itoa(pct) + "%"
	}
	base := h - 4
	tinyfont.WriteLine(p.d, &proggy.TinySZ8pt7b, battX+battW+battNubW+4, base, text, halcore.Ink)

	hw, _ := tinyfont.LineWidth(&proggy.TinySZ8pt7b, p.cfg.WakeHint)
	tinyfont.WriteLine(p.d, &proggy.TinySZ8pt7b, w-int16(hw)-4, base, p.cfg.WakeHint, halcore.Ink)
	return nil
}
