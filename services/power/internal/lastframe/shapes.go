package lastframe

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
)

// roundedBox fills a w×h box with corners of radius r.
func roundedBox(d drivers.Displayer, x, y, w, h, r int16, c color.RGBA) error {
	if r*2 > w || r*2 > h {
		return tinydraw.FilledRectangle(d, x, y, w, h, c)
	}
	if err := tinydraw.FilledRectangle(d, x+r, y, w-2*r, h, c); err != nil {
		return err
	}
	if err := tinydraw.FilledRectangle(d, x, y+r, r, h-2*r, c); err != nil {
		return err
	}
	if err := tinydraw.FilledRectangle(d, x+w-r, y+r, r, h-2*r, c); err != nil {
		return err
	}
	tinydraw.FilledCircle(d, x+r, y+r, r, c)
	tinydraw.FilledCircle(d, x+w-r-1, y+r, r, c)
	tinydraw.FilledCircle(d, x+r, y+h-r-1, r, c)
	tinydraw.FilledCircle(d, x+w-r-1, y+h-r-1, r, c)
	return nil
}

// roundedOutline strokes the edge of the same shape roundedBox fills.
func roundedOutline(d drivers.Displayer, x, y, w, h, r int16, c color.RGBA) error {
	if r*2 > w || r*2 > h {
		return tinydraw.Rectangle(d, x, y, w, h, c)
	}
	tinydraw.Line(d, x+r, y, x+w-r-1, y, c)
	tinydraw.Line(d, x+r, y+h-1, x+w-r-1, y+h-1, c)
	tinydraw.Line(d, x, y+r, x, y+h-r-1, c)
	tinydraw.Line(d, x+w-1, y+r, x+w-1, y+h-r-1, c)
	arc(d, x+r, y+r, r, -1, -1, c)
	arc(d, x+w-r-1, y+r, r, 1, -1, c)
	arc(d, x+r, y+h-r-1, r, -1, 1, c)
	arc(d, x+w-r-1, y+h-r-1, r, 1, 1, c)
	return nil
}

// arc draws one quadrant of a midpoint circle; sx, sy pick the quadrant.
func arc(d drivers.Displayer, cx, cy, r, sx, sy int16, c color.RGBA) {
	x, y := r, int16(0)
	e := 1 - r
	for x >= y {
		d.SetPixel(cx+sx*x, cy+sy*y, c)
		d.SetPixel(cx+sx*y, cy+sy*x, c)
		y++
		if e < 0 {
			e += 2*y + 1
		} else {
			x--
			e += 2*(y-x) + 1
		}
	}
}
