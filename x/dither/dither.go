// Package dither reduces a grayscale noise.Field to one bit per pixel with
// Floyd–Steinberg error diffusion.
package dither

import (
	"handheld-go/x/noise"

	"tinygo.org/x/drivers/pixel"
)

// Working values are gray levels scaled by 16 so the 7/16, 3/16, 5/16 and
// 1/16 shares stay integral.
const (
	white     = 255 * 16
	threshold = 128 * 16
)

// FloydSteinberg visits every pixel once in row-major order, emits the
// nearest level through set (true = white) and pushes the quantisation error
// onto the unvisited neighbours: 7/16 right, 3/16 below-left, 5/16 below,
// 1/16 below-right. f is not modified; pending error lives in two row
// buffers of W+2 entries.
func FloydSteinberg(f *noise.Field, set func(x, y int, on bool)) {
	// Index x+1 holds column x; the ends absorb spill past the edges.
	cur := make([]int32, f.W+2)
	next := make([]int32, f.W+2)
	for y := 0; y < f.H; y++ {
		row := f.V[y*f.W : (y+1)*f.W]
		for x := 0; x < f.W; x++ {
			v := int32(row[x])*16 + cur[x+1]/16
			on := v >= threshold
			set(x, y, on)
			e := v
			if on {
				e -= white
			}
			cur[x+2] += e * 7
			next[x] += e * 3
			next[x+1] += e * 5
			next[x+2] += e
		}
		cur, next = next, cur
		clear(next)
	}
}

// ToImage dithers f into a monochrome image (true = white) sized to the
// field.
func ToImage(f *noise.Field) pixel.Image[pixel.Monochrome] {
	img := pixel.NewImage[pixel.Monochrome](f.W, f.H)
	FloydSteinberg(f, func(x, y int, on bool) {
		img.Set(x, y, pixel.Monochrome(on))
	})
	return img
}
