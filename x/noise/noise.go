// Package noise synthesises the grayscale field painted on the display
// before sleep: two warp functions displace the sample point of a
// lower-frequency sine/cosine pair, a radial cosine around a jittered centre
// adds large-scale structure, and a smoothstep curve pushes the result
// toward black and white so it dithers with contrast.
package noise

import (
	"math"

	"handheld-go/errcode"
	"handheld-go/x/mathx"
)

// Parameter bounds. Keeping frequencies and warp inside these ranges keeps
// the pattern free of aliasing on small panels.
const (
	MinFreq = 0.005
	MaxFreq = 0.08
	MinWarp = 20
	MaxWarp = 79

	// MaxDomainOffset bounds OX/OY; the offsets only shift the phase.
	MaxDomainOffset = 1000

	radialGain = 0.5
	// base in [-2,2] plus radial in [-0.5,0.5].
	signalSpan = 2 + radialGain
)

// MaxPixels caps a single field allocation (one byte per pixel). Larger
// requests fail with errcode.AllocFailed instead of exhausting the heap.
// Boards with a tighter heap lower it at startup.
var MaxPixels = 400 * 300

// Params is one draw of the pattern parameters.
type Params struct {
	F1, F2 float64 // warp frequencies
	F3     float64 // base (lower) frequency
	FR     float64 // radial frequency
	Warp   float64 // warp amplitude in pixels
	CX, CY float64 // centre offset from the true centre, pixels
	OX, OY float64 // domain offsets
}

// Valid reports whether p respects the bounds for a w×h canvas.
func (p Params) Valid(w, h int) bool {
	for _, f := range [...]float64{p.F1, p.F2, p.F3, p.FR} {
		if !mathx.Between(f, MinFreq, MaxFreq) {
			return false
		}
	}
	if !mathx.Between(p.Warp, MinWarp, MaxWarp) {
		return false
	}
	if math.Abs(p.CX) > float64(w)/4 || math.Abs(p.CY) > float64(h)/4 {
		return false
	}
	return mathx.Between(p.OX, 0, MaxDomainOffset) && mathx.Between(p.OY, 0, MaxDomainOffset)
}

// Field is a W×H grayscale image, row-major, one byte per pixel
// (0 black, 255 white).
type Field struct {
	W, H int
	V    []uint8
}

// NewField allocates a zeroed field.
func NewField(w, h int) (*Field, error) {
	if w <= 0 || h <= 0 || w > MaxPixels/h {
		return nil, &errcode.E{C: errcode.AllocFailed, Op: "noise.field"}
	}
	return &Field{W: w, H: h, V: make([]uint8, w*h)}, nil
}

// At returns the level at (x, y) in [0,1].
func (f *Field) At(x, y int) float32 { return float32(f.V[y*f.W+x]) / 255 }

// Set stores v, clamped to [0,1].
func (f *Field) Set(x, y int, v float32) { f.V[y*f.W+x] = toLevel(float64(v)) }

func toLevel(v float64) uint8 { return uint8(mathx.Clamp(v, 0, 1)*255 + 0.5) }

// Generate renders the warped pattern for p. Invalid parameters are
// rejected so a faulty source can never produce a blown-out frame.
func Generate(w, h int, p Params) (*Field, error) {
	if !p.Valid(w, h) {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "noise.generate"}
	}
	f, err := NewField(w, h)
	if err != nil {
		return nil, err
	}
	cx := float64(w)/2 + p.CX
	cy := float64(h)/2 + p.CY
	for y := 0; y < h; y++ {
		fy := float64(y)
		for x := 0; x < w; x++ {
			fx := float64(x)
			f.V[y*w+x] = toLevel(sample(fx, fy, cx, cy, p))
		}
	}
	return f, nil
}

func sample(x, y, cx, cy float64, p Params) float64 {
	dx, dy := x+p.OX, y+p.OY
	wx := math.Sin(dx*p.F1) * math.Cos(dy*p.F2) * p.Warp
	wy := math.Cos(dx*p.F2) * math.Sin(dy*p.F1) * p.Warp

	base := math.Sin((x+wx)*p.F3) + math.Cos((y+wy)*p.F3)
	radial := radialGain * math.Cos(math.Hypot(x-cx, y-cy)*p.FR)

	v := (base + radial + signalSpan) / (2 * signalSpan)
	return mathx.Smoothstep(mathx.Clamp(v, 0, 1))
}
