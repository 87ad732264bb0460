package dither

import (
	"math"
	"testing"

	"handheld-go/x/noise"
)

func constField(w, h int, v float32) *noise.Field {
	f, _ := noise.NewField(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, v)
		}
	}
	return f
}

// xorshift gives reproducible pseudo-random fields.
type xorshift uint32

func (s *xorshift) next() float32 {
	x := uint32(*s)
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	*s = xorshift(x)
	return float32(x) / float32(math.MaxUint32)
}

func randomField(w, h int, seed uint32) *noise.Field {
	f, _ := noise.NewField(w, h)
	s := xorshift(seed)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, s.next())
		}
	}
	return f
}

func TestVisitsEveryPixelOnceRowMajor(t *testing.T) {
	const w, h = 7, 5
	f := constField(w, h, 0.3)
	next := 0
	FloydSteinberg(f, func(x, y int, _ bool) {
		if y*w+x != next {
			t.Fatalf("visit (%d,%d) out of order, expected index %d", x, y, next)
		}
		next++
	})
	if next != w*h {
		t.Fatalf("visited %d pixels, want %d", next, w*h)
	}
}

func TestExtremesStaySolid(t *testing.T) {
	for _, c := range []struct {
		v    float32
		want bool
	}{{0, false}, {1, true}} {
		FloydSteinberg(constField(16, 16, c.v), func(x, y int, on bool) {
			if on != c.want {
				t.Fatalf("value %v produced %v at (%d,%d)", c.v, on, x, y)
			}
		})
	}
}

func TestMidGrayIsHalfOn(t *testing.T) {
	const w, h = 32, 32
	on := 0
	FloydSteinberg(constField(w, h, 0.5), func(_, _ int, b bool) {
		if b {
			on++
		}
	})
	if on < w*h*45/100 || on > w*h*55/100 {
		t.Fatalf("50%% gray gave %d/%d lit pixels", on, w*h)
	}
}

func TestKnownPattern(t *testing.T) {
	// 2x2 field of levels 153,102 / 102,102, in 1/16 steps:
	// (0,0)=2448 -> on, e=-1632: (1,0)=1632-714=918, (0,1)=1632-510, (1,1)=1632-102
	// (1,0)=918 -> off: (0,1) gets +172, (1,1) gets +286
	// (0,1)=1294 -> off: (1,1) gets +566, reaching 2382 -> on
	f, _ := noise.NewField(2, 2)
	copy(f.V, []uint8{153, 102, 102, 102})
	var got []bool
	FloydSteinberg(f, func(_, _ int, on bool) { got = append(got, on) })
	want := []bool{true, false, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pixel %d: got %v want %v (all=%v)", i, got[i], want[i], got)
		}
	}
}

func TestDeterministicForSameField(t *testing.T) {
	p := noise.Params{F1: 0.05, F2: 0.02, F3: 0.01, FR: 0.03, Warp: 33, OX: 10, OY: 20}
	a, err := noise.Generate(60, 40, p)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := noise.Generate(60, 40, p)
	ia, ib := ToImage(a), ToImage(b)
	for y := 0; y < 40; y++ {
		for x := 0; x < 60; x++ {
			if ia.Get(x, y) != ib.Get(x, y) {
				t.Fatalf("bit pattern differs at (%d,%d)", x, y)
			}
		}
	}
}

// Error never accumulates: a row's summed quantisation error is bounded by
// what it passes down plus what it received from above (9/16 of the
// half-level per-pixel bound on each side).
func TestRowErrorBounded(t *testing.T) {
	for seed := uint32(1); seed <= 20; seed++ {
		const w, h = 64, 32
		f := randomField(w, h, seed)
		before := append([]uint8(nil), f.V...)
		rowErr := make([]float64, h)
		FloydSteinberg(f, func(x, y int, on bool) {
			var q float32
			if on {
				q = 1
			}
			rowErr[y] += float64(f.At(x, y) - q)
		})
		bound := 2 * (9.0 / 16) * 0.5 * w
		for y, e := range rowErr {
			if math.Abs(e) > bound {
				t.Fatalf("seed %d row %d: |sum(original-chosen)|=%.3f exceeds %.1f", seed, y, math.Abs(e), bound)
			}
		}
		for i := range before {
			if before[i] != f.V[i] {
				t.Fatalf("seed %d: field modified at %d", seed, i)
			}
		}
	}
}

func TestToImageSize(t *testing.T) {
	img := ToImage(constField(9, 4, 1))
	w, h := img.Size()
	if w != 9 || h != 4 {
		t.Fatalf("image size %dx%d", w, h)
	}
	if !bool(img.Get(8, 3)) {
		t.Fatal("white field should give white pixels")
	}
}
