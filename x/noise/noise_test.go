package noise

import (
	"errors"
	"testing"

	"handheld-go/errcode"
)

var testParams = Params{
	F1: 0.061, F2: 0.047, F3: 0.03, FR: 0.045,
	Warp: 42, CX: 6, CY: -7, OX: 123.4, OY: 567.8,
}

// lcg is a deterministic Uint32Source.
type lcg struct{ s uint32 }

func (l *lcg) Uint32() uint32 {
	l.s = l.s*1664525 + 1013904223
	return l.s
}

// edge always returns the same raw value.
type edge uint32

func (e edge) Uint32() uint32 { return uint32(e) }

func TestGenerateRangeAndDeterminism(t *testing.T) {
	a, err := Generate(64, 48, testParams)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, _ := Generate(64, 48, testParams)
	if a.W != 64 || a.H != 48 || len(a.V) != 64*48 {
		t.Fatalf("bad dims %dx%d len=%d", a.W, a.H, len(a.V))
	}
	for i, v := range a.V {
		if v != b.V[i] {
			t.Fatalf("fixed params must be reproducible (index %d)", i)
		}
	}
}

func TestGenerateHasContrast(t *testing.T) {
	f, err := Generate(128, 96, testParams)
	if err != nil {
		t.Fatal(err)
	}
	var dark, light int
	for _, v := range f.V {
		if v < 51 {
			dark++
		}
		if v > 204 {
			light++
		}
	}
	if dark == 0 || light == 0 {
		t.Fatalf("expected both dark and light regions, dark=%d light=%d", dark, light)
	}
}

func TestGenerateRejectsOutOfRangeParams(t *testing.T) {
	cases := map[string]func(p *Params){
		"freq too high":  func(p *Params) { p.F1 = 0.5 },
		"freq too low":   func(p *Params) { p.FR = 0.001 },
		"warp too small": func(p *Params) { p.Warp = 5 },
		"warp too large": func(p *Params) { p.Warp = 80 },
		"centre too far": func(p *Params) { p.CX = 17 }, // 64/4 = 16
		"offset":         func(p *Params) { p.OY = -1 },
	}
	for name, mut := range cases {
		p := testParams
		mut(&p)
		if _, err := Generate(64, 48, p); errcode.Of(err) != errcode.InvalidParams {
			t.Fatalf("%s: expected invalid_params, got %v", name, err)
		}
	}
}

// The shared fixture is used on every canvas below; it must stay valid on
// the smallest of them.
func TestFixtureFitsEveryCanvas(t *testing.T) {
	for _, c := range [][2]int{{32, 32}, {64, 48}, {128, 96}} {
		if !testParams.Valid(c[0], c[1]) {
			t.Fatalf("fixture invalid on %dx%d", c[0], c[1])
		}
	}
	p := testParams
	p.CX = 9 // 32/4 = 8
	if p.Valid(32, 32) || !p.Valid(64, 48) {
		t.Fatal("centre bound should scale with canvas width")
	}
}

func TestFieldStoresOneBytePerPixel(t *testing.T) {
	// A 40 KiB budget, as on the nRF52840 board, holds the full panel.
	prev := MaxPixels
	MaxPixels = 40 * 1024
	defer func() { MaxPixels = prev }()

	f, err := NewField(296, 128)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.V) != 296*128 {
		t.Fatalf("len %d", len(f.V))
	}
	f.Set(3, 2, 2)
	f.Set(4, 2, -1)
	f.Set(5, 2, 0.5)
	if f.At(3, 2) != 1 || f.At(4, 2) != 0 || f.V[2*296+5] != 128 {
		t.Fatalf("levels %v %v %v", f.At(3, 2), f.At(4, 2), f.V[2*296+5])
	}
}

func TestNewFieldAllocationLimit(t *testing.T) {
	prev := MaxPixels
	MaxPixels = 100
	defer func() { MaxPixels = prev }()

	if _, err := NewField(20, 10); !errors.Is(err, errcode.AllocFailed) {
		t.Fatalf("expected alloc_failed, got %v", err)
	}
	if _, err := NewField(0, 10); !errors.Is(err, errcode.AllocFailed) {
		t.Fatalf("zero width should fail, got %v", err)
	}
	if _, err := NewField(10, 10); err != nil {
		t.Fatalf("exact limit should fit: %v", err)
	}
}

func TestRandomSourceStaysInBounds(t *testing.T) {
	const w, h = 296, 128
	src := RandomSource{Rand: &lcg{s: 7}}
	for i := 0; i < 500; i++ {
		if p := src.Params(w, h); !p.Valid(w, h) {
			t.Fatalf("draw %d out of bounds: %+v", i, p)
		}
	}
	for _, raw := range []uint32{0, 0xFFFFFFFF} {
		if p := (RandomSource{Rand: edge(raw)}).Params(w, h); !p.Valid(w, h) {
			t.Fatalf("extreme raw %#x out of bounds: %+v", raw, p)
		}
	}
}

func TestRandomSourceVariesBetweenCalls(t *testing.T) {
	src := RandomSource{Rand: &lcg{s: 1}}
	if src.Params(100, 100) == src.Params(100, 100) {
		t.Fatal("successive draws should differ")
	}
}

func TestDrawUsesSource(t *testing.T) {
	f, p, err := Draw(Fixed{P: testParams}, 32, 32)
	if err != nil {
		t.Fatal(err)
	}
	if p != testParams || f.W != 32 {
		t.Fatalf("unexpected draw result %+v", p)
	}
}
