package noise

import (
	"math"

	"handheld-go/x/mathx"
)

// ParamSource supplies the parameters for one frame. Production draws from
// the hardware RNG; tests substitute Fixed.
type ParamSource interface {
	Params(w, h int) Params
}

// Uint32Source is the hardware generator contract (halcore.Random).
type Uint32Source interface {
	Uint32() uint32
}

// RandomSource draws every parameter fresh from Rand, so every power-off
// shows a different pattern.
type RandomSource struct {
	Rand Uint32Source
}

func (s RandomSource) unit() float64 {
	return float64(s.Rand.Uint32()) / (math.MaxUint32 + 1.0)
}

func (s RandomSource) Params(w, h int) Params {
	p := Params{
		F1:   mathx.Lerp(s.unit(), MinFreq, MaxFreq),
		F2:   mathx.Lerp(s.unit(), MinFreq, MaxFreq),
		FR:   mathx.Lerp(s.unit(), MinFreq, MaxFreq),
		Warp: math.Floor(mathx.Lerp(s.unit(), MinWarp, MaxWarp+1)),
		CX:   mathx.Lerp(s.unit(), -1, 1) * float64(w) / 4,
		CY:   mathx.Lerp(s.unit(), -1, 1) * float64(h) / 4,
		OX:   s.unit() * MaxDomainOffset,
		OY:   s.unit() * MaxDomainOffset,
	}
	p.Warp = mathx.Clamp(p.Warp, MinWarp, MaxWarp)
	p.F3 = mathx.Max(math.Min(p.F1, p.F2)/2, MinFreq)
	return p
}

// Fixed always returns P.
type Fixed struct{ P Params }

func (f Fixed) Params(int, int) Params { return f.P }

// Draw is the generator entry point: parameters from src, then Generate.
func Draw(src ParamSource, w, h int) (*Field, Params, error) {
	p := src.Params(w, h)
	f, err := Generate(w, h, p)
	return f, p, err
}
