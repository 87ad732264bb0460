package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Between reports lo <= v && v <= hi (order-insensitive).
func Between[T constraints.Ordered](v, lo, hi T) bool {
	if hi < lo {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

// Lerp maps u in [0,1] onto [lo, hi]. u is clamped first.
func Lerp[T constraints.Float](u, lo, hi T) T {
	u = Clamp(u, 0, 1)
	return lo + (hi-lo)*u
}

// Scale maps v in [0, inMax] onto [0, outMax] with integer rounding down.
// v is clamped to the input range; inMax <= 0 yields 0.
func Scale[T constraints.Integer](v, inMax, outMax T) T {
	if inMax <= 0 {
		return 0
	}
	v = Clamp(v, 0, inMax)
	return v * outMax / inMax
}

// Smoothstep applies v*v*(3-2v) to v clamped to [0,1].
func Smoothstep[T constraints.Float](v T) T {
	v = Clamp(v, 0, 1)
	return v * v * (3 - 2*v)
}

// Min/Max for convenience.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
