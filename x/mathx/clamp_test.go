package mathx

import "testing"

func TestClampAndBetween(t *testing.T) {
	cases := []struct {
		v, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{5, 10, 0, 5}, // swapped bounds
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Fatalf("Clamp(%d,%d,%d)=%d want %d", c.v, c.lo, c.hi, got, c.want)
		}
	}
	if !Between(0.5, 1.0, 0.0) {
		t.Fatal("Between should ignore bound order")
	}
	if Between(2, 0, 1) {
		t.Fatal("2 is not in [0,1]")
	}
}

func TestScale(t *testing.T) {
	if got := Scale(50, 100, 22); got != 11 {
		t.Fatalf("Scale(50,100,22)=%d want 11", got)
	}
	if got := Scale(150, 100, 22); got != 22 {
		t.Fatalf("over-range input should clamp, got %d", got)
	}
	if got := Scale(10, 0, 22); got != 0 {
		t.Fatalf("zero input range should yield 0, got %d", got)
	}
}

func TestSmoothstep(t *testing.T) {
	if Smoothstep(0.0) != 0 || Smoothstep(1.0) != 1 {
		t.Fatal("smoothstep must keep the end points")
	}
	if got := Smoothstep(0.5); got != 0.5 {
		t.Fatalf("smoothstep(0.5)=%v want 0.5", got)
	}
	if Smoothstep(0.25) >= 0.25 || Smoothstep(0.75) <= 0.75 {
		t.Fatal("smoothstep should push values toward the extremes")
	}
	if Smoothstep(-3.0) != 0 || Smoothstep(7.0) != 1 {
		t.Fatal("out of range input should clamp")
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(0.5, 20.0, 80.0); got != 50 {
		t.Fatalf("Lerp=%v want 50", got)
	}
	if got := Lerp(2.0, 20.0, 80.0); got != 80 {
		t.Fatalf("Lerp should clamp u, got %v", got)
	}
}
