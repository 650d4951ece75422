package specfun

import (
	"math"
	"testing"
)

func TestGammaPAgainstClosedForms(t *testing.T) {
	// P(1, x) = 1 - exp(-x) and P(1/2, x) = erf(√x).
	for _, x := range []float64{1e-6, 0.1, 0.5, 1, 2, 5, 10, 30} {
		if got, want := GammaP(1, x), 1-math.Exp(-x); math.Abs(got-want) > 1e-12 {
			t.Errorf("P(1, %v) = %v, want %v", x, got, want)
		}
		if got, want := GammaP(0.5, x), math.Erf(math.Sqrt(x)); math.Abs(got-want) > 1e-12 {
			t.Errorf("P(0.5, %v) = %v, want %v", x, got, want)
		}
	}
}

func TestGammaPBoundaries(t *testing.T) {
	if GammaP(2.5, 0) != 0 {
		t.Error("P(a, 0) should be 0")
	}
	if GammaP(2.5, -1) != 0 {
		t.Error("P(a, x<0) should be 0")
	}
	if got := GammaP(2.5, math.Inf(1)); got != 1 {
		t.Errorf("P(a, ∞) = %v, want 1", got)
	}
	if got := GammaP(2.25, 1e4); math.Abs(got-1) > 1e-12 {
		t.Errorf("P(a, large) = %v, want ≈ 1", got)
	}
}

func TestGammaPMonotonic(t *testing.T) {
	prev := 0.0
	for x := 0.1; x < 20; x += 0.1 {
		p := GammaP(2.25, x)
		if p < prev {
			t.Fatalf("P(2.25, ·) not monotonic at %v", x)
		}
		prev = p
	}
}
