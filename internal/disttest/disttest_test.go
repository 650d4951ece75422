package disttest

import "testing"

func TestHistogramBinningAndResidual(t *testing.T) {
	h := NewHistogram(0, 10, 10)
	h.Add(0.5)
	h.Add(9.99)
	h.Add(-1)
	h.Add(10)
	if h.bins[0] != 1 || h.bins[9] != 1 {
		t.Fatalf("bins miscounted: %v", h.bins)
	}
	if h.residual != 2 {
		t.Fatalf("residual %d, want 2", h.residual)
	}
}

func TestChiSquareTestOnUniform(t *testing.T) {
	// Exact expected counts give a χ² of zero and a P-value near one.
	h := NewHistogram(0, 1, 10)
	for i := 0; i < 10; i++ {
		h.bins[i] = 1000
	}
	p := h.ChiSquareTest(func(x float64) float64 { return x })
	if p < 0.9 {
		t.Fatalf("P-value %v for a perfect fit", p)
	}
}

func TestCollisionPValueDegenerateCases(t *testing.T) {
	// With vastly more urns than balls, zero collisions is unremarkable.
	if p := collisionPValue(1<<20, 1<<6, 0); p < 0.5 {
		t.Fatalf("P-value %v for no collisions in a sparse setting", p)
	}
	// An impossible collision count has probability zero.
	if p := collisionPValue(1<<20, 1<<6, 1<<6); p != 0 {
		t.Fatalf("P-value %v for all-collisions", p)
	}
}

func TestSourceDeterministic(t *testing.T) {
	a, b := Source(), Source()
	for i := 0; i < 100; i++ {
		if a.Uint64() != b.Uint64() {
			t.Fatal("test source is not reproducible")
		}
		if a.Uint32() != b.Uint32() {
			t.Fatal("test source is not reproducible across word widths")
		}
	}
}
