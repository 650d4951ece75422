package dist

import (
	"errors"
	"testing"

	"ETF-Sampler/etf"
	"ETF-Sampler/internal/disttest"
	"ETF-Sampler/internal/specfun"
)

func chiSquaredCdf(x, k float64) float64 {
	return specfun.GammaP(0.5*k, 0.5*x)
}

func TestChiSquaredBadDof(t *testing.T) {
	if _, err := NewChiSquared[float64](0); !errors.Is(err, ErrBadDof) {
		t.Fatalf("got %v, want ErrBadDof", err)
	}
	if _, err := NewChiSquared[float32](-2); !errors.Is(err, ErrBadDof) {
		t.Fatalf("got %v, want ErrBadDof", err)
	}
}

func TestChiSquared32FitK2(t *testing.T) {
	k := 2.0
	d, err := NewChiSquared[float32](float32(k))
	if err != nil {
		t.Fatal(err)
	}
	disttest.GoodnessOfFit(t,
		func(src etf.Source) float64 { return float64(d.Sample(src)) },
		func(x float64) float64 { return chiSquaredCdf(x, k) },
		0, 25,
		fitSampleCount(10_000_000, t),
		401,
		0.01,
	)
}

func TestChiSquared32CollisionsK2(t *testing.T) {
	k := 2.0
	d, err := NewChiSquared[float32](float32(k))
	if err != nil {
		t.Fatal(err)
	}
	disttest.Collisions(t,
		func(src etf.Source) float64 { return float64(d.Sample(src)) },
		func(x float64) float64 { return chiSquaredCdf(x, k) },
		collisionDimension(t),
		64,
		10,
		0.05,
	)
}

func TestChiSquared64FitK4Point5(t *testing.T) {
	k := 4.5
	d, err := NewChiSquared[float64](k)
	if err != nil {
		t.Fatal(err)
	}
	disttest.GoodnessOfFit(t,
		func(src etf.Source) float64 { return d.Sample(src) },
		func(x float64) float64 { return chiSquaredCdf(x, k) },
		0, 25,
		fitSampleCount(10_000_000, t),
		401,
		0.01,
	)
}
