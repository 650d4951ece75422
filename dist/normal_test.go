package dist

import (
	"errors"
	"math"
	"testing"

	"ETF-Sampler/etf"
	"ETF-Sampler/internal/disttest"
)

func normalCdf(x, mean, stdDev float64) float64 {
	return 0.5 * (1 + math.Erf(math.Sqrt(0.5)*(x-mean)/stdDev))
}

func fitSampleCount(full uint64, t *testing.T) uint64 {
	if testing.Short() {
		return full / 10
	}
	return full
}

func collisionDimension(t *testing.T) uint {
	if testing.Short() {
		return 16
	}
	return 20
}

func TestNormalBadStdDev(t *testing.T) {
	if _, err := NewNormal[float64](0, 0); !errors.Is(err, ErrBadStdDev) {
		t.Fatalf("got %v, want ErrBadStdDev", err)
	}
	if _, err := NewNormal[float32](0, -1); !errors.Is(err, ErrBadStdDev) {
		t.Fatalf("got %v, want ErrBadStdDev", err)
	}
	if _, err := NewCentralNormal[float64](-0.5); !errors.Is(err, ErrBadStdDev) {
		t.Fatalf("got %v, want ErrBadStdDev", err)
	}
}

func TestCentralNormal64Fit(t *testing.T) {
	stdDev := 0.7
	d, err := NewCentralNormal[float64](stdDev)
	if err != nil {
		t.Fatal(err)
	}
	disttest.GoodnessOfFit(t,
		func(src etf.Source) float64 { return d.Sample(src) },
		func(x float64) float64 { return normalCdf(x, 0, stdDev) },
		-2.8, 2.8,
		fitSampleCount(10_000_000, t),
		401,
		0.01,
	)
}

func TestNormal64Fit(t *testing.T) {
	mean, stdDev := 2.2, 3.4
	d, err := NewNormal[float64](mean, stdDev)
	if err != nil {
		t.Fatal(err)
	}
	disttest.GoodnessOfFit(t,
		func(src etf.Source) float64 { return d.Sample(src) },
		func(x float64) float64 { return normalCdf(x, mean, stdDev) },
		mean-4*stdDev, mean+4*stdDev,
		fitSampleCount(10_000_000, t),
		401,
		0.01,
	)
}

func TestNormal32Collisions(t *testing.T) {
	mean, stdDev := -1.7, 2.8
	d, err := NewNormal[float32](float32(mean), float32(stdDev))
	if err != nil {
		t.Fatal(err)
	}
	disttest.Collisions(t,
		func(src etf.Source) float64 { return float64(d.Sample(src)) },
		func(x float64) float64 { return normalCdf(x, mean, stdDev) },
		collisionDimension(t),
		64,
		10,
		0.05,
	)
}

func TestNormal32Fit(t *testing.T) {
	mean, stdDev := 2.2, 3.4
	d, err := NewNormal[float32](float32(mean), float32(stdDev))
	if err != nil {
		t.Fatal(err)
	}
	disttest.GoodnessOfFit(t,
		func(src etf.Source) float64 { return float64(d.Sample(src)) },
		func(x float64) float64 { return normalCdf(x, mean, stdDev) },
		mean-4*stdDev, mean+4*stdDev,
		fitSampleCount(10_000_000, t),
		401,
		0.01,
	)
}
