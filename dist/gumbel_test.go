package dist

import (
	"errors"
	"math"
	"testing"

	"ETF-Sampler/etf"
	"ETF-Sampler/internal/disttest"
)

func gumbelCdf(x, location, scale float64) float64 {
	z := (x - location) / scale
	return math.Exp(-math.Exp(-z))
}

func TestGumbelBadScale(t *testing.T) {
	if _, err := NewGumbel[float64](0, 0); !errors.Is(err, ErrBadScale) {
		t.Fatalf("got %v, want ErrBadScale", err)
	}
}

func TestGumbel64Fit(t *testing.T) {
	location, scale := 2.2, 3.4
	d, err := NewGumbel[float64](location, scale)
	if err != nil {
		t.Fatal(err)
	}
	disttest.GoodnessOfFit(t,
		func(src etf.Source) float64 { return d.Sample(src) },
		func(x float64) float64 { return gumbelCdf(x, location, scale) },
		location-2*scale, location+7*scale,
		fitSampleCount(50_000_000, t),
		401,
		0.01,
	)
}

func TestGumbel32Fit(t *testing.T) {
	location, scale := 2.2, 3.4
	d, err := NewGumbel[float32](float32(location), float32(scale))
	if err != nil {
		t.Fatal(err)
	}
	disttest.GoodnessOfFit(t,
		func(src etf.Source) float64 { return float64(d.Sample(src)) },
		func(x float64) float64 { return gumbelCdf(x, location, scale) },
		location-2*scale, location+7*scale,
		fitSampleCount(10_000_000, t),
		401,
		0.01,
	)
}

func TestGumbel64Collisions(t *testing.T) {
	location, scale := -1.7, 2.8
	d, err := NewGumbel[float64](location, scale)
	if err != nil {
		t.Fatal(err)
	}
	disttest.Collisions(t,
		func(src etf.Source) float64 { return d.Sample(src) },
		func(x float64) float64 { return gumbelCdf(x, location, scale) },
		collisionDimension(t),
		64,
		10,
		0.05,
	)
}
