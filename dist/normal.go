package dist

import (
	"fmt"
	"math"

	"ETF-Sampler/etf"
)

// Tabulation constants for the normal distributions. The table covers
// [μ, μ + 3.25σ]; the remaining mass is tail-sampled.
const (
	normalTailPos     = 3.25
	normalTolerance32 = 1.0e-4
	normalTolerance64 = 1.0e-6
	normalMaxIter     = 10
)

func normalPartition[T etf.Real]() etf.Partition {
	if etf.Width[T]() == 32 {
		return etf.P128
	}
	return etf.P256
}

func normalTolerance[T etf.Real]() T {
	if etf.Width[T]() == 32 {
		return normalTolerance32
	}
	return normalTolerance64
}

// Normal is the normal distribution with probability density
//
//	f(x) = exp(-½ (x - μ)² / σ²) / (σ √(2π))
//
// where μ is the mean and the standard deviation σ is strictly positive.
type Normal[T etf.Real] struct {
	inner etf.Sampler[T]
}

// NewNormal constructs a normal distribution with the specified mean and
// standard deviation.
func NewNormal[T etf.Real](mean, stdDev T) (*Normal[T], error) {
	if stdDev <= 0 {
		return nil, ErrBadStdDev
	}
	var inner etf.Sampler[T]
	var err error
	if etf.Width[T]() == 32 {
		inner, err = newNormalSampler[T, uint32](mean, stdDev)
	} else {
		inner, err = newNormalSampler[T, uint64](mean, stdDev)
	}
	if err != nil {
		return nil, err
	}
	return &Normal[T]{inner: inner}, nil
}

// Sample draws one value.
func (d *Normal[T]) Sample(src etf.Source) T {
	return d.inner.Sample(src)
}

// CentralNormal is the normal distribution with zero mean. It is slightly
// faster than Normal with μ=0 since the origin translation is elided.
type CentralNormal[T etf.Real] struct {
	inner etf.Sampler[T]
}

// NewCentralNormal constructs a central normal distribution with the
// specified standard deviation.
func NewCentralNormal[T etf.Real](stdDev T) (*CentralNormal[T], error) {
	if stdDev <= 0 {
		return nil, ErrBadStdDev
	}
	var inner etf.Sampler[T]
	var err error
	if etf.Width[T]() == 32 {
		inner, err = newCentralNormalSampler[T, uint32](stdDev)
	} else {
		inner, err = newCentralNormalSampler[T, uint64](stdDev)
	}
	if err != nil {
		return nil, err
	}
	return &CentralNormal[T]{inner: inner}, nil
}

// Sample draws one value.
func (d *CentralNormal[T]) Sample(src etf.Source) T {
	return d.inner.Sample(src)
}

func newNormalSampler[T etf.Real, U etf.Word](mean, stdDev T) (etf.Sampler[T], error) {
	pdf := newNormalPdf(mean, stdDev)
	twoAlpha := -1 / (stdDev * stdDev)
	alpha := 0.5 * twoAlpha
	dpdf := etf.FuncOf(func(x T) T {
		dx := x - mean
		return dx * twoAlpha * etf.Exp(dx*dx*alpha)
	})
	table, tail, tailArea, err := normalParts[T](mean, stdDev, pdf, dpdf)
	if err != nil {
		return nil, err
	}
	return etf.NewDistSymmetricTailed[T, U](mean, pdf, table, tail, tailArea)
}

func newCentralNormalSampler[T etf.Real, U etf.Word](stdDev T) (etf.Sampler[T], error) {
	pdf := newCentralNormalPdf(stdDev)
	twoAlpha := -1 / (stdDev * stdDev)
	alpha := 0.5 * twoAlpha
	dpdf := etf.FuncOf(func(x T) T {
		return x * twoAlpha * etf.Exp(x*x*alpha)
	})
	table, tail, tailArea, err := normalParts[T](0, stdDev, pdf, dpdf)
	if err != nil {
		return nil, err
	}
	return etf.NewDistCentralTailed[T, U](pdf, table, tail, tailArea)
}

func normalParts[T etf.Real](mean, stdDev T, pdf, dpdf etf.Func[T]) (*etf.InitTable[T], *normalTail[T], T, error) {
	p := normalPartition[T]()
	tailPosition := mean + normalTailPos*stdDev

	initNodes := etf.MidpointPrepartition(pdf, mean, tailPosition, p, 0)
	table, err := etf.NewtonTabulation(pdf, dpdf, initNodes, p, nil, normalTolerance[T](), 1, normalMaxIter)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("normal: %w", err)
	}
	tail, tailArea := newNormalTail(mean, stdDev, tailPosition)
	return table, tail, tailArea, nil
}

// normalPdf is the non-normalized normal PDF exp(α (x-μ)²).
type normalPdf[T etf.Real] struct {
	mean  T
	alpha T // -1/(2 σ²)
}

func newNormalPdf[T etf.Real](mean, stdDev T) normalPdf[T] {
	return normalPdf[T]{mean: mean, alpha: -0.5 / (stdDev * stdDev)}
}

func (f normalPdf[T]) Eval(x T) T {
	dx := x - f.mean
	return etf.Exp(f.alpha * dx * dx)
}

func (f normalPdf[T]) Test(x, a, b T) bool { return a*f.Eval(x) > b }

type centralNormalPdf[T etf.Real] struct {
	alpha T // -1/(2 σ²)
}

func newCentralNormalPdf[T etf.Real](stdDev T) centralNormalPdf[T] {
	return centralNormalPdf[T]{alpha: -0.5 / (stdDev * stdDev)}
}

func (f centralNormalPdf[T]) Eval(x T) T {
	return etf.Exp(f.alpha * x * x)
}

func (f centralNormalPdf[T]) Test(x, a, b T) bool { return a*f.Eval(x) > b }

// normalTail samples the normal tail beyond the cut-in with Marsaglia's
// method.
type normalTail[T etf.Real] struct {
	cutIn T
	aX    T
	aY    T
}

func newNormalTail[T etf.Real](mean, stdDev, cutIn T) (*normalTail[T], T) {
	tail := &normalTail[T]{
		cutIn: cutIn,
		aX:    stdDev * stdDev / (cutIn - mean),
		aY:    -2 * stdDev * stdDev,
	}

	invSqrtTwo := T(math.Sqrt(0.5))
	area := T(math.Sqrt(math.Pi)) * stdDev * invSqrtTwo * etf.Erfc(normalTailPos*invSqrtTwo)

	return tail, area
}

func (t *normalTail[T]) TrySample(src etf.Source) (T, bool) {
	for {
		x := etf.Ln(1-etf.Unit[T](src)) * t.aX
		y := etf.Ln(1-etf.Unit[T](src)) * t.aY
		if y >= x*x {
			return t.cutIn - x, true
		}
	}
}
