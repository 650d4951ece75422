package dist

import (
	"fmt"
	"math"

	"ETF-Sampler/etf"
)

// Tabulation constants for the Cauchy distribution. The heavy tail pushes
// the cut-in far out: the table covers [x₀, x₀ + 200γ] (float32) or
// [x₀, x₀ + 400γ] (float64).
const (
	cauchyTailPos32   = 200.0
	cauchyTailPos64   = 400.0
	cauchyTolerance32 = 1.0e-4
	cauchyTolerance64 = 1.0e-6
	cauchyMaxIter     = 50
)

func cauchyTailPos[T etf.Real]() T {
	if etf.Width[T]() == 32 {
		return cauchyTailPos32
	}
	return cauchyTailPos64
}

func cauchyTolerance[T etf.Real]() T {
	if etf.Width[T]() == 32 {
		return cauchyTolerance32
	}
	return cauchyTolerance64
}

func cauchyPartition[T etf.Real]() etf.Partition {
	if etf.Width[T]() == 32 {
		return etf.P128
	}
	return etf.P256
}

// Cauchy is the Cauchy distribution with probability density
//
//	f(x) = γ / (π((x - x₀)² + γ²))
//
// where x₀ is the location parameter and the scale parameter γ is strictly
// positive.
type Cauchy[T etf.Real] struct {
	inner etf.Sampler[T]
}

// NewCauchy constructs a Cauchy distribution with the specified location
// and scale.
func NewCauchy[T etf.Real](location, scale T) (*Cauchy[T], error) {
	if scale <= 0 {
		return nil, ErrBadScale
	}
	var inner etf.Sampler[T]
	var err error
	if etf.Width[T]() == 32 {
		inner, err = newCauchySampler[T, uint32](location, scale)
	} else {
		inner, err = newCauchySampler[T, uint64](location, scale)
	}
	if err != nil {
		return nil, err
	}
	return &Cauchy[T]{inner: inner}, nil
}

// Sample draws one value.
func (d *Cauchy[T]) Sample(src etf.Source) T {
	return d.inner.Sample(src)
}

func newCauchySampler[T etf.Real, U etf.Word](location, scale T) (etf.Sampler[T], error) {
	pdf := newCauchyPdf(location, scale)
	squareInvScale := 1 / (scale * scale)
	minusTwoSquareInvScale := -2 * squareInvScale
	dpdf := etf.FuncOf(func(x T) T {
		dx := x - location
		minusDv := minusTwoSquareInvScale * dx
		v := 1 + squareInvScale*dx*dx
		return minusDv / (v * v)
	})

	p := cauchyPartition[T]()
	tailPosition := location + cauchyTailPos[T]()*scale
	initNodes := etf.MidpointPrepartition(pdf, location, tailPosition, p, 0)
	table, err := etf.NewtonTabulation(pdf, dpdf, initNodes, p, nil, cauchyTolerance[T](), 1, cauchyMaxIter)
	if err != nil {
		return nil, fmt.Errorf("cauchy: %w", err)
	}
	tail, tailArea := newCauchyTail(location, scale)
	return etf.NewDistSymmetricTailed[T, U](location, pdf, table, tail, tailArea)
}

// cauchyPdf is the non-normalized Cauchy PDF 1/(1 + (x-x₀)²/γ²). The
// wedge acceptance test uses the division-less reciprocal form.
type cauchyPdf[T etf.Real] struct {
	location       T
	squareInvScale T
}

func newCauchyPdf[T etf.Real](location, scale T) cauchyPdf[T] {
	return cauchyPdf[T]{location: location, squareInvScale: 1 / (scale * scale)}
}

func (f cauchyPdf[T]) Eval(x T) T {
	dx := x - f.location
	return 1 / (1 + f.squareInvScale*dx*dx)
}

func (f cauchyPdf[T]) Test(x, a, b T) bool {
	dx := x - f.location
	return a > b*(1+f.squareInvScale*dx*dx)
}

// cauchyTail samples the tail by inverting the CDF restricted to the tail
// region; the draw always succeeds.
type cauchyTail[T etf.Real] struct {
	location T
	scale    T
	a        T
	b        T
}

func newCauchyTail[T etf.Real](location, scale T) (*cauchyTail[T], T) {
	fmin := etf.Atan(cauchyTailPos[T]())/T(math.Pi) + 0.5

	tail := &cauchyTail[T]{
		location: location,
		scale:    scale,
		a:        T(math.Pi) * (1 - fmin),
		b:        T(math.Pi) * (fmin - 0.5),
	}

	area := scale * (etf.Atan(-cauchyTailPos[T]()) + 0.5*T(math.Pi))

	return tail, area
}

func (t *cauchyTail[T]) TrySample(src etf.Source) (T, bool) {
	return t.location + t.scale*etf.Tan(t.a*etf.Unit[T](src)+t.b), true
}
