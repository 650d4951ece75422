package dist

import (
	"fmt"

	"ETF-Sampler/etf"
)

// Tabulation constants for the Gumbel distribution. The table covers
// [μ - 1.7β, μ + 5.5β]; both tails are enveloped by the exact restricted
// inverse CDF.
const (
	gumbelLeftTailPos  = -1.7
	gumbelRightTailPos = 5.5
	gumbelTolerance32  = 1.0e-4
	gumbelTolerance64  = 1.0e-6
	gumbelMaxIter      = 50
)

func gumbelTolerance[T etf.Real]() T {
	if etf.Width[T]() == 32 {
		return gumbelTolerance32
	}
	return gumbelTolerance64
}

// Gumbel is the Gumbel distribution with probability density
//
//	f(x) = exp(-(z + exp(-z))) / β,  z = (x - μ) / β
//
// where μ is the location parameter and the scale parameter β is strictly
// positive.
type Gumbel[T etf.Real] struct {
	inner etf.Sampler[T]
}

// NewGumbel constructs a Gumbel distribution with the specified location
// and scale.
func NewGumbel[T etf.Real](location, scale T) (*Gumbel[T], error) {
	if scale <= 0 {
		return nil, ErrBadScale
	}
	var inner etf.Sampler[T]
	var err error
	if etf.Width[T]() == 32 {
		inner, err = newGumbelSampler[T, uint32](location, scale)
	} else {
		inner, err = newGumbelSampler[T, uint64](location, scale)
	}
	if err != nil {
		return nil, err
	}
	return &Gumbel[T]{inner: inner}, nil
}

// Sample draws one value.
func (d *Gumbel[T]) Sample(src etf.Source) T {
	return d.inner.Sample(src)
}

func newGumbelSampler[T etf.Real, U etf.Word](location, scale T) (etf.Sampler[T], error) {
	pdf := newGumbelPdf(location, scale)
	invScale := 1 / scale
	dpdf := etf.FuncOf(func(x T) T {
		minusZ := (location - x) * invScale
		expMinusZ := etf.Exp(minusZ)
		return etf.Exp(minusZ-expMinusZ) * (expMinusZ - 1) * invScale
	})

	leftTailPosition := location + gumbelLeftTailPos*scale
	rightTailPosition := location + gumbelRightTailPos*scale

	p := etf.P256
	initNodes := etf.MidpointPrepartition[T](pdf, leftTailPosition, rightTailPosition, p, 0)
	extrema := []T{location}
	table, err := etf.NewtonTabulation[T](pdf, dpdf, initNodes, p, extrema, gumbelTolerance[T](), 1, gumbelMaxIter)
	if err != nil {
		return nil, fmt.Errorf("gumbel: %w", err)
	}
	tail, tailArea := newGumbelTail(location, scale)

	return etf.NewDistAnyTailed[T, U](pdf, table, tail, tailArea)
}

// gumbelPdf is the non-normalized Gumbel PDF exp(-(z + exp(-z))).
type gumbelPdf[T etf.Real] struct {
	location T
	invScale T
}

func newGumbelPdf[T etf.Real](location, scale T) gumbelPdf[T] {
	return gumbelPdf[T]{location: location, invScale: 1 / scale}
}

func (f gumbelPdf[T]) Eval(x T) T {
	minusZ := (f.location - x) * f.invScale
	return etf.Exp(minusZ - etf.Exp(minusZ))
}

func (f gumbelPdf[T]) Test(x, a, b T) bool { return a*f.Eval(x) > b }

// gumbelTail samples both tails by inverse transform on the restricted
// CDF, splitting the draw proportionally to the tail masses at the
// cut-ins.
type gumbelTail[T etf.Real] struct {
	location T
	scale    T
	aLeft    T
	aRight   T
	rt       T
}

func newGumbelTail[T etf.Real](location, scale T) (*gumbelTail[T], T) {
	cdf := func(z T) T { return etf.Exp(-etf.Exp(-z)) }

	wl := cdf(gumbelLeftTailPos)
	wr := 1 - cdf(gumbelRightTailPos)
	rt := wl / (wl + wr)

	tail := &gumbelTail[T]{
		location: location,
		scale:    scale,
		aLeft:    wl / rt,
		aRight:   wr / (1 - rt),
		rt:       rt,
	}
	area := (wl + wr) * scale

	return tail, area
}

func (t *gumbelTail[T]) TrySample(src etf.Source) (T, bool) {
	r := etf.Unit[T](src)
	var p T
	if r < t.rt {
		p = r * t.aLeft
	} else {
		p = 1 - (1-r)*t.aRight
	}
	return t.location - t.scale*etf.Ln(-etf.Ln(p)), true
}
