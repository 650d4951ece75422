package dist

import "ETF-Sampler/etf"

// Tabulation constants for the gamma distribution.
const (
	gammaTolerance32 = 1.0e-4
	gammaTolerance64 = 1.0e-6

	// Tail cut-in position in standard deviations of the Wilson-Hilferty
	// normal approximation (k ≥ 1).
	gammaNormalizedTailPos = 3.25

	// Relative weight of the left tail envelope and maximum relative
	// weight of the right tail (k < 1).
	gammaLeftTailEnvelopeProbability = 0.001
	gammaRightTailMaxProbability     = 0.001

	gammaMaxIter = 50
)

func gammaTolerance[T etf.Real]() T {
	if etf.Width[T]() == 32 {
		return gammaTolerance32
	}
	return gammaTolerance64
}

func gammaPartition[T etf.Real]() etf.Partition {
	if etf.Width[T]() == 32 {
		return etf.P256
	}
	return etf.P512
}

// Gamma is the gamma distribution with probability density
//
//	f(x) = x^(k - 1) exp(-x / θ) / (Γ(k) θ^k)
//
// where the shape parameter k and the scale parameter θ are strictly
// positive. Shapes below 1 are sampled through a logarithmic change of
// variable which removes the singularity at zero.
type Gamma[T etf.Real] struct {
	inner etf.Sampler[T]
}

// NewGamma constructs a gamma distribution with the specified shape and
// scale.
func NewGamma[T etf.Real](shape, scale T) (*Gamma[T], error) {
	if scale <= 0 {
		return nil, ErrBadScale
	}
	if shape <= 0 {
		return nil, ErrBadShape
	}
	var inner etf.Sampler[T]
	var err error
	switch {
	case shape < 1 && etf.Width[T]() == 32:
		inner, err = newSmallShapeGamma[T, uint32](shape, scale)
	case shape < 1:
		inner, err = newSmallShapeGamma[T, uint64](shape, scale)
	case etf.Width[T]() == 32:
		inner, err = newLargeShapeGamma[T, uint32](shape, scale)
	default:
		inner, err = newLargeShapeGamma[T, uint64](shape, scale)
	}
	if err != nil {
		return nil, err
	}
	return &Gamma[T]{inner: inner}, nil
}

// Sample draws one value.
func (d *Gamma[T]) Sample(src etf.Source) T {
	return d.inner.Sample(src)
}
