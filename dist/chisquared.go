package dist

import (
	"errors"

	"ETF-Sampler/etf"
)

// ChiSquared is the χ² distribution with probability density
//
//	f(x) = x^(k/2 - 1) exp(-x / 2) / (Γ(k/2) 2^(k/2))
//
// where the number of degrees of freedom k is strictly positive. It is
// sampled as Gamma(k/2, 2).
type ChiSquared[T etf.Real] struct {
	inner *Gamma[T]
}

// NewChiSquared constructs a χ² distribution with the specified number of
// degrees of freedom.
func NewChiSquared[T etf.Real](k T) (*ChiSquared[T], error) {
	inner, err := NewGamma[T](0.5*k, 2)
	if err != nil {
		if errors.Is(err, ErrBadShape) {
			return nil, ErrBadDof
		}
		return nil, err
	}
	return &ChiSquared[T]{inner: inner}, nil
}

// Sample draws one value.
func (d *ChiSquared[T]) Sample(src etf.Source) T {
	return d.inner.Sample(src)
}
