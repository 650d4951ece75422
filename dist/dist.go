// Package dist provides ready-made ETF samplers for common continuous
// univariate distributions. Constructors validate their parameters, build
// the equal-area tables and compile the runtime sampler; Sample then costs
// one random word, one comparison and one fused multiply-add on the fast
// path.
package dist

import "errors"

// Parameter validation failures reported by the constructors.
var (
	ErrBadStdDev = errors.New("the standard deviation should be strictly positive")
	ErrBadScale  = errors.New("the scale parameter should be strictly positive")
	ErrBadShape  = errors.New("the shape parameter should be strictly positive")
	ErrBadDof    = errors.New("the number of degrees of freedom should be strictly positive")
)
