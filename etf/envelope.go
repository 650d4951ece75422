package etf

// WeibullEnvelope is a tail envelope based on a shifted Weibull
// distribution, drawn by inverse transform sampling. It makes a reasonably
// efficient envelope for many distributions while staying cheap to
// generate.
//
// The envelope function is
//
//	f(x) = w·(a/|b|)·((x-c)/b)^(a-1)·exp(-((x-c)/b)^a)
//
// for (x-c)/b > (x0-c)/b, zero otherwise, with weight w, scale a > 0,
// shape b ≠ 0, location c and cut-in x0. A negative shape mirrors the
// envelope about x = c, in which case the cut-in must satisfy x0 ≤ c.
type WeibullEnvelope[T Real] struct {
	a     T
	invA  T
	b     T
	invB  T
	c     T
	x0    T
	s     T
	alpha T
	pdf   Func[T]
}

// NewWeibullEnvelope builds a Weibull tail envelope for pdf. The PDF must
// be below the envelope over the whole tail region.
func NewWeibullEnvelope[T Real](weight, scale, shape, location, cutIn T, pdf Func[T]) *WeibullEnvelope[T] {
	return &WeibullEnvelope[T]{
		a:     scale,
		invA:  1 / scale,
		b:     shape,
		invB:  1 / shape,
		c:     location,
		x0:    cutIn,
		s:     weight * Abs(scale/shape),
		alpha: Pow((cutIn-location)/shape, scale),
		pdf:   pdf,
	}
}

// Area returns the area under the envelope beyond the cut-in.
func (e *WeibullEnvelope[T]) Area() T {
	z0 := Pow((e.x0-e.c)*e.invB, e.a)
	return e.s * Exp(-z0) * e.invA * Abs(e.b)
}

// TrySample draws from the envelope and accepts against the target PDF.
func (e *WeibullEnvelope[T]) TrySample(src Source) (T, bool) {
	r := Unit[T](src)
	x := e.c + e.b*Pow(e.alpha-Ln(1-r), e.invA)
	xScaled := (x - e.c) * e.invB
	z := Pow(xScaled, e.a-1)
	y := e.s * z * Exp(-xScaled*z)

	if y*Unit[T](src) <= e.pdf.Eval(x) {
		return x, true
	}
	return 0, false
}
