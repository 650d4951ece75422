package dist

import (
	"fmt"

	"ETF-Sampler/etf"
)

// Gamma sampler for k ≥ 1.
//
// To prevent floating-point overflow at large k, the implementation uses
// the scaled probability density
//
//	f(x) = exp(m ((δ - xs) + β ln(xs)))
//
// with xs = x/(mθ), m = max(k-1, 1), β = (k-1)/m and δ = β(1 - ln β), so
// the function is normalized by its maximum without ever forming x^(k-1).
//
// The right tail (and, for large k, the left tail) cut-in is transformed
// from a normal tail position through the Wilson-Hilferty approximation: a
// gamma deviate of shape k is close to the cube of a normal deviate with
// mean 1 - 1/(9k) and variance 1/(9k), in units of kθ.
func newLargeShapeGamma[T etf.Real, U etf.Word](shape, scale T) (etf.Sampler[T], error) {
	normalVariance := 1 / (9 * shape)
	normalMean := 1 - normalVariance
	normalTailPosDelta := gammaNormalizedTailPos * etf.Sqrt(normalVariance)
	normalRightTailPos := normalMean + normalTailPosDelta
	rightTailPos := scale * shape * (normalRightTailPos * normalRightTailPos * normalRightTailPos)
	normalLeftTailPos := normalMean - normalTailPosDelta
	leftTailPos := scale * shape * (normalLeftTailPos * normalLeftTailPos * normalLeftTailPos)

	// For moderate shapes only the right tail is needed.
	var tail etf.Envelope[T]
	var tailArea T
	if leftTailPos <= 0 {
		leftTailPos = 0
		t, area := newLargeShapeSingleTail(shape, scale, rightTailPos)
		tail, tailArea = t, area
	} else {
		t, area := newLargeShapeDoubleTail(shape, scale, leftTailPos, rightTailPos)
		tail, tailArea = t, area
	}

	pdf := newLargeShapeGammaPdf(shape, scale)
	dpdf := pdf.derivative()
	p := gammaPartition[T]()
	initNodes := etf.MidpointPrepartition[T](pdf, leftTailPos, rightTailPos, p, 0)
	extrema := []T{scale * (shape - 1)}
	table, err := etf.NewtonTabulation[T](pdf, dpdf, initNodes, p, extrema, gammaTolerance[T](), 1, gammaMaxIter)
	if err != nil {
		return nil, fmt.Errorf("gamma: %w", err)
	}

	return etf.NewDistAnyTailed[T, U](pdf, table, tail, tailArea)
}

// largeShapeGammaPdf evaluates the scaled gamma PDF in log space.
type largeShapeGammaPdf[T etf.Real] struct {
	m       T // max(shape - 1, 1)
	scaling T // 1 / (scale * m)
	beta    T // (shape - 1) / m
	delta   T // beta * (1 - ln(beta))
}

func newLargeShapeGammaPdf[T etf.Real](shape, scale T) largeShapeGammaPdf[T] {
	m := shape - 1
	if m < 1 {
		m = 1
	}
	beta := (shape - 1) / m
	var delta T
	if beta > 0 {
		delta = beta * (1 - etf.Ln(beta))
	}
	return largeShapeGammaPdf[T]{
		m:       m,
		scaling: 1 / (scale * m),
		beta:    beta,
		delta:   delta,
	}
}

func (f largeShapeGammaPdf[T]) Eval(x T) T {
	xs := x * f.scaling
	return etf.Exp(f.m * ((f.delta - xs) + f.beta*etf.Ln(xs)))
}

func (f largeShapeGammaPdf[T]) Test(x, a, b T) bool { return a*f.Eval(x) > b }

func (f largeShapeGammaPdf[T]) derivative() etf.Func[T] {
	return etf.FuncOf(func(x T) T {
		xs := x * f.scaling
		lnXs := etf.Ln(xs)
		return f.m * f.scaling * (f.beta - xs) * etf.Exp(f.m*((f.delta-xs)+f.beta*lnXs)-lnXs)
	})
}

// largeShapeSingleTail is a left or right exponential tail envelope
//
//	f(x) = w exp(-(x / x₀) / b)
//
// with w and b chosen so the envelope and its derivative match the gamma
// PDF at the cut-in.
type largeShapeSingleTail[T etf.Real] struct {
	cutIn T
	m     T
	b     T
}

func newLargeShapeSingleTail[T etf.Real](shape, scale, cutIn T) (*largeShapeSingleTail[T], T) {
	m := shape - 1
	c := cutIn / scale
	b := 1 / (c - m)

	tail := &largeShapeSingleTail[T]{cutIn: cutIn, m: m, b: b}

	var mLnM T
	if m > 0 {
		mLnM = m * etf.Ln(m)
	}
	area := scale * etf.Exp(shape*etf.Ln(c)-mLnM-(c-m)) / etf.Abs(c-m)

	return tail, area
}

func (t *largeShapeSingleTail[T]) TrySample(src etf.Source) (T, bool) {
	relX := 1 - t.b*etf.Ln(1-etf.Unit[T](src))

	// Negative positions can occur with a left tail and must be discarded
	// before evaluating ln.
	if relX <= 0 {
		return 0, false
	}
	p := etf.Exp(t.m + t.m*(etf.Ln(relX)-relX))
	if p > etf.Unit[T](src) {
		return relX * t.cutIn, true
	}
	return 0, false
}

// largeShapeDoubleTail combines left and right envelopes, splitting the
// draw proportionally to their areas.
type largeShapeDoubleTail[T etf.Real] struct {
	left           *largeShapeSingleTail[T]
	right          *largeShapeSingleTail[T]
	leftTailWeight T
}

func newLargeShapeDoubleTail[T etf.Real](shape, scale, leftCutIn, rightCutIn T) (*largeShapeDoubleTail[T], T) {
	left, leftArea := newLargeShapeSingleTail(shape, scale, leftCutIn)
	right, rightArea := newLargeShapeSingleTail(shape, scale, rightCutIn)
	area := leftArea + rightArea
	tail := &largeShapeDoubleTail[T]{
		left:           left,
		right:          right,
		leftTailWeight: leftArea / area,
	}
	return tail, area
}

func (t *largeShapeDoubleTail[T]) TrySample(src etf.Source) (T, bool) {
	if etf.Unit[T](src) < t.leftTailWeight {
		return t.left.TrySample(src)
	}
	return t.right.TrySample(src)
}
