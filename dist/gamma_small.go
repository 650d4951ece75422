package dist

import (
	"fmt"

	"ETF-Sampler/etf"
)

// Gamma sampler for k < 1.
//
// The change of variable x = exp(X) removes the singularity at zero and
// leads to the unimodal non-normalized density
//
//	f(X) = exp(k X - exp(X) / θ)
//
// which is tabulated instead; Sample transforms the draw back with exp.
//
// The left tail is enveloped by fl(X) = exp(k X) for X ≤ Xl, with
// Xl ≈ ln(θ) + ln(Wl)/k placing a relative envelope weight Wl on it. The
// right tail is enveloped by fr(X) = exp((k-1) Xr + X - exp(X)/θ) for X ≥ Xr, with
// Xr = ln(θ max[1, ln(k / (0.8856 Wr))]) keeping the relative weight of
// the actual right tail below Wr.
type smallShapeGamma[T etf.Real] struct {
	inner etf.Sampler[T]
}

func newSmallShapeGamma[T etf.Real, U etf.Word](shape, scale T) (etf.Sampler[T], error) {
	leftTailPos := etf.Ln(scale) + etf.Ln(T(gammaLeftTailEnvelopeProbability))/shape
	r := etf.Ln(shape / (0.8856 * gammaRightTailMaxProbability))
	if r < 1 {
		r = 1
	}
	rightTailPos := etf.Ln(r * scale)

	tail, tailArea := newSmallShapeTail(shape, scale, leftTailPos, rightTailPos)
	pdf := newSmallShapeGammaPdf(shape, scale)
	dpdf := pdf.derivative()
	p := gammaPartition[T]()
	initNodes := etf.MidpointPrepartition[T](pdf, leftTailPos, rightTailPos, p, 0)
	extrema := []T{etf.Ln(scale * shape)}
	table, err := etf.NewtonTabulation[T](pdf, dpdf, initNodes, p, extrema, gammaTolerance[T](), 1, gammaMaxIter)
	if err != nil {
		return nil, fmt.Errorf("gamma: %w", err)
	}

	inner, err := etf.NewDistAnyTailed[T, U](pdf, table, tail, tailArea)
	if err != nil {
		return nil, err
	}
	return &smallShapeGamma[T]{inner: inner}, nil
}

// Sample draws in the transformed domain and maps back.
func (d *smallShapeGamma[T]) Sample(src etf.Source) T {
	return etf.Exp(d.inner.Sample(src))
}

// smallShapeGammaPdf is the transformed non-normalized PDF
// exp(k X - exp(X)/θ).
type smallShapeGammaPdf[T etf.Real] struct {
	shape   T
	lnScale T
}

func newSmallShapeGammaPdf[T etf.Real](shape, scale T) smallShapeGammaPdf[T] {
	return smallShapeGammaPdf[T]{shape: shape, lnScale: etf.Ln(scale)}
}

func (f smallShapeGammaPdf[T]) Eval(x T) T {
	expXStar := etf.Exp(x - f.lnScale)
	return etf.Exp(f.shape*x - expXStar)
}

func (f smallShapeGammaPdf[T]) Test(x, a, b T) bool { return a*f.Eval(x) > b }

func (f smallShapeGammaPdf[T]) derivative() etf.Func[T] {
	return etf.FuncOf(func(x T) T {
		expXStar := etf.Exp(x - f.lnScale)
		return (f.shape - expXStar) * etf.Exp(f.shape*x-expXStar)
	})
}

// smallShapeTail combines the power-law left envelope and the
// exponential-of-exponential right envelope of the transformed density.
type smallShapeTail[T etf.Real] struct {
	left           *smallShapeLeftTail[T]
	right          *smallShapeRightTail[T]
	leftTailWeight T
}

func newSmallShapeTail[T etf.Real](shape, scale, leftCutIn, rightCutIn T) (*smallShapeTail[T], T) {
	left, leftArea := newSmallShapeLeftTail(shape, scale, leftCutIn)
	right, rightArea := newSmallShapeRightTail(shape, scale, rightCutIn)
	area := leftArea + rightArea
	tail := &smallShapeTail[T]{
		left:           left,
		right:          right,
		leftTailWeight: leftArea / area,
	}
	return tail, area
}

func (t *smallShapeTail[T]) TrySample(src etf.Source) (T, bool) {
	if etf.Unit[T](src) < t.leftTailWeight {
		return t.left.TrySample(src)
	}
	return t.right.TrySample(src)
}

// smallShapeLeftTail envelopes the transformed density below the left
// cut-in with fl(X) = exp(k X).
type smallShapeLeftTail[T etf.Real] struct {
	cutIn      T
	invShape   T
	minusScale T
}

func newSmallShapeLeftTail[T etf.Real](shape, scale, cutIn T) (*smallShapeLeftTail[T], T) {
	tail := &smallShapeLeftTail[T]{
		cutIn:      cutIn,
		invShape:   1 / shape,
		minusScale: -scale,
	}
	area := etf.Exp(shape*cutIn) / shape
	return tail, area
}

func (t *smallShapeLeftTail[T]) TrySample(src etf.Source) (T, bool) {
	x := t.cutIn + t.invShape*etf.Ln(1-etf.Unit[T](src))
	if etf.Exp(x) < t.minusScale*etf.Ln(etf.Unit[T](src)) {
		return x, true
	}
	return 0, false
}

// smallShapeRightTail envelopes the transformed density above the right
// cut-in with fr(X) = exp((k-1) Xr + X - exp(X)/θ).
type smallShapeRightTail[T etf.Real] struct {
	cutIn    T
	expCutIn T
	scale    T
	m        T // shape - 1
}

func newSmallShapeRightTail[T etf.Real](shape, scale, cutIn T) (*smallShapeRightTail[T], T) {
	expCutIn := etf.Exp(cutIn)
	tail := &smallShapeRightTail[T]{
		cutIn:    cutIn,
		expCutIn: expCutIn,
		scale:    scale,
		m:        shape - 1,
	}
	area := scale * etf.Exp(tail.m*cutIn-expCutIn/scale)
	return tail, area
}

func (t *smallShapeRightTail[T]) TrySample(src etf.Source) (T, bool) {
	x := etf.Ln(t.expCutIn - t.scale*etf.Ln(1-etf.Unit[T](src)))
	if t.m*(x-t.cutIn) > etf.Ln(etf.Unit[T](src)) {
		return x, true
	}
	return 0, false
}
