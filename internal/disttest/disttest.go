// Package disttest carries the statistical harnesses shared by the
// distribution tests: a χ² goodness-of-fit test against an analytic CDF
// and the Knuth collision test, both driven by a deterministic source.
package disttest

import (
	"math"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/tuneinsight/lattigo/v4/utils"

	"ETF-Sampler/etf"
)

// Source returns the deterministic source used by all statistical tests.
func Source() etf.Source {
	prng, err := utils.NewKeyedPRNG([]byte("etf-sampler-test"))
	if err != nil {
		panic(err)
	}
	return etf.SourceFromPRNG(prng)
}

// Histogram is a set of sampling bins regularly distributed between x0 and
// x1. Samples outside [x0, x1) accumulate into the residual.
type Histogram struct {
	x0       float64
	x1       float64
	scale    float64
	bins     []uint64
	residual uint64
}

// NewHistogram creates a histogram with binCount bins over [x0, x1].
func NewHistogram(x0, x1 float64, binCount int) *Histogram {
	if binCount < 1 {
		panic("histogram must contain at least one bin")
	}
	return &Histogram{
		x0:    x0,
		x1:    x1,
		scale: float64(binCount) / (x1 - x0),
		bins:  make([]uint64, binCount),
	}
}

// Add accumulates one sample.
func (h *Histogram) Add(x float64) {
	i := (x - h.x0) * h.scale
	if i >= 0 && i < float64(len(h.bins)) {
		h.bins[int(i)]++
	} else {
		h.residual++
	}
}

// ChiSquareTest returns the upper-tail P-value of a χ² test of the
// histogram against the analytic CDF. The number of degrees of freedom is
// assumed large enough to approximate the χ² distribution with a normal
// one.
func (h *Histogram) ChiSquareTest(cdf func(float64) float64) float64 {
	m := len(h.bins)
	var count uint64
	for _, c := range h.bins {
		count += c
	}
	n := float64(count + h.residual)
	k := m - 1 // degrees of freedom

	var chiSquare float64
	cdfL := cdf(h.x0)
	for i := 0; i < m; i++ {
		x := h.x1 - float64(m-i-1)/float64(m)*(h.x1-h.x0)
		cdfR := cdf(x)
		expected := (cdfR - cdfL) * n
		cdfL = cdfR
		delta := float64(h.bins[i]) - expected
		chiSquare += delta * delta / expected
	}

	// Fold in the residual when its expectation reaches one sample.
	expectedResidual := (cdf(h.x0) + 1 - cdf(h.x1)) * n
	if expectedResidual > 1 {
		delta := float64(h.residual) - expectedResidual
		chiSquare += delta * delta / expectedResidual
		k++
	}

	kf := float64(k)
	return (1 - math.Erf((chiSquare-kf)/(2*math.Sqrt(kf)))) / 2
}

// GoodnessOfFit samples the distribution and asserts that the χ² P-value
// against the analytic CDF exceeds the threshold.
func GoodnessOfFit(t *testing.T, sample func(etf.Source) float64, cdf func(float64) float64, x0, x1 float64, sampleCount uint64, binCount int, pValueThreshold float64) {
	t.Helper()

	h := NewHistogram(x0, x1, binCount)
	src := Source()
	for i := uint64(0); i < sampleCount; i++ {
		h.Add(sample(src))
	}

	p := h.ChiSquareTest(cdf)
	t.Logf("P-value: %g", p)
	if p <= pValueThreshold {
		t.Errorf("χ² P-value %g below threshold %g", p, pValueThreshold)
	}
}

// collisionPValue returns the upper-tail P-value for the exact
// distribution of collision counts when throwing n balls into k urns,
// using Knuth's recurrence. The DP window is truncated below epsilon on
// both ends.
func collisionPValue(k, n, c uint64) float64 {
	const epsilon = 1e-20
	kf := float64(k)
	a := make([]float64, 1+n)

	a[1] = 1
	j0, j1 := 1, 1
	for i := uint64(1); i < n; i++ {
		j1++
		for j := j1; j >= j0; j-- {
			v := float64(j) / kf
			a[j] = a[j]*v + a[j-1]*(1+1/kf-v)
		}
		if a[j0] < epsilon {
			a[j0] = 0
			j0++
		}
		if a[j1] < epsilon {
			a[j1] = 0
			j1--
		}
	}
	if n-c > uint64(j1) {
		return 1
	}
	if n-c < uint64(j0) {
		return 0
	}
	var cdf float64
	for j := int(n-c) + 1; j <= j1; j++ {
		cdf += a[j]
	}
	return 1 - cdf
}

// Collisions performs the Knuth collision test (1981): samples are mapped
// through the exact CDF into [0, 1), thrown into k = 2^dimension urns, and
// the collision-count P-value is averaged over testCount repetitions.
func Collisions(t *testing.T, sample func(etf.Source) float64, cdf func(float64) float64, dimension uint, urnToBallRatio uint64, testCount int, pValueThreshold float64) {
	t.Helper()

	k := uint64(1) << dimension
	n := k / urnToBallRatio
	kFloat := float64(k)
	findUrn := func(r float64) uint64 {
		u := uint64(r * kFloat)
		if u > k-1 {
			u = k - 1
		}
		return u
	}

	src := Source()
	pValues := make([]float64, 0, testCount)
	for rep := 0; rep < testCount; rep++ {
		urns := make(map[uint64]struct{}, n)
		var collisionCount uint64
		for i := uint64(0); i < n; i++ {
			r := cdf(sample(src))
			urn := findUrn(r)
			if _, seen := urns[urn]; seen {
				collisionCount++
			} else {
				urns[urn] = struct{}{}
			}
		}
		pValues = append(pValues, collisionPValue(k, n, collisionCount))
	}

	p, err := stats.Mean(stats.Float64Data(pValues))
	if err != nil {
		t.Fatalf("p-value mean: %v", err)
	}
	t.Logf("average P-value: %g", p)
	if p <= pValueThreshold {
		t.Errorf("average collision P-value %g below threshold %g", p, pValueThreshold)
	}
}
