package etf

import (
	"errors"
	"math"
	"testing"
)

// Bounded symmetric test density on [-1, 1]: f(x) = 1 - x².
func parabolicPdf() (Func[float64], Func[float64]) {
	f := FuncOf(func(x float64) float64 { return 1 - x*x })
	df := FuncOf(func(x float64) float64 { return -2 * x })
	return f, df
}

func parabolicTable(t *testing.T, p Partition) *InitTable[float64] {
	t.Helper()
	f, df := parabolicPdf()
	init := MidpointPrepartition(f, 0, 1, p, 0)
	table, err := NewtonTabulation(f, df, init, p, nil, 1e-9, 1, 50)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestDistCentralSupportAndBalance(t *testing.T) {
	f, _ := parabolicPdf()
	table := parabolicTable(t, P64)
	d, err := NewDistCentral[float64, uint64](f, table)
	if err != nil {
		t.Fatal(err)
	}

	src := NewSplitMix64(42)
	const n = 1_000_000
	var negative int
	for i := 0; i < n; i++ {
		x := d.Sample(src)
		if x < -1 || x > 1 {
			t.Fatalf("sample %v outside [-1, 1]", x)
		}
		if math.Signbit(x) {
			negative++
		}
	}

	// The sign is a fair coin: 5σ band around n/2.
	dev := math.Abs(float64(negative) - n/2)
	if dev > 5*math.Sqrt(n)/2 {
		t.Fatalf("sign imbalance: %d negatives out of %d", negative, n)
	}
}

func TestDistSymmetricMatchesCentralShifted(t *testing.T) {
	f, _ := parabolicPdf()
	table := parabolicTable(t, P64)

	// Translate the tabulated support to [x0, x0+1].
	const x0 = 5.0
	shiftedTable := NewInitTable[float64](P64)
	for i := range table.X {
		shiftedTable.X[i] = x0 + table.X[i]
	}
	copy(shiftedTable.Yinf, table.Yinf)
	copy(shiftedTable.Ysup, table.Ysup)

	shiftedPdf := FuncOf(func(x float64) float64 { return 1 - (x-x0)*(x-x0) })
	ds, err := NewDistSymmetric[float64, uint64](x0, shiftedPdf, shiftedTable)
	if err != nil {
		t.Fatal(err)
	}
	dc, err := NewDistCentral[float64, uint64](f, table)
	if err != nil {
		t.Fatal(err)
	}

	// Same word stream, same draws modulo the translation.
	a := NewSplitMix64(7)
	b := NewSplitMix64(7)
	for i := 0; i < 100_000; i++ {
		want := x0 + dc.Sample(b)
		got := ds.Sample(a)
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("draw %d: symmetric %v vs shifted central %v", i, got, want)
		}
	}
}

func TestDistAnySupport(t *testing.T) {
	// Asymmetric bounded density on [1, 3].
	f := FuncOf(func(x float64) float64 { return math.Exp(-(x - 1)) })
	df := FuncOf(func(x float64) float64 { return -math.Exp(-(x - 1)) })
	init := MidpointPrepartition(f, 1, 3, P128, 0)
	table, err := NewtonTabulation(f, df, init, P128, nil, 1e-9, 1, 50)
	if err != nil {
		t.Fatal(err)
	}
	d, err := NewDistAny[float64, uint64](f, table)
	if err != nil {
		t.Fatal(err)
	}

	src := NewSplitMix64(3)
	for i := 0; i < 200_000; i++ {
		x := d.Sample(src)
		if x < 1 || x > 3 {
			t.Fatalf("sample %v outside [1, 3]", x)
		}
	}
}

func TestPartitionValidity(t *testing.T) {
	f, _ := parabolicPdf()

	// 256 sub-intervals are not valid for a symmetric float32 sampler.
	init32 := NewInitTable[float32](P256)
	for i := range init32.X {
		init32.X[i] = float32(i) / 256
	}
	for i := range init32.Ysup {
		init32.Ysup[i] = 1
		init32.Yinf[i] = 1
	}
	f32 := FuncOf(func(x float32) float32 { return 1 - x*x })
	if _, err := NewDistCentral[float32, uint32](f32, init32); !errors.Is(err, ErrPartitionSize) {
		t.Fatalf("got %v, want ErrPartitionSize", err)
	}
	if _, err := NewDistSymmetric[float32, uint32](0, f32, init32); !errors.Is(err, ErrPartitionSize) {
		t.Fatalf("got %v, want ErrPartitionSize", err)
	}

	// 256 sub-intervals are fine for an asymmetric float32 sampler.
	if _, err := NewDistAny[float32, uint32](f32, init32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 4096 sub-intervals with a sign bit overflow a 64-bit word.
	init64 := NewInitTable[float64](P4096)
	for i := range init64.X {
		init64.X[i] = float64(i) / 4096
	}
	for i := range init64.Ysup {
		init64.Ysup[i] = 1
		init64.Yinf[i] = 1
	}
	if _, err := NewDistCentral[float64, uint64](f, init64); !errors.Is(err, ErrPartitionSize) {
		t.Fatalf("got %v, want ErrPartitionSize", err)
	}
	if _, err := NewDistAny[float64, uint64](f, init64); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWeibullEnvelopeDominates(t *testing.T) {
	// Envelope over the normal tail beyond x = 3: with unit scale the
	// Weibull reduces to an exponential 3w·exp(-3x), and w = 31 keeps it
	// above exp(-x²/2) on the whole tail.
	pdf := FuncOf(func(x float64) float64 { return math.Exp(-0.5 * x * x) })
	env := NewWeibullEnvelope[float64](31, 1, 1.0/3.0, 0, 3, pdf)

	if env.Area() <= 0 {
		t.Fatalf("envelope area %v", env.Area())
	}

	src := NewSplitMix64(11)
	accepted := 0
	for i := 0; i < 100_000; i++ {
		x, ok := env.TrySample(src)
		if !ok {
			continue
		}
		accepted++
		if x < 3 {
			t.Fatalf("envelope sample %v below the cut-in", x)
		}
	}
	if accepted == 0 {
		t.Fatal("envelope never accepted")
	}
}
