package etf

import (
	"errors"
	"math"
	"testing"
)

// Half-support standard normal density and derivative.
func normalHalfPdf() (Func[float64], Func[float64]) {
	f := FuncOf(func(x float64) float64 { return math.Exp(-0.5 * x * x) })
	df := FuncOf(func(x float64) float64 { return -x * math.Exp(-0.5*x*x) })
	return f, df
}

func TestMidpointPrepartitionShape(t *testing.T) {
	f, _ := normalHalfPdf()
	x := MidpointPrepartition(f, 0, 3.25, P128, 0)

	if len(x) != P128.Size()+1 {
		t.Fatalf("node count %d, want %d", len(x), P128.Size()+1)
	}
	if x[0] != 0 || x[len(x)-1] != 3.25 {
		t.Fatalf("end nodes not pinned: %v, %v", x[0], x[len(x)-1])
	}
	for i := 0; i+1 < len(x); i++ {
		if x[i+1] <= x[i] {
			t.Fatalf("nodes not strictly increasing at %d: %v >= %v", i, x[i], x[i+1])
		}
	}
}

func TestNewtonTabulationEqualAreas(t *testing.T) {
	const tolerance = 1e-6
	f, df := normalHalfPdf()
	init := MidpointPrepartition(f, 0, 3.25, P128, 0)
	table, err := NewtonTabulation(f, df, init, P128, nil, tolerance, 1, 20)
	if err != nil {
		t.Fatal(err)
	}

	n := P128.Size()
	// After the post-convergence normalisation all areas are exactly
	// max_area up to round-off.
	area0 := (table.X[1] - table.X[0]) * table.Ysup[0]
	for i := 0; i < n; i++ {
		area := (table.X[i+1] - table.X[i]) * table.Ysup[i]
		if math.Abs(area-area0) > 1e-12*area0 {
			t.Fatalf("cell %d area %v deviates from %v", i, area, area0)
		}
		if table.Yinf[i] < 0 || table.Yinf[i] > table.Ysup[i] {
			t.Fatalf("cell %d has yinf %v outside [0, %v]", i, table.Yinf[i], table.Ysup[i])
		}
	}
}

func TestNewtonTabulationIdempotent(t *testing.T) {
	const tolerance = 1e-6
	f, df := normalHalfPdf()
	init := MidpointPrepartition(f, 0, 3.25, P64, 0)
	table, err := NewtonTabulation(f, df, init, P64, nil, tolerance, 1, 20)
	if err != nil {
		t.Fatal(err)
	}

	// Feeding the converged nodes back converges without moving them.
	again, err := NewtonTabulation(f, df, table.X, P64, nil, tolerance, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := range table.X {
		if math.Abs(again.X[i]-table.X[i]) > 1e-9 {
			t.Fatalf("node %d moved from %v to %v on re-tabulation", i, table.X[i], again.X[i])
		}
	}
}

func TestNewtonTabulationWithExtremum(t *testing.T) {
	// Full-support density with an interior mode at x = 1.
	f := FuncOf(func(x float64) float64 { d := x - 1; return math.Exp(-0.5 * d * d) })
	df := FuncOf(func(x float64) float64 { d := x - 1; return -d * math.Exp(-0.5*d*d) })
	init := MidpointPrepartition(f, -2, 4, P64, 0)
	table, err := NewtonTabulation(f, df, init, P64, []float64{1}, 1e-6, 1, 50)
	if err != nil {
		t.Fatal(err)
	}

	// The cell straddling the mode must carry the modal supremum.
	for i := 0; i < P64.Size(); i++ {
		if table.X[i] < 1 && table.X[i+1] >= 1 {
			if math.Abs(table.Ysup[i]-1) > 1e-3 {
				t.Fatalf("modal cell supremum %v, want ≈ 1", table.Ysup[i])
			}
			return
		}
	}
	t.Fatal("no cell straddles the mode")
}

func TestNewtonTabulationFailure(t *testing.T) {
	f, df := normalHalfPdf()
	init := MidpointPrepartition(f, 0, 3.25, P128, 0)
	_, err := NewtonTabulation(f, df, init, P128, nil, 1e-14, 0.1, 1)
	if !errors.Is(err, ErrTabulation) {
		t.Fatalf("got %v, want ErrTabulation", err)
	}
}

func TestProcessTableWedgeConsistency(t *testing.T) {
	f, df := normalHalfPdf()
	init := MidpointPrepartition(f, 0, 3.25, P128, 0)
	table, err := NewtonTabulation(f, df, init, P128, nil, 1e-6, 1, 20)
	if err != nil {
		t.Fatal(err)
	}

	tailSwitch := maxTailSwitch[uint64](P128, 0)
	data := processTable[float64, uint64](0, table, tailSwitch)

	if len(data.table) != P128.Size()+1 {
		t.Fatalf("data length %d", len(data.table))
	}
	for i := 0; i < P128.Size(); i++ {
		d := data.table[i]
		if d.wedgeSwitch == 0 {
			if d.alpha != 0 {
				t.Fatalf("cell %d forced to wedge but alpha = %v", i, d.alpha)
			}
			continue
		}
		dx := table.X[i+1] - table.X[i]
		w := table.Yinf[i] / table.Ysup[i] * float64(tailSwitch)
		if math.Abs(d.alpha-dx/w) > 1e-15*math.Abs(d.alpha) {
			t.Fatalf("cell %d alpha %v inconsistent with dx/w %v", i, d.alpha, dx/w)
		}
	}
	if data.table[P128.Size()].beta != table.X[P128.Size()] {
		t.Fatal("sentinel beta mismatch")
	}
}

func TestProcessTableDegenerateCell(t *testing.T) {
	// A cell whose infimum is vanishingly small relative to its supremum
	// must be forced onto the wedge path.
	init := NewInitTable[float64](P16)
	for i := range init.X {
		init.X[i] = float64(i)
	}
	for i := range init.Ysup {
		init.Ysup[i] = 1
		init.Yinf[i] = 0.75
	}
	init.Yinf[3] = 1e-12

	data := processTable[float64, uint64](0, init, maxTailSwitch[uint64](P16, 0))
	if data.table[3].wedgeSwitch != 0 || data.table[3].alpha != 0 {
		t.Fatalf("degenerate cell not forced to wedge: %+v", data.table[3])
	}
	if data.table[2].wedgeSwitch == 0 {
		t.Fatal("healthy cell unexpectedly degenerate")
	}
}

func TestFastPathAcceptanceRate(t *testing.T) {
	// The rectangular fast path must cover the overwhelming share of
	// draws for a smooth density at realistic table sizes.
	f, df := normalHalfPdf()
	init := MidpointPrepartition(f, 0, 3.25, P256, 0)
	table, err := NewtonTabulation(f, df, init, P256, nil, 1e-6, 1, 20)
	if err != nil {
		t.Fatal(err)
	}

	tailSwitch := maxTailSwitch[uint64](P256, 1)
	data := processTable[float64, uint64](0, table, tailSwitch)

	var accept float64
	span := float64(uint64(1) << (64 - P256.Bits() - 1))
	for i := 0; i < P256.Size(); i++ {
		accept += float64(data.table[i].wedgeSwitch) / span
	}
	accept /= float64(P256.Size())
	if accept < 0.97 {
		t.Fatalf("fast-path acceptance rate %.4f below 0.97", accept)
	}
}

func TestComputeTailSwitchProportion(t *testing.T) {
	init := NewInitTable[float64](P16)
	for i := range init.X {
		init.X[i] = float64(i)
	}
	for i := range init.Ysup {
		init.Ysup[i] = 1
		init.Yinf[i] = 1
	}
	// Total table area 16; a tail area of 16/3 allocates 3/4 of the word
	// range to the table.
	tailArea := 16.0 / 3.0
	sw := computeTailSwitch[float64, uint64](init, tailArea, 0)
	maxSw := maxTailSwitch[uint64](P16, 0)
	want := 0.75 * float64(maxSw)
	if math.Abs(float64(sw)-want) > 1 {
		t.Fatalf("tail switch %d, want ≈ %v", sw, want)
	}
}
