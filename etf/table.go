package etf

// datum is the per-cell hot-path record.
type datum[T Real, U Word] struct {
	alpha       T // (x[i+1] - x[i]) / wedgeSwitch[i]
	beta        T // x[i] - x0
	wedgeSwitch U // (yinf / ysup) * tailSwitch
}

type samplerData[T Real, U Word] struct {
	table       []datum[T, U] // N+1 entries, the last a sentinel
	scaledXYsup T             // dx * ysup / tailSwitch
}

// processTable compiles an initialisation table into the hot-path layout.
func processTable[T Real, U Word](x0 T, init *InitTable[T], tailSwitch U) samplerData[T, U] {
	const maxBitLoss = 1
	n := init.P.Size()
	table := make([]datum[T, U], n+1)

	x := init.X
	yinf := init.Yinf
	ysup := init.Ysup

	for i := 0; i < n; i++ {
		// When the rectangular fast path is taken, the position between
		// x[i] and x[i+1] is generated from a word in
		// [0, (yinf/ysup)*tailSwitch]. When yinf/ysup is very small that
		// position would carry a very coarse resolution, so the cell falls
		// back to wedge sampling by zeroing its switch.
		w := yinf[i] / ysup[i] * castWord[T](tailSwitch)
		bitLoss := T(mantBits[T]()) - Log2(w)
		if bitLoss <= maxBitLoss {
			table[i] = datum[T, U]{
				alpha:       (x[i+1] - x[i]) / w,
				beta:        x[i] - x0,
				wedgeSwitch: roundToWord[T, U](w),
			}
		} else {
			table[i] = datum[T, U]{beta: x[i] - x0}
		}
	}

	// The last datum is a sentinel; only beta is ever read.
	table[n] = datum[T, U]{beta: x[n] - x0}

	// Scaled area of a single rectangle, identical for all cells by the
	// equal-area invariant.
	scaledXYsup := (x[1] - x[0]) * ysup[0] / castWord[T](tailSwitch)

	return samplerData[T, U]{table: table, scaledXYsup: scaledXYsup}
}

// maxTailSwitch returns the largest switch value once the table index and
// sign bits are accounted for.
func maxTailSwitch[U Word](p Partition, signBits uint) U {
	return (U(1) << (wordBits[U]() - p.bits - signBits)) - 1
}

// computeTailSwitch splits the uniform word range between the table body
// and the tail envelope proportionally to their areas.
func computeTailSwitch[T Real, U Word](init *InitTable[T], tailArea T, signBits uint) U {
	x := init.X
	ysup := init.Ysup

	var area T
	for i := 0; i < init.P.Size(); i++ {
		area += (x[i+1] - x[i]) * ysup[i]
	}
	maxSwitch := castWord[T](maxTailSwitch[U](init.P, signBits))
	return roundToWord[T, U](maxSwitch * (area / (area + tailArea)))
}
