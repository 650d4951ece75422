package etf

// Sampler draws one value from a fixed distribution per call. Samplers are
// immutable after construction; concurrent use is safe as long as each
// goroutine supplies its own Source.
type Sampler[T Real] interface {
	Sample(src Source) T
}

// Envelope samples a proper super-distribution of the PDF beyond the
// table's support. TrySample reports false when the inner
// acceptance-rejection check fails, in which case the outer sampling loop
// restarts. The envelope must dominate the target PDF over the whole tail
// region; violating this silently biases the distribution.
type Envelope[T Real] interface {
	TrySample(src Source) (T, bool)
}

// DistAny samples a distribution of arbitrary shape with bounded support.
type DistAny[T Real, U Word] struct {
	data     samplerData[T, U]
	fn       Func[T]
	uMask    U
	idxShift uint
}

// NewDistAny compiles a sampler from an initialisation table.
func NewDistAny[T Real, U Word](fn Func[T], table *InitTable[T]) (*DistAny[T, U], error) {
	if err := validatePartition[U](table.P, 0); err != nil {
		return nil, err
	}
	maxSwitch := maxTailSwitch[U](table.P, 0)
	idxShift := wordBits[U]() - table.P.bits
	return &DistAny[T, U]{
		data:     processTable[T, U](0, table, maxSwitch),
		fn:       fn,
		uMask:    (U(1) << idxShift) - 1,
		idxShift: idxShift,
	}, nil
}

// Sample draws one value.
func (d *DistAny[T, U]) Sample(src Source) T {
	for {
		r := genWord[U](src)

		// Fraction from the rightmost bits, table index from the leftmost.
		u := r & d.uMask
		i := int(r >> d.idxShift)

		// Common case: the point is below yinf.
		c := &d.data.table[i]
		if u <= c.wedgeSwitch {
			return fma(castWord[T](u), c.alpha, c.beta)
		}

		// Wedge sampling, test y < f(x).
		dx := d.data.table[i+1].beta - c.beta
		x := c.beta + Unit[T](src)*dx
		if d.fn.Test(x, dx, castWord[T](u)*d.data.scaledXYsup) {
			return x
		}
	}
}

// DistAnyTailed samples a distribution of arbitrary shape with
// rejection-sampled tail(s).
type DistAnyTailed[T Real, U Word] struct {
	data       samplerData[T, U]
	fn         Func[T]
	tail       Envelope[T]
	tailSwitch U
	uMask      U
	idxShift   uint
}

// NewDistAnyTailed compiles a sampler from an initialisation table and a
// tail envelope of the given area.
func NewDistAnyTailed[T Real, U Word](fn Func[T], table *InitTable[T], tail Envelope[T], tailArea T) (*DistAnyTailed[T, U], error) {
	if err := validatePartition[U](table.P, 0); err != nil {
		return nil, err
	}
	tailSwitch := computeTailSwitch[T, U](table, tailArea, 0)
	idxShift := wordBits[U]() - table.P.bits
	return &DistAnyTailed[T, U]{
		data:       processTable[T, U](0, table, tailSwitch),
		fn:         fn,
		tail:       tail,
		tailSwitch: tailSwitch,
		uMask:      (U(1) << idxShift) - 1,
		idxShift:   idxShift,
	}, nil
}

// Sample draws one value.
func (d *DistAnyTailed[T, U]) Sample(src Source) T {
	for {
		r := genWord[U](src)

		u := r & d.uMask
		i := int(r >> d.idxShift)

		c := &d.data.table[i]
		if u <= c.wedgeSwitch {
			return fma(castWord[T](u), c.alpha, c.beta)
		}

		// Tail branch.
		if u > d.tailSwitch {
			if x, ok := d.tail.TrySample(src); ok {
				return x
			}
			continue
		}

		// Wedge sampling, test y < f(x).
		dx := d.data.table[i+1].beta - c.beta
		x := c.beta + Unit[T](src)*dx
		if d.fn.Test(x, dx, castWord[T](u)*d.data.scaledXYsup) {
			return x
		}
	}
}

// DistCentral samples a distribution symmetric about the origin with
// bounded support.
type DistCentral[T Real, U Word] struct {
	data  samplerData[T, U]
	fn    Func[T]
	uMask U
	iMask U
	sMask U
	shift uint
}

// NewDistCentral compiles a sampler from an initialisation table covering
// the non-negative half-support.
func NewDistCentral[T Real, U Word](fn Func[T], table *InitTable[T]) (*DistCentral[T, U], error) {
	if err := validatePartition[U](table.P, 1); err != nil {
		return nil, err
	}
	maxSwitch := maxTailSwitch[U](table.P, 1)
	shift := wordBits[U]() - table.P.bits - 1
	return &DistCentral[T, U]{
		data:  processTable[T, U](0, table, maxSwitch),
		fn:    fn,
		uMask: (U(1) << shift) - 1,
		iMask: (U(1) << table.P.bits) - 1,
		sMask: U(1) << (wordBits[U]() - 1),
		shift: shift,
	}, nil
}

// Sample draws one value.
func (d *DistCentral[T, U]) Sample(src Source) T {
	for {
		r := genWord[U](src)

		// Fraction from the rightmost bits, table index from the leftmost
		// bits after the sign bit; the arithmetic shift keeps the top bit
		// in place so it doubles as the IEEE sign bit.
		u := r & d.uMask
		r = arithShift(r, d.shift)
		i := int(r & d.iMask)
		s := r & d.sMask

		c := &d.data.table[i]
		if u <= c.wedgeSwitch {
			return signXor(fma(castWord[T](u), c.alpha, c.beta), s)
		}

		dx := d.data.table[i+1].beta - c.beta
		x := c.beta + Unit[T](src)*dx
		if d.fn.Test(x, dx, castWord[T](u)*d.data.scaledXYsup) {
			return signXor(x, s)
		}
	}
}

// DistCentralTailed samples a distribution symmetric about the origin with
// rejection-sampled tail(s).
type DistCentralTailed[T Real, U Word] struct {
	data       samplerData[T, U]
	fn         Func[T]
	tail       Envelope[T]
	tailSwitch U
	uMask      U
	iMask      U
	sMask      U
	shift      uint
}

// NewDistCentralTailed compiles a sampler from an initialisation table
// covering the non-negative half-support and a positive tail envelope.
func NewDistCentralTailed[T Real, U Word](fn Func[T], table *InitTable[T], tail Envelope[T], tailArea T) (*DistCentralTailed[T, U], error) {
	if err := validatePartition[U](table.P, 1); err != nil {
		return nil, err
	}
	tailSwitch := computeTailSwitch[T, U](table, tailArea, 1)
	shift := wordBits[U]() - table.P.bits - 1
	return &DistCentralTailed[T, U]{
		data:       processTable[T, U](0, table, tailSwitch),
		fn:         fn,
		tail:       tail,
		tailSwitch: tailSwitch,
		uMask:      (U(1) << shift) - 1,
		iMask:      (U(1) << table.P.bits) - 1,
		sMask:      U(1) << (wordBits[U]() - 1),
		shift:      shift,
	}, nil
}

// Sample draws one value.
func (d *DistCentralTailed[T, U]) Sample(src Source) T {
	for {
		r := genWord[U](src)

		u := r & d.uMask
		r = arithShift(r, d.shift)
		i := int(r & d.iMask)
		s := r & d.sMask

		c := &d.data.table[i]
		if u <= c.wedgeSwitch {
			return signXor(fma(castWord[T](u), c.alpha, c.beta), s)
		}

		if u > d.tailSwitch {
			if x, ok := d.tail.TrySample(src); ok {
				return signXor(x, s)
			}
			continue
		}

		dx := d.data.table[i+1].beta - c.beta
		x := c.beta + Unit[T](src)*dx
		if d.fn.Test(x, dx, castWord[T](u)*d.data.scaledXYsup) {
			return signXor(x, s)
		}
	}
}

// DistSymmetric samples a distribution symmetric about x0 with bounded
// support.
type DistSymmetric[T Real, U Word] struct {
	data  samplerData[T, U]
	fn    Func[T]
	x0    T
	uMask U
	iMask U
	sMask U
	shift uint
}

// NewDistSymmetric compiles a sampler from an initialisation table
// covering [x0, x0+half-width].
func NewDistSymmetric[T Real, U Word](x0 T, fn Func[T], table *InitTable[T]) (*DistSymmetric[T, U], error) {
	if err := validatePartition[U](table.P, 1); err != nil {
		return nil, err
	}
	maxSwitch := maxTailSwitch[U](table.P, 1)
	shift := wordBits[U]() - table.P.bits - 1
	return &DistSymmetric[T, U]{
		data:  processTable[T, U](x0, table, maxSwitch),
		fn:    fn,
		x0:    x0,
		uMask: (U(1) << shift) - 1,
		iMask: (U(1) << table.P.bits) - 1,
		sMask: U(1) << (wordBits[U]() - 1),
		shift: shift,
	}, nil
}

// Sample draws one value.
func (d *DistSymmetric[T, U]) Sample(src Source) T {
	for {
		r := genWord[U](src)

		u := r & d.uMask
		r = arithShift(r, d.shift)
		i := int(r & d.iMask)
		s := r & d.sMask

		c := &d.data.table[i]
		if u <= c.wedgeSwitch {
			return d.x0 + signXor(fma(castWord[T](u), c.alpha, c.beta), s)
		}

		dx := d.data.table[i+1].beta - c.beta
		delta := c.beta + Unit[T](src)*dx
		if d.fn.Test(d.x0+delta, dx, castWord[T](u)*d.data.scaledXYsup) {
			return d.x0 + signXor(delta, s)
		}
	}
}

// DistSymmetricTailed samples a distribution symmetric about x0 with
// rejection-sampled tail(s).
type DistSymmetricTailed[T Real, U Word] struct {
	data       samplerData[T, U]
	fn         Func[T]
	x0         T
	tail       Envelope[T]
	tailSwitch U
	uMask      U
	iMask      U
	sMask      U
	shift      uint
}

// NewDistSymmetricTailed compiles a sampler from an initialisation table
// covering [x0, tail cut-in] and an envelope for the upper tail; the lower
// tail is obtained by reflection.
func NewDistSymmetricTailed[T Real, U Word](x0 T, fn Func[T], table *InitTable[T], tail Envelope[T], tailArea T) (*DistSymmetricTailed[T, U], error) {
	if err := validatePartition[U](table.P, 1); err != nil {
		return nil, err
	}
	tailSwitch := computeTailSwitch[T, U](table, tailArea, 1)
	shift := wordBits[U]() - table.P.bits - 1
	return &DistSymmetricTailed[T, U]{
		data:       processTable[T, U](x0, table, tailSwitch),
		fn:         fn,
		x0:         x0,
		tail:       tail,
		tailSwitch: tailSwitch,
		uMask:      (U(1) << shift) - 1,
		iMask:      (U(1) << table.P.bits) - 1,
		sMask:      U(1) << (wordBits[U]() - 1),
		shift:      shift,
	}, nil
}

// Sample draws one value.
func (d *DistSymmetricTailed[T, U]) Sample(src Source) T {
	for {
		r := genWord[U](src)

		u := r & d.uMask
		r = arithShift(r, d.shift)
		i := int(r & d.iMask)
		s := r & d.sMask

		c := &d.data.table[i]
		if u <= c.wedgeSwitch {
			return d.x0 + signXor(fma(castWord[T](u), c.alpha, c.beta), s)
		}

		if u > d.tailSwitch {
			if x, ok := d.tail.TrySample(src); ok {
				return d.x0 + signXor(x-d.x0, s)
			}
			continue
		}

		dx := d.data.table[i+1].beta - c.beta
		delta := c.beta + Unit[T](src)*dx
		if d.fn.Test(d.x0+delta, dx, castWord[T](u)*d.data.scaledXYsup) {
			return d.x0 + signXor(delta, s)
		}
	}
}
