package etf

// MidpointPrepartition divides [x0, x1] into p.Size() sub-intervals of
// approximately equal area under f, to serve as the Newton tabulator's
// initial guess.
//
// The function is first approximated by a rectangular midpoint quadrature
// over a regular grid of m cells; the node positions are then obtained by
// walking the cumulated rectangle area and interpolating linearly inside
// the straddled cell. If m is zero the grid count defaults to the
// partition size.
func MidpointPrepartition[T Real](f Func[T], x0, x1 T, p Partition, m int) []T {
	n := p.Size()
	if m == 0 {
		m = n
	}

	// Mid-point evaluation.
	dx := (x1 - x0) / T(m)
	y := make([]T, m)
	for i := 0; i < m; i++ {
		y[i] = f.Eval(x0 + (T(i)+0.5)*dx)
	}

	x := make([]T, n+1)

	// Choose abscissae that evenly split the area under the curve.
	var sum T
	for _, v := range y {
		sum += v
	}
	ds := sum / T(n) // expected average sub-partition area
	rect := 0
	xRect := x0 + dx
	aRect := y[0] // cumulated rectangle area, normalized by 1/|dx|
	for i := 1; i < n; i++ {
		// Expected cumulated area from x0 to the current node.
		a := ds * T(i)

		// Consume rectangles until the cumulated area reaches a.
		for aRect < a {
			rect++
			aRect += y[rect]
			xRect += dx
		}

		x[i] = xRect - dx*((aRect-a)/y[rect])
	}

	// Nullify accumulated rounding on the end nodes.
	x[0] = x0
	x[n] = x1

	return x
}
