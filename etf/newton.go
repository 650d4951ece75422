package etf

import (
	"errors"
	"fmt"
	"math"
)

// ErrTabulation is returned when the Newton tabulator cannot converge for
// the requested PDF and partition.
var ErrTabulation = errors.New("equal-area tabulation did not converge")

// solveTridiag solves a tri-diagonal system with the Thomas algorithm.
// Diagonal terms and RHS are modified in place. All slices have equal
// length.
func solveTridiag[T Real](a []T, b []T, c []T, rhs []T, sol []T) {
	m := len(a)

	// Eliminate the sub-diagonal.
	for i := 1; i < m; i++ {
		pivot := a[i] / b[i-1]
		b[i] -= pivot * c[i-1]
		rhs[i] -= pivot * rhs[i-1]
	}

	// Solve the remaining upper bi-diagonal system.
	sol[m-1] = rhs[m-1] / b[m-1]
	for i := m - 2; i >= 0; i-- {
		sol[i] = (rhs[i] - c[i]*sol[i+1]) / b[i]
	}
}

// NewtonTabulation computes an equal-area initialisation table with a
// multivariate Newton method.
//
// Starting from the node vector xInit (length p.Size()+1), the interior
// nodes are iterated until the rectangles of the upper Riemann sum of f
// have equal areas: convergence is reached when the spread between the
// largest and smallest rectangle areas, relative to the mean area, drops
// below tolerance. f, its derivative df and an ordered list of the interior
// extrema of f must be provided.
//
// A relaxation coefficient below 1 trades convergence speed for
// robustness. ErrTabulation is returned if maxIter iterations do not reach
// the tolerance or if the areas degenerate to NaN.
func NewtonTabulation[T Real](f, df Func[T], xInit []T, p Partition, xExtrema []T, tolerance, relaxation T, maxIter int) (*InitTable[T], error) {
	n := p.Size()
	if len(xInit) != n+1 {
		return nil, fmt.Errorf("initial node vector has %d nodes, partition needs %d", len(xInit), n+1)
	}

	table := NewInitTable[T](p)
	copy(table.X, xInit)

	// Main vectors.
	y := make([]T, n+1)
	dx := make([]T, n-1)
	dyDx := make([]T, n+1)
	dysupDxl := make([]T, n)
	dysupDxr := make([]T, n)
	minusS := make([]T, n-1)
	dsDxc := make([]T, n-1)
	dsDxl := make([]T, n-1)
	dsDxr := make([]T, n-1)

	// Keep only the extrema that lie strictly inside the partition.
	type extremum struct{ x, y T }
	var extrema []extremum
	for _, xe := range xExtrema {
		if xe > table.X[0] && xe < table.X[n] {
			extrema = append(extrema, extremum{xe, f.Eval(xe)})
		}
	}

	// Boundary values are constants.
	y[0] = f.Eval(table.X[0])
	y[n] = f.Eval(table.X[n])
	dyDx[0] = 0
	dyDx[n] = 0

	x := table.X
	yinf := table.Yinf
	ysup := table.Ysup

	for iter := 0; ; iter++ {
		// Update inner node values.
		for i := 1; i < n; i++ {
			y[i] = f.Eval(x[i])
			dyDx[i] = df.Eval(x[i])
		}

		// Determine the supremum of f within [x[i], x[i+1]), the partial
		// derivatives of the supremum with respect to x[i] and x[i+1], and
		// the minimum, maximum and total rectangle areas. The extremum
		// cursor advances monotonically since the node vector is
		// monotonic at every iterate.
		cursor := 0
		var maxArea T
		minArea := T(math.Inf(1))
		var sumArea T
		for i := 0; i < n; i++ {
			if y[i] > y[i+1] {
				ysup[i] = y[i]
				dysupDxl[i] = dyDx[i]
				dysupDxr[i] = 0
			} else {
				ysup[i] = y[i+1]
				dysupDxl[i] = 0
				dysupDxr[i] = dyDx[i+1]
			}

			// Raise the supremum when an interior extremum dominates; its
			// position does not move with the nodes, so the partial
			// derivatives vanish.
			for cursor < len(extrema) {
				e := extrema[cursor]
				if (e.x > x[i]) != (e.x > x[i+1]) {
					if e.y > ysup[i] {
						ysup[i] = e.y
						dysupDxl[i] = 0
						dysupDxr[i] = 0
					}
					cursor++
				} else {
					break
				}
			}

			area := ysup[i] * Abs(x[i+1]-x[i])
			if area > maxArea {
				maxArea = area
			}
			if area < minArea {
				minArea = area
			}
			sumArea += area
		}

		meanArea := sumArea / T(n)
		if math.IsNaN(float64(meanArea)) {
			return nil, fmt.Errorf("%w: area became NaN after %d iterations", ErrTabulation, iter)
		}

		if maxArea-minArea < tolerance*meanArea {
			// The areas still differ slightly, which would bias sampling
			// since cells are drawn as equiprobable. Inflate ysup so every
			// area equals maxArea; the top-floor rejection becomes
			// marginally looser.
			for i := 0; i < n; i++ {
				ysup[i] = maxArea / Abs(x[i+1]-x[i])
			}

			// Determine the infimum of f in [x[i], x[i+1]).
			cursor = 0
			for i := 0; i < n; i++ {
				if y[i] > y[i+1] {
					yinf[i] = y[i+1]
				} else {
					yinf[i] = y[i]
				}
				for cursor < len(extrema) {
					e := extrema[cursor]
					if (e.x > x[i]) != (e.x > x[i+1]) {
						if e.y < yinf[i] {
							yinf[i] = e.y
						}
						cursor++
					} else {
						break
					}
				}
			}

			return table, nil
		}

		if iter >= maxIter {
			return nil, fmt.Errorf("%w after %d iterations", ErrTabulation, maxIter)
		}

		// Difference in area between neighboring rectangles and partial
		// derivatives of the residual with respect to x[i], x[i+1], x[i+2].
		for i := 0; i < n-1; i++ {
			minusS[i] = ysup[i]*(x[i+1]-x[i]) - ysup[i+1]*(x[i+2]-x[i+1])

			dsDxl[i] = ysup[i] - (x[i+1]-x[i])*dysupDxl[i]
			dsDxc[i] = (x[i+2]-x[i+1])*dysupDxl[i+1] -
				(x[i+1]-x[i])*dysupDxr[i] -
				(ysup[i] + ysup[i+1])
			dsDxr[i] = ysup[i+1] + (x[i+2]-x[i+1])*dysupDxr[i+1]
		}

		// Solve the tri-diagonal system S + (dS/dX)·dX = 0 for the update
		// of the interior nodes.
		solveTridiag(dsDxl, dsDxc, dsDxr, minusS, dx)

		// Constrain each updated node within the bounds set by its former
		// neighbours; this guard against node crossings is what keeps the
		// iteration stable on stiff PDFs.
		for i := 1; i < n; i++ {
			xmin, xmax := x[i-1], x[i+1]
			if xmax < xmin {
				xmin, xmax = xmax, xmin
			}
			xi := x[i] + relaxation*dx[i-1]
			if xi > xmax {
				xi = xmax
			}
			if xi < xmin {
				xi = xmin
			}
			x[i] = xi
		}
	}
}
