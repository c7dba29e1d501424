package numeric

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	perrors "plinius-pricer/internal/errors"
)

// LinSpace returns n evenly spaced values from a to b inclusive.
// n == 1 returns [a]; n <= 0 returns an empty slice.
func LinSpace(a, b float64, n int) []float64 {
	switch {
	case n <= 0:
		return []float64{}
	case n == 1:
		return []float64{a}
	}
	xs := floats.Span(make([]float64, n), a, b)
	xs[n-1] = b
	return xs
}

// InterpLinear interpolates piecewise-linearly over nodes sorted ascending by
// x. Outside the node range it returns the first or last y; it never
// extrapolates.
func InterpLinear(xs, ys []float64, x float64) (float64, error) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return 0, perrors.NewValidationError("nodes", len(xs), "need matching, non-empty x and y slices")
	}

	last := len(xs) - 1
	if x <= xs[0] {
		return ys[0], nil
	}
	if x >= xs[last] {
		return ys[last], nil
	}

	// first index with xs[i] >= x; 1 <= i <= last here
	i := sort.SearchFloat64s(xs, x)
	if xs[i] == x {
		return ys[i], nil
	}

	x0, x1 := xs[i-1], xs[i]
	y0, y1 := ys[i-1], ys[i]
	w := (x - x0) / (x1 - x0)
	return y0 + w*(y1-y0), nil
}
