// Package numeric provides the math primitives shared by the pricing packages.
package numeric

import "math"

// Abramowitz & Stegun 7.1.26 coefficients.
const (
	asP  = 0.3275911
	asA1 = 0.254829592
	asA2 = -0.284496736
	asA3 = 1.421413741
	asA4 = -1.453152027
	asA5 = 1.061405429
)

var invSqrt2Pi = 1 / math.Sqrt(2*math.Pi)

// NormalCDF returns the standard normal cumulative distribution at x using the
// Abramowitz–Stegun rational approximation of erf. Absolute error is below
// 1.5e-7. Negative x is handled through N(x) = 1 - N(-x).
func NormalCDF(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	ax := math.Abs(x) / math.Sqrt2

	t := 1 / (1 + asP*ax)
	poly := ((((asA5*t+asA4)*t+asA3)*t+asA2)*t + asA1) * t
	erf := 1 - poly*math.Exp(-ax*ax)

	return 0.5 * (1 + sign*erf)
}

// NormalPDF returns the standard normal density at x.
func NormalPDF(x float64) float64 {
	return math.Exp(-x*x/2) * invSqrt2Pi
}
