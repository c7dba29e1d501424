package numeric

import (
	"math"

	perrors "plinius-pricer/internal/errors"
)

// IsFinite reports whether every value is neither NaN nor infinite.
func IsFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// CheckResult returns a ValidationError naming field when any computed value
// overflowed or became NaN.
func CheckResult(field string, values ...float64) error {
	if IsFinite(values...) {
		return nil
	}
	return perrors.NewValidationError(field, values, "inputs produce a non-finite result")
}
