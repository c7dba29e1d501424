// Package swap prices fixed-for-floating swaps off a flat simple rate or a
// continuously-compounded zero curve.
//
// Period i pays at t_i = i × periodLength (years). PV is
// notional × (fixed - par) × annuity, so a positive PV is value to the party
// receiving the fixed rate.
package swap

import (
	"math"

	perrors "plinius-pricer/internal/errors"
	"plinius-pricer/internal/models"
	"plinius-pricer/internal/numeric"
)

// DV01ShockBps is the parallel shock used for swap DV01.
const DV01ShockBps = 1.0

// Discounter returns the discount factor for a payment at t years.
type Discounter func(t float64) (float64, error)

// DFFlat is the simple-interest discount factor 1 / (1 + r·t).
func DFFlat(r models.Rate, t float64) float64 {
	return 1 / (1 + r.Decimal()*t)
}

// DFCont is the continuously-compounded discount factor exp(-z·t).
func DFCont(z models.Rate, t float64) float64 {
	return math.Exp(-z.Decimal() * t)
}

// FlatDiscounter discounts every period at the same simple rate.
func FlatDiscounter(r models.Rate) Discounter {
	return func(t float64) (float64, error) {
		if !r.IsFinite() {
			return 0, perrors.NewValidationError("discount_rate", r.Decimal(), "must be finite")
		}
		den := 1 + r.Decimal()*t
		if den <= 0 {
			return 0, perrors.NewValidationError("discount_rate", r.Percent(), "discount factor must be positive")
		}
		return DFFlat(r, t), nil
	}
}

// CurveDiscounter discounts off a zero curve, interpolating z linearly in
// tenor and clamping outside the node range.
func CurveDiscounter(c *models.Curve) Discounter {
	return func(t float64) (float64, error) {
		if c.Len() == 0 {
			return 0, perrors.NewValidationError("curve", 0, "at least one node is required")
		}
		z, err := numeric.InterpLinear(c.Tenors(), c.Zeros(), t)
		if err != nil {
			return 0, err
		}
		return DFCont(models.Decimal(z), t), nil
	}
}

// Annuity returns Σ periodLength × DF(t_i) and the final discount factor.
func Annuity(df Discounter, periodLength float64, nPeriods int) (annuity, last float64, err error) {
	if err := validateSchedule(periodLength, nPeriods); err != nil {
		return 0, 0, err
	}
	for i := 1; i <= nPeriods; i++ {
		d, err := df(float64(i) * periodLength)
		if err != nil {
			return 0, 0, err
		}
		annuity += periodLength * d
		last = d
	}
	if !numeric.IsFinite(annuity) || annuity <= 0 {
		return 0, 0, perrors.NewValidationError("annuity", annuity, "must be a positive finite number")
	}
	return annuity, last, nil
}

// ParRate solves (1 - DF(t_n)) / annuity for any discounter.
func ParRate(df Discounter, periodLength float64, nPeriods int) (models.Rate, float64, error) {
	annuity, last, err := Annuity(df, periodLength, nPeriods)
	if err != nil {
		return models.Rate{}, 0, err
	}
	return models.Decimal((1 - last) / annuity), annuity, nil
}

// ParRateFlat is the par swap rate under a flat simple discount rate.
func ParRateFlat(discount models.Rate, periodLength float64, nPeriods int) (models.Rate, error) {
	r, _, err := ParRate(FlatDiscounter(discount), periodLength, nPeriods)
	return r, err
}

// ParRateCurve is the par swap rate under a zero curve.
func ParRateCurve(curve *models.Curve, periodLength float64, nPeriods int) (models.Rate, error) {
	r, _, err := ParRate(CurveDiscounter(curve), periodLength, nPeriods)
	return r, err
}

// PV is notional × (fixed - par) × annuity.
func PV(notional float64, fixed, par models.Rate, annuity float64) float64 {
	return notional * (fixed.Decimal() - par.Decimal()) * annuity
}

// PVWith values a swap against any discounter.
func PVWith(df Discounter, notional float64, fixed models.Rate, periodLength float64, nPeriods int) (float64, error) {
	if !numeric.IsFinite(notional) {
		return 0, perrors.NewValidationError("notional", notional, "must be finite")
	}
	if !fixed.IsFinite() {
		return 0, perrors.NewValidationError("fixed_rate", fixed.Decimal(), "must be finite")
	}
	par, annuity, err := ParRate(df, periodLength, nPeriods)
	if err != nil {
		return 0, err
	}
	return PV(notional, fixed, par, annuity), nil
}

// PVFlat values a swap under a flat simple discount rate.
func PVFlat(notional float64, fixed, discount models.Rate, periodLength float64, nPeriods int) (float64, error) {
	return PVWith(FlatDiscounter(discount), notional, fixed, periodLength, nPeriods)
}

// PVCurve values a swap under a zero curve.
func PVCurve(notional float64, fixed models.Rate, curve *models.Curve, periodLength float64, nPeriods int) (float64, error) {
	return PVWith(CurveDiscounter(curve), notional, fixed, periodLength, nPeriods)
}

func validateSchedule(periodLength float64, nPeriods int) error {
	if !numeric.IsFinite(periodLength) || periodLength <= 0 {
		return perrors.NewValidationError("period_length", periodLength, "must be a positive number of years")
	}
	if nPeriods <= 0 {
		return perrors.NewValidationError("periods", nPeriods, "must be at least 1")
	}
	return nil
}
