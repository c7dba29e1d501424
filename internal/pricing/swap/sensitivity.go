package swap

import (
	perrors "plinius-pricer/internal/errors"
	"plinius-pricer/internal/models"
	"plinius-pricer/internal/numeric"
)

// Repricer values an instrument with its discounting inputs shifted by
// shiftBps basis points.
type Repricer func(shiftBps float64) (float64, error)

// ShockAndReprice returns PV(shock) - PV(0). It is a finite difference, not
// an analytic derivative.
func ShockAndReprice(reprice Repricer, shockBps float64) (float64, error) {
	base, err := reprice(0)
	if err != nil {
		return 0, err
	}
	shocked, err := reprice(shockBps)
	if err != nil {
		return 0, err
	}
	return shocked - base, nil
}

// DV01Flat is the PV change for a +1bp move of the flat discount rate.
func DV01Flat(notional float64, fixed, discount models.Rate, periodLength float64, nPeriods int) (float64, error) {
	return ShockAndReprice(func(s float64) (float64, error) {
		return PVFlat(notional, fixed, discount.Shift(s), periodLength, nPeriods)
	}, DV01ShockBps)
}

// DV01Curve is the PV change for a +1bp parallel move of every curve node.
func DV01Curve(notional float64, fixed models.Rate, curve *models.Curve, periodLength float64, nPeriods int) (float64, error) {
	if curve.Len() == 0 {
		return 0, perrors.NewValidationError("curve", nil, "curve mode requires at least one node")
	}
	return ShockAndReprice(func(s float64) (float64, error) {
		return PVCurve(notional, fixed, curve.Shifted(s), periodLength, nPeriods)
	}, DV01ShockBps)
}

// PVAtShift values terms with the discount rate or every curve node moved by
// shiftBps.
func PVAtShift(terms models.SwapTerms, shiftBps float64) (float64, error) {
	switch terms.Mode {
	case models.SwapModeFlat, "":
		return PVFlat(terms.Notional, terms.FixedRate, terms.DiscountRate.Shift(shiftBps), terms.PeriodLength, terms.Periods)
	case models.SwapModeCurve:
		if terms.Curve == nil {
			return 0, perrors.NewValidationError("curve", nil, "curve mode requires a curve")
		}
		return PVCurve(terms.Notional, terms.FixedRate, terms.Curve.Shifted(shiftBps), terms.PeriodLength, terms.Periods)
	}
	return 0, perrors.NewValidationError("mode", terms.Mode, "must be flat or curve")
}

// Value prices SwapTerms: par rate, annuity, PV and DV01.
func Value(terms models.SwapTerms) (models.SwapValuation, error) {
	var df Discounter
	switch terms.Mode {
	case models.SwapModeFlat, "":
		df = FlatDiscounter(terms.DiscountRate)
	case models.SwapModeCurve:
		if terms.Curve == nil {
			return models.SwapValuation{}, perrors.NewValidationError("curve", nil, "curve mode requires a curve")
		}
		df = CurveDiscounter(terms.Curve)
	default:
		return models.SwapValuation{}, perrors.NewValidationError("mode", terms.Mode, "must be flat or curve")
	}

	par, annuity, err := ParRate(df, terms.PeriodLength, terms.Periods)
	if err != nil {
		return models.SwapValuation{}, err
	}
	pv, err := PVWith(df, terms.Notional, terms.FixedRate, terms.PeriodLength, terms.Periods)
	if err != nil {
		return models.SwapValuation{}, err
	}
	var dv01 float64
	if terms.Mode == models.SwapModeCurve {
		dv01, err = DV01Curve(terms.Notional, terms.FixedRate, terms.Curve, terms.PeriodLength, terms.Periods)
	} else {
		dv01, err = DV01Flat(terms.Notional, terms.FixedRate, terms.DiscountRate, terms.PeriodLength, terms.Periods)
	}
	if err != nil {
		return models.SwapValuation{}, err
	}

	if err := numeric.CheckResult("swap", par.Decimal(), annuity, pv, dv01); err != nil {
		return models.SwapValuation{}, err
	}

	return models.SwapValuation{
		ParRate: par,
		Annuity: annuity,
		PV:      pv,
		DV01:    dv01,
	}, nil
}
