// Package fixedincome prices coupon bonds and CETES-style discount bills.
//
// All rates cross the package boundary as models.Rate; periodic discounting
// uses y = ytm / frequency with no day-count refinement.
package fixedincome

import (
	"math"

	perrors "plinius-pricer/internal/errors"
	"plinius-pricer/internal/models"
	"plinius-pricer/internal/numeric"
)

// Yield search bounds for BondYTM, annualised percent.
const (
	ytmLowPct     = 0.0
	ytmHighPct    = 60.0
	ytmIterations = 64
)

// BondPrice discounts every coupon (coupon/freq × face) and the face value at
// the periodic yield ytm/freq.
func BondPrice(face float64, coupon, ytm models.Rate, nPeriods, freq int) (float64, error) {
	if err := validateBond(face, coupon, nPeriods, freq); err != nil {
		return 0, err
	}
	y, err := periodicYield(ytm, freq)
	if err != nil {
		return 0, err
	}
	p := price(face, coupon.Decimal()*face/float64(freq), y, nPeriods)
	if err := numeric.CheckResult("price", p); err != nil {
		return 0, err
	}
	return p, nil
}

// BondYTM solves BondPrice(...) == price for the yield by bisection over
// [0%, 60%] with a fixed 64 iterations. Yields outside that range clamp to
// the nearest bound.
func BondYTM(price, face float64, coupon models.Rate, nPeriods, freq int) (models.Rate, error) {
	if err := validateBond(face, coupon, nPeriods, freq); err != nil {
		return models.Rate{}, err
	}
	if !numeric.IsFinite(price) || price <= 0 {
		return models.Rate{}, perrors.NewValidationError("price", price, "must be a positive finite number")
	}

	lo, hi := ytmLowPct, ytmHighPct
	for i := 0; i < ytmIterations; i++ {
		mid := (lo + hi) / 2
		p, err := BondPrice(face, coupon, models.Percent(mid), nPeriods, freq)
		if err != nil {
			return models.Rate{}, err
		}
		// price falls as yield rises
		if p > price {
			lo = mid
		} else {
			hi = mid
		}
	}
	return models.Percent((lo + hi) / 2), nil
}

// BondCashflows returns the coupon schedule with the face value added to the
// last period.
func BondCashflows(face float64, coupon models.Rate, nPeriods, freq int) ([]models.Cashflow, error) {
	if err := validateBond(face, coupon, nPeriods, freq); err != nil {
		return nil, err
	}
	c := coupon.Decimal() * face / float64(freq)
	flows := make([]models.Cashflow, nPeriods)
	for t := 1; t <= nPeriods; t++ {
		flows[t-1] = models.Cashflow{Period: t, Cashflow: c}
	}
	flows[nPeriods-1].Cashflow += face
	return flows, nil
}

// BondRisk computes price, Macaulay and modified duration, convexity and
// DV01. Durations are in years; DV01 is modified duration × price / 10000.
func BondRisk(face float64, coupon, ytm models.Rate, nPeriods, freq int) (models.BondRisk, error) {
	flows, err := BondCashflows(face, coupon, nPeriods, freq)
	if err != nil {
		return models.BondRisk{}, err
	}
	y, err := periodicYield(ytm, freq)
	if err != nil {
		return models.BondRisk{}, err
	}

	var pv, weighted, second float64
	for _, cf := range flows {
		t := float64(cf.Period)
		d := cf.Cashflow / math.Pow(1+y, t)
		pv += d
		weighted += t * d
		second += t * (t + 1) * d
	}
	if err := numeric.CheckResult("price", pv, weighted, second); err != nil {
		return models.BondRisk{}, err
	}
	if pv <= 0 {
		return models.BondRisk{}, perrors.NewValidationError("price", pv, "bond has no positive value")
	}

	f := float64(freq)
	mac := weighted / pv / f
	mod := mac / (1 + y)
	conv := second / pv / math.Pow(1+y, 2) / (f * f)
	if err := numeric.CheckResult("risk", mac, mod, conv); err != nil {
		return models.BondRisk{}, err
	}

	return models.BondRisk{
		Price:            pv,
		MacaulayDuration: mac,
		ModifiedDuration: mod,
		Convexity:        conv,
		DV01:             mod * pv / 10000,
	}, nil
}

// PriceBond prices BondTerms, deriving the period count from years × frequency.
func PriceBond(terms models.BondTerms) (models.BondRisk, error) {
	return BondRisk(terms.Face, terms.Coupon, terms.YTM, terms.Periods(), terms.Frequency)
}

func price(face, c, y float64, n int) float64 {
	var pv float64
	for t := 1; t <= n; t++ {
		pv += c / math.Pow(1+y, float64(t))
	}
	return pv + face/math.Pow(1+y, float64(n))
}

func periodicYield(ytm models.Rate, freq int) (float64, error) {
	if !ytm.IsFinite() {
		return 0, perrors.NewValidationError("ytm", ytm.Decimal(), "must be finite")
	}
	y := ytm.Decimal() / float64(freq)
	if y <= -1 {
		return 0, perrors.NewValidationError("ytm", ytm.Percent(), "periodic yield must exceed -100%")
	}
	return y, nil
}

func validateBond(face float64, coupon models.Rate, nPeriods, freq int) error {
	if !numeric.IsFinite(face) || face <= 0 {
		return perrors.NewValidationError("face", face, "must be a positive finite number")
	}
	if !coupon.IsFinite() {
		return perrors.NewValidationError("coupon", coupon.Decimal(), "must be finite")
	}
	if freq <= 0 {
		return perrors.NewValidationError("frequency", freq, "must be at least 1")
	}
	if nPeriods <= 0 {
		return perrors.NewValidationError("periods", nPeriods, "must be at least 1")
	}
	return nil
}
