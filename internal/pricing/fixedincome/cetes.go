package fixedincome

import (
	perrors "plinius-pricer/internal/errors"
	"plinius-pricer/internal/models"
	"plinius-pricer/internal/numeric"
)

// CETES use simple interest on an actual/360 basis.
const (
	moneyMarketBasis = 360.0
	calendarBasis    = 365.0
)

// CetesPrice discounts face at a simple annual rate: face / (1 + r·days/360).
func CetesPrice(face float64, rate models.Rate, days int) (float64, error) {
	if !numeric.IsFinite(face) || face <= 0 {
		return 0, perrors.NewValidationError("face", face, "must be a positive finite number")
	}
	if !rate.IsFinite() {
		return 0, perrors.NewValidationError("rate", rate.Decimal(), "must be finite")
	}
	if days < 0 {
		return 0, perrors.NewValidationError("days", days, "must not be negative")
	}
	den := 1 + rate.Decimal()*float64(days)/moneyMarketBasis
	if den <= 0 {
		return 0, perrors.NewValidationError("rate", rate.Percent(), "discount factor must be positive")
	}
	return face / den, nil
}

// CetesYieldFromPrice inverts CetesPrice. It returns a zero rate when days <= 0.
func CetesYieldFromPrice(face, price float64, days int) (models.Rate, error) {
	if days <= 0 {
		return models.Decimal(0), nil
	}
	if !numeric.IsFinite(face, price) || face <= 0 || price <= 0 {
		return models.Rate{}, perrors.NewValidationError("price", price, "face and price must be positive finite numbers")
	}
	return models.Decimal((face/price - 1) * moneyMarketBasis / float64(days)), nil
}

// SimpleToEffectiveAnnual converts a simple act/360 rate for a term of days
// to an annual act/365 rate by linear day-count scaling: the term return
// r·d/360 is annualised over d/365 years, which reduces to r·365/360. No
// compounding is applied, so the result is an approximation of the true
// effective annual rate.
func SimpleToEffectiveAnnual(rate models.Rate, days int) (models.Rate, error) {
	if err := validateConversion(rate, days); err != nil {
		return models.Rate{}, err
	}
	d := float64(days)
	term := rate.Decimal() * d / moneyMarketBasis
	return models.Decimal(term * calendarBasis / d), nil
}

// EffectiveToNominal365 converts an annual act/365 rate to a nominal rate on
// the act/360 money-market basis for a term of days, again by linear scaling:
// e·d/365 per term, quoted over d/360 years. It is the exact inverse of
// SimpleToEffectiveAnnual.
func EffectiveToNominal365(rate models.Rate, days int) (models.Rate, error) {
	if err := validateConversion(rate, days); err != nil {
		return models.Rate{}, err
	}
	d := float64(days)
	term := rate.Decimal() * d / calendarBasis
	return models.Decimal(term * moneyMarketBasis / d), nil
}

func validateConversion(rate models.Rate, days int) error {
	if days <= 0 {
		return perrors.NewValidationError("days", days, "must be positive")
	}
	if !rate.IsFinite() {
		return perrors.NewValidationError("rate", rate.Decimal(), "must be finite")
	}
	return nil
}

// PriceBill prices BillTerms.
func PriceBill(terms models.BillTerms) (models.BillValuation, error) {
	p, err := CetesPrice(terms.Face, terms.Rate, terms.Days)
	if err != nil {
		return models.BillValuation{}, err
	}
	eff := terms.Rate
	if terms.Days > 0 {
		if eff, err = SimpleToEffectiveAnnual(terms.Rate, terms.Days); err != nil {
			return models.BillValuation{}, err
		}
	}
	return models.BillValuation{
		Price:           p,
		Discount:        terms.Face - p,
		EffectiveAnnual: eff,
	}, nil
}
