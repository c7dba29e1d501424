// Package options prices European options with Garman–Kohlhagen (FX) and
// Black–Scholes with a continuous dividend yield. Both share one
// generalized model where the carry q is the foreign rate or the yield.
package options

import (
	"math"

	perrors "plinius-pricer/internal/errors"
	"plinius-pricer/internal/models"
	"plinius-pricer/internal/numeric"
)

// GarmanKohlhagen prices an FX option. rd is the domestic rate, rf the
// foreign rate.
func GarmanKohlhagen(spot, strike float64, rd, rf, vol models.Rate, expiry float64, call bool) (models.OptionValuation, error) {
	return generalized(spot, strike, rd, rf, vol, expiry, call)
}

// BlackScholes prices an option on an asset paying a continuous dividend
// yield q.
func BlackScholes(spot, strike float64, r, q, vol models.Rate, expiry float64, call bool) (models.OptionValuation, error) {
	return generalized(spot, strike, r, q, vol, expiry, call)
}

// Value prices OptionTerms with the model that matches kind.
func Value(kind models.Kind, terms models.OptionTerms) (models.OptionValuation, error) {
	switch kind {
	case models.KindFXOption:
		return GarmanKohlhagen(terms.Spot, terms.Strike, terms.Rate, terms.Carry, terms.Vol, terms.Expiry, terms.Call)
	case models.KindVanillaOption:
		return BlackScholes(terms.Spot, terms.Strike, terms.Rate, terms.Carry, terms.Vol, terms.Expiry, terms.Call)
	}
	return models.OptionValuation{}, perrors.Wrapf(perrors.ErrUnknownKind, "%q is not an option kind", kind)
}

// D1D2 returns d1, d2 and the denominator σ√T used for d1. A zero
// denominator (T == 0 or σ == 0) is replaced by 1 so d1 stays finite.
func D1D2(spot, strike, r, q, sig, t float64) (d1, d2, den float64) {
	sqrtT := math.Sqrt(t)
	den = sig * sqrtT
	if den == 0 || math.IsNaN(den) {
		den = 1
	}
	d1 = (math.Log(spot/strike) + (r-q+0.5*sig*sig)*t) / den
	d2 = d1 - sig*sqrtT
	return d1, d2, den
}

func generalized(spot, strike float64, rate, carry, vol models.Rate, expiry float64, call bool) (models.OptionValuation, error) {
	if err := validate(spot, strike, rate, carry, vol, expiry); err != nil {
		return models.OptionValuation{}, err
	}

	r, q, sig := rate.Decimal(), carry.Decimal(), vol.Decimal()
	t := math.Max(expiry, 0)

	d1, d2, den := D1D2(spot, strike, r, q, sig, t)
	eq := math.Exp(-q * t)
	er := math.Exp(-r * t)
	nd1 := numeric.NormalPDF(d1)

	v := models.OptionValuation{D1: d1, D2: d2}

	// σ/(2√T) written as σ²/(2·den) so the guarded denominator applies.
	decay := -spot * eq * nd1 * sig * sig / (2 * den)

	v.Greeks.Gamma = eq * nd1 / (spot * den)
	v.Greeks.Vega = spot * eq * nd1 * math.Sqrt(t)

	if call {
		Nd1, Nd2 := numeric.NormalCDF(d1), numeric.NormalCDF(d2)
		v.Price = spot*eq*Nd1 - strike*er*Nd2
		v.Greeks.Delta = eq * Nd1
		v.Greeks.Theta = decay + q*spot*eq*Nd1 - r*strike*er*Nd2
		v.Greeks.Rho = strike * t * er * Nd2
	} else {
		Nmd1, Nmd2 := numeric.NormalCDF(-d1), numeric.NormalCDF(-d2)
		v.Price = strike*er*Nmd2 - spot*eq*Nmd1
		v.Greeks.Delta = eq * (numeric.NormalCDF(d1) - 1)
		v.Greeks.Theta = decay - q*spot*eq*Nmd1 + r*strike*er*Nmd2
		v.Greeks.Rho = -strike * t * er * Nmd2
	}

	if expiry <= 0 {
		v.Price = Intrinsic(spot, strike, call)
	}
	g := v.Greeks
	if err := numeric.CheckResult("option", v.Price, v.D1, v.D2, g.Delta, g.Gamma, g.Vega, g.Theta, g.Rho); err != nil {
		return models.OptionValuation{}, err
	}
	return v, nil
}

// Intrinsic returns max(S-K, 0) for calls and max(K-S, 0) for puts.
func Intrinsic(spot, strike float64, call bool) float64 {
	if call {
		return math.Max(spot-strike, 0)
	}
	return math.Max(strike-spot, 0)
}

func validate(spot, strike float64, rate, carry, vol models.Rate, expiry float64) error {
	if !numeric.IsFinite(spot) || spot <= 0 {
		return perrors.NewValidationError("spot", spot, "must be a positive finite number")
	}
	if !numeric.IsFinite(strike) || strike <= 0 {
		return perrors.NewValidationError("strike", strike, "must be a positive finite number")
	}
	if !rate.IsFinite() || !carry.IsFinite() {
		return perrors.NewValidationError("rate", rate.Decimal(), "rates must be finite")
	}
	if !vol.IsFinite() || vol.Decimal() < 0 {
		return perrors.NewValidationError("vol", vol.Decimal(), "must be finite and non-negative")
	}
	if !numeric.IsFinite(expiry) {
		return perrors.NewValidationError("expiry", expiry, "must be finite")
	}
	return nil
}
