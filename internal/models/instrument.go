package models

import (
	"math"

	perrors "plinius-pricer/internal/errors"
)

// BondTerms describes a fixed-coupon bullet bond.
type BondTerms struct {
	Face      float64 `json:"face"`
	Coupon    Rate    `json:"coupon"`
	YTM       Rate    `json:"ytm"`
	Years     float64 `json:"years"`
	Frequency int     `json:"frequency"`
}

// Periods returns the number of coupon periods, years × frequency rounded.
func (b BondTerms) Periods() int {
	return int(math.Round(b.Years * float64(b.Frequency)))
}

// BondRisk holds a bond price and its rate sensitivities.
type BondRisk struct {
	Price            float64 `json:"price"`
	MacaulayDuration float64 `json:"macaulay_duration"`
	ModifiedDuration float64 `json:"modified_duration"`
	Convexity        float64 `json:"convexity"`
	DV01             float64 `json:"dv01"`
}

// Cashflow is one entry of a bond schedule.
type Cashflow struct {
	Period   int     `json:"period" csv:"period"`
	Cashflow float64 `json:"cashflow" csv:"cashflow"`
}

// BillTerms describes a CETES-style discount instrument.
type BillTerms struct {
	Face float64 `json:"face"`
	Rate Rate    `json:"rate"`
	Days int     `json:"days"`
}

// BillValuation is a priced discount instrument.
type BillValuation struct {
	Price           float64 `json:"price"`
	Discount        float64 `json:"discount"`
	EffectiveAnnual Rate    `json:"effective_annual"`
}

// SwapTerms describes a fixed-for-floating swap priced off a flat rate or a
// zero curve.
type SwapTerms struct {
	Notional     float64  `json:"notional"`
	FixedRate    Rate     `json:"fixed_rate"`
	PeriodLength float64  `json:"period_length"` // years, e.g. 28/360
	Periods      int      `json:"periods"`
	Mode         SwapMode `json:"mode"`
	DiscountRate Rate     `json:"discount_rate"`
	Curve        *Curve   `json:"curve,omitempty"`
}

// SwapValuation is a priced swap.
type SwapValuation struct {
	ParRate Rate    `json:"par_rate"`
	Annuity float64 `json:"annuity"`
	PV      float64 `json:"pv"`
	DV01    float64 `json:"dv01"`
}

// Instrument is a fully specified pricing input. Exactly one terms field is
// set and it must match Kind.
type Instrument struct {
	Kind   Kind         `json:"kind"`
	Bond   *BondTerms   `json:"bond,omitempty"`
	Bill   *BillTerms   `json:"bill,omitempty"`
	Swap   *SwapTerms   `json:"swap,omitempty"`
	Option *OptionTerms `json:"option,omitempty"`
}

// Valuation holds the outputs computed for an Instrument.
type Valuation struct {
	Bond   *BondRisk        `json:"bond,omitempty"`
	Bill   *BillValuation   `json:"bill,omitempty"`
	Swap   *SwapValuation   `json:"swap,omitempty"`
	Option *OptionValuation `json:"option,omitempty"`
}

// Validate checks that the terms present match the kind.
func (in Instrument) Validate() error {
	set := 0
	for _, ok := range []bool{in.Bond != nil, in.Bill != nil, in.Swap != nil, in.Option != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return perrors.NewValidationError("instrument", in.Kind, "exactly one set of terms is required")
	}

	var ok bool
	switch in.Kind {
	case KindBond:
		ok = in.Bond != nil
	case KindTreasuryBill:
		ok = in.Bill != nil
	case KindSwap:
		ok = in.Swap != nil
	case KindFXOption, KindVanillaOption:
		ok = in.Option != nil
	default:
		return perrors.Wrapf(perrors.ErrUnknownKind, "%q", in.Kind)
	}
	if !ok {
		return perrors.NewValidationError("instrument", in.Kind, "terms do not match kind")
	}
	return nil
}

// Clone deep-copies the instrument so a snapshot cannot be mutated through
// the caller's pointers.
func (in Instrument) Clone() Instrument {
	out := Instrument{Kind: in.Kind}
	if in.Bond != nil {
		b := *in.Bond
		out.Bond = &b
	}
	if in.Bill != nil {
		b := *in.Bill
		out.Bill = &b
	}
	if in.Swap != nil {
		s := *in.Swap
		s.Curve = in.Swap.Curve.Clone()
		out.Swap = &s
	}
	if in.Option != nil {
		o := *in.Option
		out.Option = &o
	}
	return out
}

// Clone deep-copies the valuation.
func (v Valuation) Clone() Valuation {
	var out Valuation
	if v.Bond != nil {
		b := *v.Bond
		out.Bond = &b
	}
	if v.Bill != nil {
		b := *v.Bill
		out.Bill = &b
	}
	if v.Swap != nil {
		s := *v.Swap
		out.Swap = &s
	}
	if v.Option != nil {
		o := *v.Option
		out.Option = &o
	}
	return out
}
