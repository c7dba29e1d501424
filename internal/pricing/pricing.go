// Package pricing dispatches an Instrument to the module that prices its kind.
package pricing

import (
	"fmt"
	"math"
	"strings"

	perrors "plinius-pricer/internal/errors"
	"plinius-pricer/internal/models"
	"plinius-pricer/internal/pricing/fixedincome"
	"plinius-pricer/internal/pricing/options"
	"plinius-pricer/internal/pricing/swap"
)

// Evaluate prices in with the pricing function matching its kind.
func Evaluate(in models.Instrument) (models.Valuation, error) {
	if err := in.Validate(); err != nil {
		return models.Valuation{}, err
	}

	switch in.Kind {
	case models.KindBond:
		risk, err := fixedincome.PriceBond(*in.Bond)
		if err != nil {
			return models.Valuation{}, err
		}
		return models.Valuation{Bond: &risk}, nil

	case models.KindTreasuryBill:
		bill, err := fixedincome.PriceBill(*in.Bill)
		if err != nil {
			return models.Valuation{}, err
		}
		return models.Valuation{Bill: &bill}, nil

	case models.KindSwap:
		sv, err := swap.Value(*in.Swap)
		if err != nil {
			return models.Valuation{}, err
		}
		return models.Valuation{Swap: &sv}, nil

	case models.KindFXOption, models.KindVanillaOption:
		ov, err := options.Value(in.Kind, *in.Option)
		if err != nil {
			return models.Valuation{}, err
		}
		return models.Valuation{Option: &ov}, nil
	}

	return models.Valuation{}, perrors.Wrapf(perrors.ErrUnknownKind, "%q", in.Kind)
}

// Label builds the short summary shown next to a saved scenario.
func Label(in models.Instrument) string {
	switch in.Kind {
	case models.KindBond:
		if b := in.Bond; b != nil {
			return fmt.Sprintf("Bond %.2f%% @ %.2f%% · %gy", b.Coupon.Percent(), b.YTM.Percent(), b.Years)
		}
	case models.KindTreasuryBill:
		if b := in.Bill; b != nil {
			return fmt.Sprintf("CETES %dd @ %.2f%%", b.Days, b.Rate.Percent())
		}
	case models.KindSwap:
		if s := in.Swap; s != nil {
			days := math.Round(s.PeriodLength * 360)
			if s.Mode == models.SwapModeCurve {
				return fmt.Sprintf("Swap %.2f%% · %d×%gd (curve)", s.FixedRate.Percent(), s.Periods, days)
			}
			return fmt.Sprintf("Swap %.2f%% · %d×%gd (flat %.2f%%)", s.FixedRate.Percent(), s.Periods, days, s.DiscountRate.Percent())
		}
	case models.KindFXOption:
		if o := in.Option; o != nil {
			return fmt.Sprintf("FX %s K=%.2f", o.Side(), o.Strike)
		}
	case models.KindVanillaOption:
		if o := in.Option; o != nil {
			side := o.Side()
			return fmt.Sprintf("%s%s K=%.2f", strings.ToUpper(side[:1]), side[1:], o.Strike)
		}
	}
	return string(in.Kind)
}
