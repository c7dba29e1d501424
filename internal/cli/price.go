package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	perrors "plinius-pricer/internal/errors"
	"plinius-pricer/internal/models"
	"plinius-pricer/internal/pricing"
)

// addPriceCommands adds the live pricing calculators.
func addPriceCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price an instrument",
		Long: `Price an instrument from flags and print its risk figures.

Rates, yields and volatilities are given in percent (10.5 means 10.5%).
Use --save to keep the result as a scenario for later comparison.`,
	}

	cmd.PersistentFlags().Bool("save", false, "save the result as a scenario")
	cmd.PersistentFlags().String("label", "", "scenario label (default: generated)")

	cmd.AddCommand(newPriceBondCmd(app))
	cmd.AddCommand(newPriceCetesCmd(app))
	cmd.AddCommand(newPriceSwapCmd(app))
	cmd.AddCommand(newPriceOptionCmd(app, models.KindFXOption))
	cmd.AddCommand(newPriceOptionCmd(app, models.KindVanillaOption))

	rootCmd.AddCommand(cmd)
}

func newPriceBondCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bond",
		Aliases: []string{"bono"},
		Short:   "Price a fixed-coupon bond",
		Example: `  plinius price bond --coupon 9 --ytm 10.5 --years 5
  plinius price bond --face 100 --coupon 8 --ytm 9.25 --years 10 --freq 2 --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrice(cmd, app, bondFromFlags(cmd))
		},
	}
	addBondFlags(cmd)
	cmd.Flags().Float64("ytm", 10.5, "yield to maturity (%)")
	return cmd
}

func addBondFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("face", 100, "face value")
	cmd.Flags().Float64("coupon", 9, "annual coupon rate (%)")
	cmd.Flags().Float64("years", 5, "years to maturity")
	cmd.Flags().Int("freq", 2, "coupons per year")
}

// bondFromFlags reads the bond flags. Commands without --ytm leave the yield at zero.
func bondFromFlags(cmd *cobra.Command) models.Instrument {
	face, _ := cmd.Flags().GetFloat64("face")
	coupon, _ := cmd.Flags().GetFloat64("coupon")
	ytm, _ := cmd.Flags().GetFloat64("ytm")
	years, _ := cmd.Flags().GetFloat64("years")
	freq, _ := cmd.Flags().GetInt("freq")
	return models.Instrument{Kind: models.KindBond, Bond: &models.BondTerms{
		Face:      face,
		Coupon:    models.Percent(coupon),
		YTM:       models.Percent(ytm),
		Years:     years,
		Frequency: freq,
	}}
}

func newPriceCetesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cetes",
		Aliases: []string{"bill"},
		Short:   "Price a CETES discount bill",
		Example: `  plinius price cetes --rate 11 --days 28`,
		RunE: func(cmd *cobra.Command, args []string) error {
			face, _ := cmd.Flags().GetFloat64("face")
			rate, _ := cmd.Flags().GetFloat64("rate")
			days, _ := cmd.Flags().GetInt("days")
			return runPrice(cmd, app, models.Instrument{Kind: models.KindTreasuryBill, Bill: &models.BillTerms{
				Face: face,
				Rate: models.Percent(rate),
				Days: days,
			}})
		},
	}
	cmd.Flags().Float64("face", 10, "face value")
	cmd.Flags().Float64("rate", 11, "discount rate, simple Actual/360 (%)")
	cmd.Flags().Int("days", 28, "days to maturity")
	return cmd
}

func newPriceSwapCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "swap",
		Aliases: []string{"irs"},
		Short:   "Price a fixed-for-floating TIIE swap",
		Long: `Price a fixed-for-floating swap off a flat rate or a zero curve.

A positive PV is value to the receiver of the fixed leg. DV01 is the PV change
for a 1bp parallel shift of the discount rate or curve.

Curve nodes are given as tenor:zero pairs, tenor in years and zero in percent.
Without --curve the indicative TIIE curve is used in curve mode.`,
		Example: `  plinius price swap --fixed 10 --discount 9.5
  plinius price swap --fixed 10 --mode curve
  plinius price swap --fixed 10 --mode curve --curve 0.25:10.9,1:10.3,5:9.2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := swapFromFlags(cmd)
			if err != nil {
				return err
			}
			return runPrice(cmd, app, in)
		},
	}
	cmd.Flags().Float64("notional", 1_000_000, "notional")
	cmd.Flags().Float64("fixed", 10, "fixed rate (%)")
	cmd.Flags().Int("period-days", 28, "days per period (Actual/360)")
	cmd.Flags().Int("periods", 13, "number of periods")
	cmd.Flags().String("mode", string(models.SwapModeFlat), "discounting: flat or curve")
	cmd.Flags().Float64("discount", 9.5, "flat discount rate (%)")
	cmd.Flags().String("curve", "", "zero curve nodes, e.g. 0.25:10.9,1:10.3")
	return cmd
}

func swapFromFlags(cmd *cobra.Command) (models.Instrument, error) {
	notional, _ := cmd.Flags().GetFloat64("notional")
	fixed, _ := cmd.Flags().GetFloat64("fixed")
	periodDays, _ := cmd.Flags().GetInt("period-days")
	periods, _ := cmd.Flags().GetInt("periods")
	mode, _ := cmd.Flags().GetString("mode")
	discount, _ := cmd.Flags().GetFloat64("discount")
	curveSpec, _ := cmd.Flags().GetString("curve")

	terms := &models.SwapTerms{
		Notional:     notional,
		FixedRate:    models.Percent(fixed),
		PeriodLength: float64(periodDays) / 360,
		Periods:      periods,
		Mode:         models.SwapMode(strings.ToLower(mode)),
		DiscountRate: models.Percent(discount),
	}
	switch terms.Mode {
	case models.SwapModeFlat:
	case models.SwapModeCurve:
		curve := models.DefaultTIIECurve()
		if curveSpec != "" {
			var err error
			if curve, err = ParseCurve(curveSpec); err != nil {
				return models.Instrument{}, err
			}
		}
		terms.Curve = curve
	default:
		return models.Instrument{}, perrors.NewValidationError("mode", mode, "must be flat or curve")
	}
	return models.Instrument{Kind: models.KindSwap, Swap: terms}, nil
}

// ParseCurve parses "tenor:zero,..." with zero rates in percent.
func ParseCurve(spec string) (*models.Curve, error) {
	curve := &models.Curve{}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tStr, zStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, perrors.NewValidationError("curve", part, "node must be tenor:zero")
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(tStr), 64)
		if err != nil {
			return nil, perrors.NewValidationError("curve", part, "tenor is not a number")
		}
		z, err := strconv.ParseFloat(strings.TrimSpace(zStr), 64)
		if err != nil {
			return nil, perrors.NewValidationError("curve", part, "zero rate is not a number")
		}
		if _, err := curve.AddNode(t, models.Percent(z)); err != nil {
			return nil, err
		}
	}
	if curve.Len() == 0 {
		return nil, perrors.NewValidationError("curve", spec, "at least one node is required")
	}
	return curve, nil
}

func newPriceOptionCmd(app *App, kind models.Kind) *cobra.Command {
	cmd := &cobra.Command{
		RunE: func(cmd *cobra.Command, args []string) error {
			spot, _ := cmd.Flags().GetFloat64("spot")
			strike, _ := cmd.Flags().GetFloat64("strike")
			vol, _ := cmd.Flags().GetFloat64("vol")
			expiry, _ := cmd.Flags().GetFloat64("expiry")
			put, _ := cmd.Flags().GetBool("put")

			terms := &models.OptionTerms{
				Spot:   spot,
				Strike: strike,
				Vol:    models.Percent(vol),
				Expiry: expiry,
				Call:   !put,
			}
			if kind == models.KindFXOption {
				rd, _ := cmd.Flags().GetFloat64("rd")
				rf, _ := cmd.Flags().GetFloat64("rf")
				terms.Rate, terms.Carry = models.Percent(rd), models.Percent(rf)
			} else {
				r, _ := cmd.Flags().GetFloat64("rate")
				q, _ := cmd.Flags().GetFloat64("div")
				terms.Rate, terms.Carry = models.Percent(r), models.Percent(q)
			}
			return runPrice(cmd, app, models.Instrument{Kind: kind, Option: terms})
		},
	}

	if kind == models.KindFXOption {
		cmd.Use = "fx"
		cmd.Short = "Price a European FX option (Garman-Kohlhagen)"
		cmd.Example = `  plinius price fx --spot 17.5 --strike 17.8 --rd 11 --rf 5 --vol 12 --expiry 0.5`
		cmd.Flags().Float64("spot", 17.5, "spot (domestic per foreign)")
		cmd.Flags().Float64("strike", 17.5, "strike")
		cmd.Flags().Float64("rd", 11, "domestic rate (%)")
		cmd.Flags().Float64("rf", 5, "foreign rate (%)")
		cmd.Flags().Float64("vol", 12, "volatility (%)")
	} else {
		cmd.Use = "option"
		cmd.Aliases = []string{"vanilla"}
		cmd.Short = "Price a European option (Black-Scholes with dividend yield)"
		cmd.Example = `  plinius price option --spot 100 --strike 100 --rate 5 --vol 20 --expiry 1 --put`
		cmd.Flags().Float64("spot", 100, "spot")
		cmd.Flags().Float64("strike", 100, "strike")
		cmd.Flags().Float64("rate", 10, "risk-free rate (%)")
		cmd.Flags().Float64("div", 0, "continuous dividend yield (%)")
		cmd.Flags().Float64("vol", 20, "volatility (%)")
	}
	cmd.Flags().Float64("expiry", 0.5, "time to expiry (years)")
	cmd.Flags().Bool("put", false, "price a put instead of a call")
	return cmd
}

// priceResult is the JSON shape of a priced instrument.
type priceResult struct {
	Label      string            `json:"label"`
	Instrument models.Instrument `json:"instrument"`
	Valuation  models.Valuation  `json:"valuation"`
	Scenario   *models.Scenario  `json:"scenario,omitempty"`
}

func runPrice(cmd *cobra.Command, app *App, in models.Instrument) error {
	output := NewOutput(cmd, app)

	val, err := pricing.Evaluate(in)
	if err != nil {
		return err
	}

	label, _ := cmd.Flags().GetString("label")
	if label == "" {
		label = pricing.Label(in)
	}
	result := priceResult{Label: label, Instrument: in, Valuation: val}

	if save, _ := cmd.Flags().GetBool("save"); save {
		scenarios, err := app.Scenarios(cmd.Context())
		if err != nil {
			return err
		}
		sc, err := scenarios.Add(cmd.Context(), label, in)
		if err != nil {
			return err
		}
		result.Scenario = &sc
	}

	if output.IsJSON() {
		return output.JSON(result)
	}

	printValuation(output, label, val)
	if result.Scenario != nil {
		output.Println()
		output.Success("✓ Saved scenario %s (%s)", ShortID(result.Scenario.ID), output.Swatch(result.Scenario.Color))
	}
	output.Println()
	output.Dim("Indicative figures only.")
	return nil
}

func printValuation(output *Output, label string, val models.Valuation) {
	d := output.Decimals()
	num := func(v float64) string { return FormatNumber(v, d) }

	switch {
	case val.Bond != nil:
		b := val.Bond
		output.KeyValues(label, [][2]string{
			{"Price:", num(b.Price)},
			{"Macaulay duration:", num(b.MacaulayDuration)},
			{"Modified duration:", num(b.ModifiedDuration)},
			{"Convexity:", num(b.Convexity)},
			{"DV01:", num(b.DV01)},
		})
	case val.Bill != nil:
		b := val.Bill
		output.KeyValues(label, [][2]string{
			{"Price:", num(b.Price)},
			{"Discount:", num(b.Discount)},
			{"Effective annual (approx):", FormatRate(b.EffectiveAnnual, d)},
		})
	case val.Swap != nil:
		s := val.Swap
		output.KeyValues(label, [][2]string{
			{"Par rate:", FormatRate(s.ParRate, d)},
			{"Annuity:", num(s.Annuity)},
			{"PV (receive fixed):", output.Signed(s.PV, FormatNumber(s.PV, 2))},
			{"DV01:", output.Signed(s.DV01, FormatNumber(s.DV01, 2))},
		})
	case val.Option != nil:
		o := val.Option
		output.KeyValues(label, [][2]string{
			{"Price:", num(o.Price)},
			{"d1 / d2:", fmt.Sprintf("%.4f / %.4f", o.D1, o.D2)},
			{"Delta:", num(o.Greeks.Delta)},
			{"Gamma:", num(o.Greeks.Gamma)},
			{"Vega:", num(o.Greeks.Vega)},
			{"Theta (per year):", num(o.Greeks.Theta)},
			{"Rho:", num(o.Greeks.Rho)},
		})
	}
}
