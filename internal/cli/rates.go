package cli

import (
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	perrors "plinius-pricer/internal/errors"
	"plinius-pricer/internal/models"
	"plinius-pricer/internal/pricing/fixedincome"
)

// addRatesCommands adds rate conversion, bond and curve utilities.
func addRatesCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newRatesCmd(app))
	rootCmd.AddCommand(newBondCmd(app))
	rootCmd.AddCommand(newCurveCmd(app))
}

func newRatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Money-market rate conversions",
		Long: `Approximate money-market conversions.

effective: simple Actual/360 rate to annual Actual/365, r*365/360 (linear, no compounding)
nominal:   annual Actual/365 rate back to Actual/360, r*360/365
yield:     CETES discount yield implied by a price`,
	}

	convert := func(use, short string, fn func(models.Rate, int) (models.Rate, error)) *cobra.Command {
		c := &cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, args []string) error {
				output := NewOutput(cmd, app)
				rate, _ := cmd.Flags().GetFloat64("rate")
				days, _ := cmd.Flags().GetInt("days")
				out, err := fn(models.Percent(rate), days)
				if err != nil {
					return err
				}
				if output.IsJSON() {
					return output.JSON(map[string]interface{}{"input": models.Percent(rate), "days": days, "result": out})
				}
				output.Printf("%s (approx)\n", FormatRate(out, output.Decimals()))
				return nil
			},
		}
		c.Flags().Float64("rate", 11, "input rate (%)")
		c.Flags().Int("days", 28, "period length in days")
		return c
	}

	cmd.AddCommand(convert("effective", "Simple Actual/360 rate to effective annual", fixedincome.SimpleToEffectiveAnnual))
	cmd.AddCommand(convert("nominal", "Effective annual rate to nominal Actual/365", fixedincome.EffectiveToNominal365))

	yield := &cobra.Command{
		Use:   "yield",
		Short: "CETES discount yield from price",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			face, _ := cmd.Flags().GetFloat64("face")
			price, _ := cmd.Flags().GetFloat64("price")
			days, _ := cmd.Flags().GetInt("days")
			r, err := fixedincome.CetesYieldFromPrice(face, price, days)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"face": face, "price": price, "days": days, "yield": r})
			}
			output.Println(FormatRate(r, output.Decimals()))
			return nil
		},
	}
	yield.Flags().Float64("face", 10, "face value")
	yield.Flags().Float64("price", 9.9152, "price")
	yield.Flags().Int("days", 28, "days to maturity")
	cmd.AddCommand(yield)

	return cmd
}

func newBondCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bond",
		Aliases: []string{"bono"},
		Short:   "Bond schedule and yield utilities",
	}

	cashflows := &cobra.Command{
		Use:   "cashflows",
		Short: "Print the coupon schedule",
		Example: `  plinius bond cashflows --coupon 9 --years 5
  plinius bond cashflows --coupon 8 --years 10 --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			in := bondFromFlags(cmd)
			b := in.Bond
			flows, err := fixedincome.BondCashflows(b.Face, b.Coupon, b.Periods(), b.Frequency)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			switch {
			case output.IsJSON() || strings.EqualFold(format, "json"):
				return output.JSON(flows)
			case strings.EqualFold(format, "csv"):
				return gocsv.Marshal(&flows, output.writer)
			case !strings.EqualFold(format, "table"):
				return perrors.NewValidationError("format", format, "must be table, json or csv")
			}

			table := NewTable(output, "Period", "Cashflow")
			for _, f := range flows {
				table.AddRow(FormatNumber(float64(f.Period), 0), FormatNumber(f.Cashflow, 4))
			}
			table.Render()
			return nil
		},
	}
	addBondFlags(cashflows)
	cashflows.Flags().String("format", "table", "output format: table, json or csv")
	cmd.AddCommand(cashflows)

	ytm := &cobra.Command{
		Use:   "ytm",
		Short: "Solve the yield to maturity for a price",
		Long: `Solve the yield to maturity by bisection over 0%..60%.

Yields outside that range are clamped to the nearest bound.`,
		Example: `  plinius bond ytm --price 94.28 --coupon 9 --years 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			in := bondFromFlags(cmd)
			b := in.Bond
			price, _ := cmd.Flags().GetFloat64("price")
			y, err := fixedincome.BondYTM(price, b.Face, b.Coupon, b.Periods(), b.Frequency)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"price": price, "ytm": y})
			}
			output.Println(FormatRate(y, output.Decimals()))
			return nil
		},
	}
	addBondFlags(ytm)
	ytm.Flags().Float64("price", 100, "clean price")
	cmd.AddCommand(ytm)

	return cmd
}

func newCurveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Zero curve utilities",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show a zero curve",
		Long:  "Show the indicative TIIE zero curve, or a curve given with --curve, optionally shifted.",
		Example: `  plinius curve show
  plinius curve show --shift 25
  plinius curve show --curve 0.5:10.7,2:9.8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			curve := models.DefaultTIIECurve()
			if spec, _ := cmd.Flags().GetString("curve"); spec != "" {
				var err error
				if curve, err = ParseCurve(spec); err != nil {
					return err
				}
			}
			if shift, _ := cmd.Flags().GetFloat64("shift"); shift != 0 {
				curve = curve.Shifted(shift)
			}

			if output.IsJSON() {
				return output.JSON(curve)
			}
			table := NewTable(output, "Tenor (y)", "Zero")
			for _, n := range curve.Nodes {
				table.AddRow(FormatNumber(n.T, 2), FormatRate(n.Z, output.Decimals()))
			}
			table.Render()
			return nil
		},
	}
	show.Flags().String("curve", "", "zero curve nodes, e.g. 0.25:10.9,1:10.3")
	show.Flags().Float64("shift", 0, "parallel shift (bp)")
	cmd.AddCommand(show)

	return cmd
}
