package cli

import (
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	perrors "plinius-pricer/internal/errors"
	"plinius-pricer/internal/models"
	"plinius-pricer/internal/series"
)

// seriesRow is one (scenario, x, y) sample in CSV exports.
type seriesRow struct {
	ScenarioID string  `csv:"scenario_id"`
	Label      string  `csv:"label"`
	Color      string  `csv:"color"`
	X          float64 `csv:"x"`
	Y          float64 `csv:"y"`
}

// addSeriesCommands adds scenario comparison series.
func addSeriesCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "series <kind> [metric]",
		Short: "Compare saved scenarios across a swept input",
		Long: `Reprice every saved scenario of a kind across a fixed input sweep,
changing only the swept variable. Without a metric, the available metrics for
the kind are listed.

Sweeps:
  bond            price-ytm, dv01-ytm    YTM 4%..20%, 33 points
  treasury-bill   price-rate             rate 2%..20%, 25 points
  swap            pv-fixed               fixed rate 5%..25%, 41 points
                  pv-shift               parallel shift -200..+200bp, 41 points
  fx-option       price-spot, delta-spot spot [min*0.7, max*1.3], 37 points
                  vega-vol               vol 5%..40%, 36 points
  vanilla-option  price-spot, delta-spot spot [min*0.7, max*1.3], 37 points
                  vega-vol               vol 5%..60%, 56 points`,
		Example: `  plinius series bond price-ytm
  plinius series swap pv-shift --format csv > swaps.csv
  plinius series fx`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			kind, err := models.ParseKind(args[0])
			if err != nil {
				return err
			}

			if len(args) == 1 {
				return listMetrics(output, kind)
			}

			format, _ := cmd.Flags().GetString("format")
			format = strings.ToLower(format)
			if output.IsJSON() {
				format = "json"
			}
			if format != "table" && format != "json" && format != "csv" {
				return perrors.NewValidationError("format", format, "must be table, json or csv")
			}

			scenarios, err := app.Scenarios(cmd.Context())
			if err != nil {
				return err
			}
			set, err := app.Series.Build(cmd.Context(), kind, args[1], scenarios.List(kind))
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return output.JSON(set)
			case "csv":
				return writeSeriesCSV(output, set)
			}
			printSeriesTable(output, set)
			return nil
		},
	}
	cmd.Flags().String("format", "table", "output format: table, json or csv")

	rootCmd.AddCommand(cmd)
}

func listMetrics(output *Output, kind models.Kind) error {
	metrics, err := series.Metrics(kind)
	if err != nil {
		return err
	}
	if output.IsJSON() {
		return output.JSON(metrics)
	}
	table := NewTable(output, "Metric", "Title", "X", "Y")
	for _, m := range metrics {
		table.AddRow(m.ID, m.Title, m.XLabel, m.YLabel)
	}
	table.Render()
	return nil
}

func writeSeriesCSV(output *Output, set models.SeriesSet) error {
	rows := make([]seriesRow, 0)
	for _, s := range set.Series {
		for _, p := range s.Points {
			rows = append(rows, seriesRow{ScenarioID: s.ScenarioID, Label: s.Label, Color: s.Color, X: p.X, Y: p.Y})
		}
	}
	return gocsv.Marshal(&rows, output.writer)
}

// printSeriesTable prints one row per x value and one column per scenario.
func printSeriesTable(output *Output, set models.SeriesSet) {
	if len(set.Series) == 0 {
		output.Dim("No saved %s scenarios.", set.Kind)
		return
	}

	headers := []string{set.XLabel}
	for _, s := range set.Series {
		headers = append(headers, fmt.Sprintf("%s %s", ShortID(s.ScenarioID), TruncateString(s.Label, 24)))
	}
	table := NewTable(output, headers...)

	d := output.Decimals()
	for i, p := range set.Series[0].Points {
		row := []string{FormatNumber(p.X, 2)}
		for _, s := range set.Series {
			row = append(row, FormatNumber(s.Points[i].Y, d))
		}
		table.AddRow(row...)
	}

	output.Bold("%s: %s vs %s", set.Kind, set.YLabel, set.XLabel)
	table.Render()
}
