package cli

import (
	"github.com/spf13/cobra"
)

// addHelpCommands adds help and documentation commands.
func addHelpCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newExamplesCmd(app))
}

func newExamplesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Show common workflow examples",
		Long:  "Display examples of common pricing and comparison workflows.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			output.Bold("Common Workflow Examples")
			output.Println()

			examples := []struct {
				title    string
				commands []string
			}{
				{
					title: "Compare Bonds",
					commands: []string{
						"plinius price bond --coupon 9 --ytm 10.5 --years 5 --save",
						"plinius price bond --coupon 7 --ytm 9.8 --years 10 --save",
						"plinius series bond price-ytm",
						"plinius series bond dv01-ytm --format csv > dv01.csv",
					},
				},
				{
					title: "CETES",
					commands: []string{
						"plinius price cetes --rate 11 --days 28 --save",
						"plinius rates effective --rate 11 --days 28",
						"plinius rates yield --price 9.9152 --days 28",
					},
				},
				{
					title: "TIIE Swaps",
					commands: []string{
						"plinius curve show",
						"plinius price swap --fixed 10 --mode curve --save",
						"plinius price swap --fixed 10 --discount 9.5 --save",
						"plinius series swap pv-shift",
					},
				},
				{
					title: "Options",
					commands: []string{
						"plinius price fx --spot 17.5 --strike 17.8 --vol 12 --save",
						"plinius price option --spot 100 --strike 100 --vol 20 --put",
						"plinius series fx delta-spot",
					},
				},
				{
					title: "Housekeeping",
					commands: []string{
						"plinius scenario list --kind swap",
						"plinius scenario remove <id>",
						"plinius config show",
					},
				},
			}

			for _, ex := range examples {
				output.Info(ex.title)
				for _, c := range ex.commands {
					output.Printf("  %s\n", c)
				}
				output.Println()
			}
			return nil
		},
	}
}
