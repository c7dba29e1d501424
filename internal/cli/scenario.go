package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	perrors "plinius-pricer/internal/errors"
	"plinius-pricer/internal/models"
	"plinius-pricer/internal/scenario"
)

// addScenarioCommands adds saved scenario management.
func addScenarioCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:     "scenario",
		Aliases: []string{"scenarios", "sc"},
		Short:   "Manage saved scenarios",
		Long: `Saved scenarios are frozen snapshots of priced instruments, kept in
insertion order. Colors are assigned from the configured palette when a
scenario is saved and never change.`,
	}

	cmd.AddCommand(newScenarioListCmd(app))
	cmd.AddCommand(newScenarioShowCmd(app))
	cmd.AddCommand(newScenarioRemoveCmd(app))
	cmd.AddCommand(newScenarioClearCmd(app))

	rootCmd.AddCommand(cmd)
}

func newScenarioListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved scenarios",
		Example: `  plinius scenario list
  plinius scenario list --kind swap`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			scenarios, err := app.Scenarios(cmd.Context())
			if err != nil {
				return err
			}

			var kinds []models.Kind
			if k, _ := cmd.Flags().GetString("kind"); k != "" {
				kind, err := models.ParseKind(k)
				if err != nil {
					return err
				}
				kinds = append(kinds, kind)
			}

			list := scenarios.List(kinds...)
			if output.IsJSON() {
				return output.JSON(list)
			}
			if len(list) == 0 {
				output.Dim("No saved scenarios. Use 'plinius price <kind> --save' to add one.")
				return nil
			}

			table := NewTable(output, "ID", "Kind", "Label", "Headline", "Color", "Saved")
			for _, sc := range list {
				table.AddRow(
					ShortID(sc.ID),
					string(sc.Kind),
					TruncateString(sc.Label, 40),
					headline(sc.Valuation, output.Decimals()),
					output.Swatch(sc.Color),
					FormatSavedAt(sc.SavedAt),
				)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().String("kind", "", "only list scenarios of this kind")
	return cmd
}

func newScenarioShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			scenarios, err := app.Scenarios(cmd.Context())
			if err != nil {
				return err
			}
			sc, err := findScenario(scenarios, args[0])
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(sc)
			}
			printValuation(output, sc.Label, sc.Valuation)
			output.Println()
			output.Dim("%s · %s · saved %s", sc.ID, sc.Color, FormatSavedAt(sc.SavedAt))
			return nil
		},
	}
}

func newScenarioRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a saved scenario",
		Long:    "Remove a saved scenario by id or unique id prefix. Removing an unknown id is not an error.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			scenarios, err := app.Scenarios(cmd.Context())
			if err != nil {
				return err
			}

			id := args[0]
			if sc, err := findScenario(scenarios, id); err == nil {
				id = sc.ID
			} else if !perrors.Is(err, perrors.ErrScenarioNotFound) {
				return err
			}
			removed := scenarios.Remove(cmd.Context(), id)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"id": id, "removed": removed})
			}
			if removed {
				output.Success("✓ Removed scenario %s", ShortID(id))
			} else {
				output.Dim("No scenario %s", id)
			}
			return nil
		},
	}
}

func newScenarioClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all saved scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			scenarios, err := app.Scenarios(cmd.Context())
			if err != nil {
				return err
			}
			n := scenarios.Len()
			scenarios.Clear(cmd.Context())
			if output.IsJSON() {
				return output.JSON(map[string]int{"removed": n})
			}
			output.Success("✓ Cleared %d scenarios", n)
			return nil
		},
	}
}

// findScenario resolves an exact id or a unique id prefix.
func findScenario(scenarios *scenario.Store, ref string) (models.Scenario, error) {
	if sc, err := scenarios.Get(ref); err == nil {
		return sc, nil
	}
	var match []models.Scenario
	for _, sc := range scenarios.List() {
		if strings.HasPrefix(sc.ID, ref) {
			match = append(match, sc)
		}
	}
	switch len(match) {
	case 0:
		return models.Scenario{}, perrors.Wrapf(perrors.ErrScenarioNotFound, "id %s", ref)
	case 1:
		return match[0], nil
	}
	return models.Scenario{}, perrors.NewValidationError("id", ref, fmt.Sprintf("prefix matches %d scenarios", len(match)))
}

// headline is the single figure shown for a scenario in listings.
func headline(v models.Valuation, decimals int) string {
	switch {
	case v.Bond != nil:
		return "price " + FormatNumber(v.Bond.Price, decimals)
	case v.Bill != nil:
		return "price " + FormatNumber(v.Bill.Price, decimals)
	case v.Swap != nil:
		return "PV " + FormatNumber(v.Swap.PV, 2)
	case v.Option != nil:
		return "price " + FormatNumber(v.Option.Price, decimals)
	}
	return "-"
}
