package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"plinius-pricer/internal/config"
	"plinius-pricer/internal/logging"
	"plinius-pricer/internal/scenario"
	"plinius-pricer/internal/series"
	"plinius-pricer/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-01"
)

// App holds the application dependencies. The scenario store is opened on
// first use so pure pricing commands never touch storage.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	KV     store.KV
	Series *series.Builder

	scenarios *scenario.Store
}

// NewApp creates an App. cfg may be nil, in which case the root command
// loads it from --config before running.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config: cfg,
		Logger: logger,
		Series: series.NewBuilder(logger, 0),
	}
}

// Scenarios returns the scenario store, opening the configured backend on
// first call.
func (a *App) Scenarios(ctx context.Context) (*scenario.Store, error) {
	if a.scenarios != nil {
		return a.scenarios, nil
	}
	if a.KV == nil {
		kv, err := openKV(a.Config)
		if err != nil {
			return nil, err
		}
		a.KV = kv
		a.Logger.Debug().Str("driver", a.Config.Storage.Driver).Msg("Scenario storage opened")
	}

	s, err := scenario.NewStore(ctx, a.KV, scenario.Config{
		Key:     a.Config.Storage.Key,
		Palette: a.Config.Scenarios.Palette,
		Retry:   a.Config.RetryConfig(),
		Breaker: a.Config.Breaker(),
		Logger:  a.Logger,
	})
	if err != nil {
		return nil, err
	}
	a.scenarios = s
	return s, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	if a.KV == nil {
		return nil
	}
	err := a.KV.Close()
	a.KV = nil
	a.scenarios = nil
	return err
}

func openKV(cfg *config.Config) (store.KV, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return store.NewMemoryKV(), nil
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0755); err != nil {
			return nil, fmt.Errorf("creating storage directory: %w", err)
		}
		return store.NewSQLiteKV(cfg.Storage.Path)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	return newRootCmd(NewApp(cfg, logger))
}

func newRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "plinius",
		Short: "Plinius - indicative pricing for Mexican fixed income, swaps and options",
		Long: `Plinius prices bonds, CETES, TIIE swaps, FX options and vanilla options,
saves priced scenarios and compares them across fixed input sweeps.

All figures are indicative.

Use 'plinius <command> --help' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Config == nil {
				dir, _ := cmd.Flags().GetString("config")
				cfg, err := config.Load(dir)
				if err != nil {
					return err
				}
				app.Config = cfg
				app.Logger = logging.NewLoggerWithConfig(cfg.LogConfig())
				app.Series = series.NewBuilder(app.Logger, 0)
			}

			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
				app.Series = series.NewBuilder(app.Logger, 0)
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), app.Logger))
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/plinius)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addPriceCommands(rootCmd, app)
	addScenarioCommands(rootCmd, app)
	addSeriesCommands(rootCmd, app)
	addRatesCommands(rootCmd, app)
	addHelpCommands(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("Plinius v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			path := app.Config.Path
			if path == "" {
				path = filepath.Join(config.DefaultConfigDir(), "config.toml")
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": path})
			}
			output.Println(path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.KeyValues("Storage", [][2]string{
		{"Driver:", cfg.Storage.Driver},
		{"Path:", cfg.Storage.Path},
		{"Key:", cfg.Storage.Key},
	})
	output.Println()

	palette := make([]string, len(cfg.Scenarios.Palette))
	for i, c := range cfg.Scenarios.Palette {
		palette[i] = output.Swatch(c)
	}
	output.Bold("Scenario Palette")
	for i, p := range palette {
		output.Printf("  %d. %s\n", i+1, p)
	}
	output.Println()

	output.KeyValues("Persistence", [][2]string{
		{"Max Attempts:", fmt.Sprintf("%d", cfg.Persistence.MaxAttempts)},
		{"Initial Delay:", cfg.Persistence.InitialDelay.String()},
		{"Max Delay:", cfg.Persistence.MaxDelay.String()},
		{"Breaker Threshold:", fmt.Sprintf("%d", cfg.Persistence.BreakerThreshold)},
		{"Breaker Cooldown:", cfg.Persistence.BreakerCooldown.String()},
	})
	output.Println()

	output.KeyValues("Logging", [][2]string{
		{"Level:", cfg.Logging.Level},
		{"Console:", fmt.Sprintf("%v", cfg.Logging.Console)},
		{"File:", fmt.Sprintf("%v (%s)", cfg.Logging.File, cfg.Logging.FilePath)},
	})
	output.Println()

	output.KeyValues("UI", [][2]string{
		{"Color:", fmt.Sprintf("%v", cfg.UI.ColorEnabled)},
		{"Decimals:", fmt.Sprintf("%d", cfg.UI.Decimals)},
	})
	return nil
}

// Execute runs the CLI and releases storage afterwards.
func Execute(args []string) error {
	app := NewApp(nil, zerolog.Nop())
	defer app.Close()

	root := newRootCmd(app)
	root.SetArgs(args)
	return root.Execute()
}
