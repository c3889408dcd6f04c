// Package cli implements hatchctl, the offline companion of the hatchery server.
package cli

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/species"
	"github.com/mamadbah2/hatchery/pkg/logger"
)

// App carries what every subcommand needs.
type App struct {
	Species *species.Table
	Logger  *zap.Logger
	Now     func() time.Time
}

// NewRootCmd builds the hatchctl command tree. app may be pre-populated by
// tests; missing fields are filled from flags before each command runs.
func NewRootCmd(app *App) *cobra.Command {
	var speciesFile string
	var verbose bool

	root := &cobra.Command{
		Use:           "hatchctl",
		Short:         "Inspect incubation schedules and batch status",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Logger == nil {
				l, err := logger.NewConsole(verbose)
				if err != nil {
					return err
				}
				app.Logger = l
			}
			if app.Now == nil {
				app.Now = time.Now
			}
			if app.Species == nil || cmd.Flags().Changed("species-file") {
				table, err := species.LoadFile(speciesFile)
				if err != nil {
					return err
				}
				app.Species = table
				app.Logger.Debug("species table loaded", zap.Int("species", table.Len()), zap.String("file", speciesFile))
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&speciesFile, "species-file", "", "YAML file overriding the built-in species table")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newSpeciesCmd(app),
		newScheduleCmd(app),
		newStatusCmd(app),
		newBatchesCmd(app),
	)
	return root
}
