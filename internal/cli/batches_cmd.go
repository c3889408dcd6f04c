package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/hatchery/internal/repository/sqlite"
	"github.com/mamadbah2/hatchery/internal/service/batches"
)

func newBatchesCmd(app *App) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "batches",
		Short: "List the batches stored in a SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sqlite.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			svc := batches.NewService(store, app.Species, app.Logger, batches.WithClock(app.Now))
			list, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No batches.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSPECIES\tSET\tEGGS\tSTATUS\tPENDING TODAY")
			for _, b := range list {
				view, err := svc.View(cmd.Context(), b.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%d\n",
					b.ID, b.Name, b.SpeciesID, b.StartDate, b.NumberOfEggs, view.Label, view.PendingToday)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "data/hatchery.db", "SQLite database written by the server (STORAGE_DRIVER=sqlite)")
	return cmd
}
