package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

func newSpeciesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "species",
		Short: "List the species table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDAYS\tCANDLING\tMISTING\tLOCKDOWN")
			for _, s := range app.Species.List() {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%d\n",
					s.ID, s.Name, s.IncubationDays, joinDays(s.DefaultCandlingDays), mistingLabel(s), s.LockdownDay)
			}
			return w.Flush()
		},
	}
}

func joinDays(days []int) string {
	if len(days) == 0 {
		return "-"
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = fmt.Sprint(d)
	}
	return strings.Join(parts, ",")
}

func mistingLabel(s models.Species) string {
	if !s.NeedsMisting() {
		return "-"
	}
	return fmt.Sprintf("from day %d", s.MistingStartDay)
}
