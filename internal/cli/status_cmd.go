package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/incubation"
)

func newStatusCmd(app *App) *cobra.Command {
	var flags batchFlags
	var today string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show where a batch set on --start stands today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, sp, err := flags.resolve(app)
			if err != nil {
				return err
			}

			now := app.Now()
			if today != "" {
				if now, err = incubation.ParseDate(today); err != nil {
					return err
				}
			}

			st := incubation.ClassifyStatus(now, models.Batch{StartDate: fields.StartDate}, sp)
			setDate, _ := incubation.ParseDate(fields.StartDate)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", sp.Name, st.Label())
			if label := st.ProgressLabel(); label != "" {
				fmt.Fprintf(out, "%s (%.0f%%)\n", label, st.Progress())
			}
			fmt.Fprintf(out, "Estimated hatch: %s\n", incubation.FormatDate(incubation.EstimatedHatchDate(setDate, sp.IncubationDays)))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&today, "today", "", "Evaluate as of this date instead of now (YYYY-MM-DD)")
	return cmd
}
