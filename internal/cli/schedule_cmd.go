package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/incubation"
	"github.com/mamadbah2/hatchery/internal/service/batches"
)

// batchFlags are the timeline fields shared by schedule and status.
type batchFlags struct {
	speciesID string
	start     string
	incubator string
	candle    string
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.speciesID, "species", "", "Species id (see `hatchctl species`)")
	cmd.Flags().StringVar(&f.start, "start", "", "Set date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.incubator, "incubator", string(models.IncubatorManual), "Incubator type: manual or auto")
	cmd.Flags().StringVar(&f.candle, "candle", "", "Extra candling days, comma separated")
	_ = cmd.MarkFlagRequired("species")
	_ = cmd.MarkFlagRequired("start")
}

func (f *batchFlags) resolve(app *App) (incubation.TimelineFields, models.Species, error) {
	sp, ok := app.Species.Get(f.speciesID)
	if !ok {
		return incubation.TimelineFields{}, models.Species{}, fmt.Errorf("unknown species %q", f.speciesID)
	}
	date, err := incubation.ParseDate(f.start)
	if err != nil {
		return incubation.TimelineFields{}, models.Species{}, err
	}
	kind := models.IncubatorType(f.incubator)
	if !kind.Valid() {
		return incubation.TimelineFields{}, models.Species{}, fmt.Errorf("incubator must be manual or auto, got %q", f.incubator)
	}

	return incubation.TimelineFields{
		ID:                 "preview",
		StartDate:          incubation.FormatDate(date),
		SpeciesID:          sp.ID,
		IncubatorType:      kind,
		CustomCandlingDays: batches.ParseCandlingDays(f.candle, sp.IncubationDays),
	}, sp, nil
}

func newScheduleCmd(app *App) *cobra.Command {
	var flags batchFlags
	var onDate string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the care schedule a batch would get",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, sp, err := flags.resolve(app)
			if err != nil {
				return err
			}

			tasks := incubation.GenerateTasks(app.Species, fields)
			incubation.SortTasks(tasks)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "%s, set %s, %d tasks\n", sp.Name, fields.StartDate, len(tasks))
			fmt.Fprintln(w, "DATE\tDAY\tTYPE\tDESCRIPTION")
			for _, t := range tasks {
				if onDate != "" && t.Date != onDate {
					continue
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", t.Date, t.DayOfIncubation, t.Type, t.Description)
			}
			return w.Flush()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&onDate, "date", "", "Only show tasks on this date (YYYY-MM-DD)")
	return cmd
}
