package incubation

import (
	"fmt"
	"time"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

// Phase is the display state of a batch on a given day.
type Phase string

const (
	PhaseUnknown             Phase = "unknown"
	PhaseUpcoming            Phase = "upcoming"
	PhaseSetDay              Phase = "set_day"
	PhaseCompleted           Phase = "completed"
	PhaseLockdownDay         Phase = "lockdown_day"
	PhaseHatchingWindow      Phase = "hatching_window"
	PhaseLockdownApproaching Phase = "lockdown_approaching"
	PhaseActive              Phase = "active"
)

// lockdownWarningDays is how early the dashboard starts counting down to lockdown.
const lockdownWarningDays = 2

// Status is the derived, never persisted, state of a batch.
type Status struct {
	Phase             Phase `json:"phase"`
	Day               int   `json:"day"`
	IncubationDays    int   `json:"incubationDays"`
	DaysUntilStart    int   `json:"daysUntilStart,omitempty"`
	DaysUntilLockdown int   `json:"daysUntilLockdown,omitempty"`
	HatchedEggs       *int  `json:"hatchedEggs,omitempty"`
}

// ClassifyStatus derives the batch phase for `now`. The first matching rule
// wins: upcoming, set day, completed, lockdown day, hatching window, lockdown
// approaching, active. Lockdown day deliberately precedes the hatching window,
// which also starts at the lockdown day, so it keeps its own label.
func ClassifyStatus(now time.Time, batch models.Batch, s models.Species) Status {
	setDate, err := ParseDate(batch.StartDate)
	if err != nil {
		return Status{Phase: PhaseUnknown, IncubationDays: s.IncubationDays}
	}

	day := CurrentIncubationDay(now, setDate)
	st := Status{Day: day, IncubationDays: s.IncubationDays}

	switch {
	case day < 0:
		st.Phase = PhaseUpcoming
		st.DaysUntilStart = -day
	case day == 0:
		st.Phase = PhaseSetDay
	case day > s.HatchWindowEnd():
		st.Phase = PhaseCompleted
		st.HatchedEggs = batch.HatchedEggs
	case day == s.LockdownDay:
		st.Phase = PhaseLockdownDay
	case s.LockdownDay <= day && day <= s.HatchWindowEnd():
		st.Phase = PhaseHatchingWindow
	case s.LockdownDay-day > 0 && s.LockdownDay-day <= lockdownWarningDays:
		st.Phase = PhaseLockdownApproaching
		st.DaysUntilLockdown = s.LockdownDay - day
	default:
		st.Phase = PhaseActive
		st.DaysUntilLockdown = s.LockdownDay - day
	}

	return st
}

// Label renders the short status text shown on batch cards.
func (s Status) Label() string {
	switch s.Phase {
	case PhaseUpcoming:
		return fmt.Sprintf("Starts in %d %s", s.DaysUntilStart, plural(s.DaysUntilStart, "day", "days"))
	case PhaseSetDay:
		return "Set Day"
	case PhaseCompleted:
		if s.HatchedEggs != nil {
			return fmt.Sprintf("Hatched: %d", *s.HatchedEggs)
		}
		return "Completed"
	case PhaseLockdownDay:
		return "Lockdown Day!"
	case PhaseHatchingWindow:
		return "Hatching Window!"
	case PhaseLockdownApproaching:
		return fmt.Sprintf("Lockdown in %d %s", s.DaysUntilLockdown, plural(s.DaysUntilLockdown, "day", "days"))
	case PhaseActive:
		return fmt.Sprintf("Inc. Day: %d", s.Day)
	default:
		return "Status Unknown"
	}
}

// ProgressLabel renders the caption of the progress bar, or "" when none applies.
func (s Status) ProgressLabel() string {
	switch s.Phase {
	case PhaseSetDay:
		return "Incubation begins tomorrow"
	case PhaseActive, PhaseLockdownApproaching, PhaseLockdownDay, PhaseHatchingWindow:
		return fmt.Sprintf("Day %d of %d", s.Day, s.IncubationDays)
	default:
		return ""
	}
}

// Progress is the percentage of the incubation elapsed.
func (s Status) Progress() float64 {
	return ProgressPercentage(s.Day, s.IncubationDays)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
