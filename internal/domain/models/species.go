package models

// NoMisting is the misting start day used by species that are never misted.
const NoMisting = 999

// HatchWindowGraceDays is how many days past the expected hatch day the batch
// is still watched for late hatchers.
const HatchWindowGraceDays = 2

// Species captures the biological constants that drive a batch schedule.
// All day values are 1-indexed: day 1 is the day after the eggs are set.
type Species struct {
	ID                  string `json:"id" yaml:"id"`
	Name                string `json:"name" yaml:"name"`
	IncubationDays      int    `json:"incubationDays" yaml:"incubation_days"`
	DefaultCandlingDays []int  `json:"defaultCandlingDays" yaml:"default_candling_days"`
	MistingStartDay     int    `json:"mistingStartDay" yaml:"misting_start_day"`
	LockdownDay         int    `json:"lockdownDay" yaml:"lockdown_day"`
}

// HatchWindowEnd returns the last incubation day of the hatch window.
func (s Species) HatchWindowEnd() int {
	return s.IncubationDays + HatchWindowGraceDays
}

// NeedsMisting reports whether any misting day falls before lockdown.
func (s Species) NeedsMisting() bool {
	return s.MistingStartDay < s.LockdownDay
}

// IsDefaultCandlingDay reports whether day is one of the species' default candling days.
func (s Species) IsDefaultCandlingDay(day int) bool {
	for _, d := range s.DefaultCandlingDays {
		if d == day {
			return true
		}
	}
	return false
}
