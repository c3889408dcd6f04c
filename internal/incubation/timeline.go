// Package incubation turns a batch's set date and species parameters into a
// care schedule and answers "where is this batch today" questions. Every
// function here is pure: callers pass the current date explicitly.
package incubation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD calendar date. Full RFC 3339 timestamps are
// accepted and truncated to their date part.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) > len(DateLayout) && value[len(DateLayout)] == 'T' {
		value = value[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return t, nil
}

// FormatDate renders the calendar date of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay keeps the calendar date of t (in t's own location) and drops the
// time of day. The result is expressed in UTC so day arithmetic never crosses
// a daylight-saving shift.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateForIncubationDay returns the calendar date of incubation day `day`.
// Day 0 is the set date itself.
func DateForIncubationDay(setDate time.Time, day int) time.Time {
	return StartOfDay(setDate).AddDate(0, 0, day)
}

// CurrentIncubationDay counts whole calendar days from the set date to today.
// Negative means the batch has not been set yet, 0 is set day.
func CurrentIncubationDay(today, setDate time.Time) int {
	diff := StartOfDay(today).Sub(StartOfDay(setDate))
	return int(math.Round(diff.Hours() / 24))
}

// ProgressPercentage reports how far through incubation currentDay is, in [0, 100].
func ProgressPercentage(currentDay, incubationDays int) float64 {
	if currentDay <= 0 || incubationDays <= 0 {
		return 0
	}
	pct := float64(currentDay) / float64(incubationDays) * 100
	return math.Min(math.Max(pct, 0), 100)
}

// EstimatedHatchDate is the set date plus the species incubation length.
func EstimatedHatchDate(setDate time.Time, incubationDays int) time.Time {
	return DateForIncubationDay(setDate, incubationDays)
}

// IsActive reports whether today falls between set day and the end of the
// hatch window, inclusive.
func IsActive(today, setDate time.Time, s models.Species) bool {
	day := CurrentIncubationDay(today, setDate)
	return day >= 0 && day <= s.HatchWindowEnd()
}

// IsCompleted reports whether the hatch window is over.
func IsCompleted(today, setDate time.Time, s models.Species) bool {
	return CurrentIncubationDay(today, setDate) > s.HatchWindowEnd()
}
