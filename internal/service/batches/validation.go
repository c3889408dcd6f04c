package batches

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/incubation"
)

// ErrInvalidInput is wrapped by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

const (
	minNameLength = 2
	maxNameLength = 50
	minEggs       = 1
	maxEggs       = 1000
	maxNotes      = 500
)

// Input carries the user-editable fields of a batch.
type Input struct {
	Name               string               `json:"name"`
	SpeciesID          string               `json:"speciesId"`
	StartDate          string               `json:"startDate"`
	NumberOfEggs       int                  `json:"numberOfEggs"`
	IncubatorType      models.IncubatorType `json:"incubatorType"`
	CustomCandlingDays []int                `json:"customCandlingDays"`
	Notes              string               `json:"notes"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// normalize validates in against the species table and returns the cleaned
// input together with the resolved species.
func (s *Service) normalize(in Input) (Input, models.Species, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Notes = strings.TrimSpace(in.Notes)
	in.StartDate = strings.TrimSpace(in.StartDate)

	if n := utf8.RuneCountInString(in.Name); n < minNameLength || n > maxNameLength {
		return Input{}, models.Species{}, invalid("name must be between %d and %d characters", minNameLength, maxNameLength)
	}

	sp, ok := s.species.Get(in.SpeciesID)
	if !ok {
		return Input{}, models.Species{}, invalid("unknown species %q", in.SpeciesID)
	}

	date, err := incubation.ParseDate(in.StartDate)
	if err != nil {
		return Input{}, models.Species{}, invalid("start date must be YYYY-MM-DD")
	}
	in.StartDate = incubation.FormatDate(date)

	if in.NumberOfEggs < minEggs || in.NumberOfEggs > maxEggs {
		return Input{}, models.Species{}, invalid("number of eggs must be between %d and %d", minEggs, maxEggs)
	}

	if in.IncubatorType == "" {
		in.IncubatorType = models.IncubatorManual
	}
	if !in.IncubatorType.Valid() {
		return Input{}, models.Species{}, invalid("incubator type must be manual or auto")
	}

	if utf8.RuneCountInString(in.Notes) > maxNotes {
		return Input{}, models.Species{}, invalid("notes must be at most %d characters", maxNotes)
	}

	in.CustomCandlingDays = FilterCandlingDays(in.CustomCandlingDays, sp.IncubationDays)
	return in, sp, nil
}

// FilterCandlingDays keeps the days within [1, maxDay], sorted and without duplicates.
func FilterCandlingDays(days []int, maxDay int) []int {
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d > 0 && d <= maxDay {
			out = append(out, d)
		}
	}
	return incubation.NormalizeCandlingDays(out)
}

// ParseCandlingDays reads a comma separated day list such as "5, 12,18".
// Entries that are not numbers or fall outside [1, maxDay] are dropped.
func ParseCandlingDays(input string, maxDay int) []int {
	var days []int
	for _, part := range strings.Split(input, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	return FilterCandlingDays(days, maxDay)
}

func validateCandling(batch models.Batch, sp models.Species, day, fertile int) error {
	if day < 1 || day > sp.IncubationDays {
		return invalid("candling day must be between 1 and %d", sp.IncubationDays)
	}
	if fertile < 0 || fertile > batch.NumberOfEggs {
		return invalid("fertile count must be between 0 and %d", batch.NumberOfEggs)
	}
	return nil
}

// validateEggCount rejects an egg count below what was already recorded for the batch.
func validateEggCount(batch models.Batch, eggs int) error {
	if batch.HatchedEggs != nil && eggs < *batch.HatchedEggs {
		return invalid("number of eggs cannot be below the %d already hatched", *batch.HatchedEggs)
	}
	for _, r := range batch.CandlingResults {
		if eggs < r.Fertile {
			return invalid("number of eggs cannot be below the %d fertile eggs candled on day %d", r.Fertile, r.Day)
		}
	}
	return nil
}

func validateHatched(batch models.Batch, count int) error {
	if count < 0 || count > batch.NumberOfEggs {
		return invalid("hatched count must be between 0 and %d", batch.NumberOfEggs)
	}
	if fertile, ok := incubation.LastFertileCount(batch); ok && count > fertile {
		return invalid("hatched count cannot exceed the %d fertile eggs of the last candling", fertile)
	}
	return nil
}

func sortCandling(results []models.CandlingResult) {
	slices.SortStableFunc(results, func(a, b models.CandlingResult) int {
		return a.Day - b.Day
	})
}
