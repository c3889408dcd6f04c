package species

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

// overrideFile is the YAML layout accepted by LoadFile.
type overrideFile struct {
	Species []models.Species `yaml:"species"`
}

// LoadFile reads species overrides from a YAML file and merges them over the
// built-in table. An empty path returns the defaults.
func LoadFile(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading species file: %w", err)
	}

	return Parse(data)
}

// Parse merges YAML species definitions over the built-in table.
func Parse(data []byte) (*Table, error) {
	var file overrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	entries := append([]models.Species{}, defaults...)
	for i, s := range file.Species {
		if err := Validate(s); err != nil {
			return nil, fmt.Errorf("species entry %d: %w", i, err)
		}
		if s.MistingStartDay == 0 {
			s.MistingStartDay = models.NoMisting
		}
		entries = append(entries, s)
	}

	return NewTable(entries...), nil
}

// Validate checks that a species definition is internally consistent.
func Validate(s models.Species) error {
	switch {
	case s.ID == "":
		return fmt.Errorf("id is required")
	case s.Name == "":
		return fmt.Errorf("species %q: name is required", s.ID)
	case s.IncubationDays < 1:
		return fmt.Errorf("species %q: incubation_days must be at least 1", s.ID)
	case s.LockdownDay < 1 || s.LockdownDay > s.IncubationDays:
		return fmt.Errorf("species %q: lockdown_day %d outside 1..%d", s.ID, s.LockdownDay, s.IncubationDays)
	}

	for _, day := range s.DefaultCandlingDays {
		if day < 1 || day > s.IncubationDays {
			return fmt.Errorf("species %q: candling day %d outside 1..%d", s.ID, day, s.IncubationDays)
		}
	}

	return nil
}
