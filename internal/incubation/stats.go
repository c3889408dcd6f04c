package incubation

import "github.com/mamadbah2/hatchery/internal/domain/models"

// HatchSummary groups the fertility and hatch-rate figures of a batch.
// Rates are percentages; the Has* flags tell whether the underlying
// measurement exists yet.
type HatchSummary struct {
	FertileEggs        int     `json:"fertileEggs"`
	HasCandling        bool    `json:"hasCandling"`
	FertilityRate      float64 `json:"fertilityRate"`
	HasHatched         bool    `json:"hasHatched"`
	HatchRateOfTotal   float64 `json:"hatchRateOfTotal"`
	HatchRateOfFertile float64 `json:"hatchRateOfFertile"`
}

// LastFertileCount returns the fertile count of the latest candling. Without
// any candling every egg is assumed fertile and ok is false.
func LastFertileCount(b models.Batch) (int, bool) {
	if len(b.CandlingResults) == 0 {
		return b.NumberOfEggs, false
	}
	last := b.CandlingResults[0]
	for _, r := range b.CandlingResults[1:] {
		if r.Day >= last.Day {
			last = r
		}
	}
	return last.Fertile, true
}

// Summarize computes the hatch statistics of a batch.
func Summarize(b models.Batch) HatchSummary {
	fertile, candled := LastFertileCount(b)
	summary := HatchSummary{FertileEggs: fertile, HasCandling: candled}

	if candled {
		summary.FertilityRate = Percentage(fertile, b.NumberOfEggs)
	}
	if b.HatchedEggs != nil {
		summary.HasHatched = true
		summary.HatchRateOfTotal = Percentage(*b.HatchedEggs, b.NumberOfEggs)
		summary.HatchRateOfFertile = Percentage(*b.HatchedEggs, fertile)
	}
	return summary
}

// Percentage returns part/whole*100, or 0 when whole is not positive.
func Percentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
