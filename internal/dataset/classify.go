// Package dataset assembles per-generation CSV datasets from scraped
// Pokémon records, deriving a capture-difficulty tier per record.
package dataset

// Tier is the four-valued classification derived from average base stats.
type Tier int

const (
	TierPokeball Tier = iota
	TierSuperball
	TierHyperball
	TierMasterball
)

// String returns the ball label used in the dataset output.
func (t Tier) String() string {
	switch t {
	case TierPokeball:
		return "Pokéball"
	case TierSuperball:
		return "Superball"
	case TierHyperball:
		return "Hyperball"
	case TierMasterball:
		return "Masterball"
	default:
		return "unknown"
	}
}

// Classify buckets a stat block by its average value. Thresholds are
// inclusive on the upper bound; an empty block averages to zero.
func Classify(stats map[string]int) Tier {
	if len(stats) == 0 {
		return TierPokeball
	}

	sum := 0
	for _, v := range stats {
		sum += v
	}
	avg := float64(sum) / float64(len(stats))

	switch {
	case avg <= 50:
		return TierPokeball
	case avg <= 100:
		return TierSuperball
	case avg <= 150:
		return TierHyperball
	default:
		return TierMasterball
	}
}
