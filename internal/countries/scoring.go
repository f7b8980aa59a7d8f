package countries

import (
	"math"
	"sort"

	"github.com/atlasiq/atlasiq/models"
)

// Scored pairs a country with its preference score.
type Scored struct {
	Country models.Country
	Score   float64
}

// Score computes the weighted preference score for one country: the dot
// product of the country's score fields and the user's weights, normalized by
// the sum of absolute weights. A matching climate preference adds half of the
// weight sum before normalization.
func Score(c models.Country, prefs models.WeightedPreferences) float64 {
	weights := prefs.WeightDict()
	scores := c.ScoreFields()

	var weightSum float64
	for _, w := range weights {
		weightSum += math.Abs(w)
	}
	if weightSum == 0 {
		return 0
	}

	var total float64
	for key, w := range weights {
		total += scores[key] * w
	}
	if prefs.ClimatePreference != "" && c.Climate == prefs.ClimatePreference {
		total += weightSum * 0.5
	}

	return math.Round(total/weightSum*100) / 100
}

// Rank scores every country and returns the top N, highest first.
func Rank(all []models.Country, prefs models.WeightedPreferences, topN int) []Scored {
	scored := make([]Scored, 0, len(all))
	for _, c := range all {
		scored = append(scored, Scored{Country: c, Score: Score(c, prefs)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if topN > 0 && topN < len(scored) {
		scored = scored[:topN]
	}
	return scored
}
