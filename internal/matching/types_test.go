package matching

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommendationFromScoreBands(t *testing.T) {
	tests := []struct {
		score int
		want  Recommendation
	}{
		{100, RecommendationExcellent},
		{80, RecommendationExcellent},
		{79, RecommendationGood},
		{60, RecommendationGood},
		{59, RecommendationFair},
		{40, RecommendationFair},
		{39, RecommendationPoor},
		{0, RecommendationPoor},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("score %d", tc.score), func(t *testing.T) {
			assert.Equal(t, tc.want, RecommendationFromScore(tc.score))
		})
	}
}

// Each factor alone contributes exactly its weight, so a regression in any
// one weight constant shows up as a distinct failure.
func TestWeightedTotalFactorWeights(t *testing.T) {
	tests := []struct {
		name    string
		factors Factors
		want    float64
	}{
		{"industry", Factors{IndustryMatch: 1}, 0.25},
		{"size", Factors{SizeMatch: 1}, 0.15},
		{"budget", Factors{BudgetMatch: 1}, 0.20},
		{"location", Factors{LocationProximity: 1}, 0.15},
		{"risk", Factors{RiskProfile: 1}, 0.10},
		{"timeline", Factors{TimelineMatch: 1}, 0.10},
		{"strategic", Factors{StrategicFit: 1}, 0.05},
	}
	sum := 0.0
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.factors.WeightedTotal(), 1e-9)
		})
		sum += tc.want
	}
	assert.InDelta(t, 1.0, sum, 1e-9, "weights must sum to one")
}

func TestWeightedTotalMonotonic(t *testing.T) {
	base := Factors{
		IndustryMatch:     0.5,
		SizeMatch:         0.5,
		BudgetMatch:       0.5,
		LocationProximity: 0.5,
		RiskProfile:       0.5,
		TimelineMatch:     0.5,
		StrategicFit:      0.5,
	}
	baseTotal := base.WeightedTotal()

	raise := map[string]func(*Factors){
		"industry":  func(f *Factors) { f.IndustryMatch = 1 },
		"size":      func(f *Factors) { f.SizeMatch = 1 },
		"budget":    func(f *Factors) { f.BudgetMatch = 1 },
		"location":  func(f *Factors) { f.LocationProximity = 1 },
		"risk":      func(f *Factors) { f.RiskProfile = 1 },
		"timeline":  func(f *Factors) { f.TimelineMatch = 1 },
		"strategic": func(f *Factors) { f.StrategicFit = 1 },
	}
	for name, bump := range raise {
		t.Run(name, func(t *testing.T) {
			raised := base
			bump(&raised)
			assert.Greater(t, raised.WeightedTotal(), baseTotal,
				"raising one factor must never lower the total")
		})
	}
}
