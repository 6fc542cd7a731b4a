// Package matching implements the compatibility scoring engine that ranks
// listing/buyer pairs across seven weighted dimensions.
package matching

import (
	"time"

	"github.com/debnit/MsmeBazaar-sub003/pkg/types/common"
)

// Recommendation is the qualitative band a match score falls into.
type Recommendation string

const (
	RecommendationExcellent Recommendation = "excellent"
	RecommendationGood      Recommendation = "good"
	RecommendationFair      Recommendation = "fair"
	RecommendationPoor      Recommendation = "poor"
)

// RecommendationFromScore maps a 0–100 total score to its band.
func RecommendationFromScore(score int) Recommendation {
	switch {
	case score >= 80:
		return RecommendationExcellent
	case score >= 60:
		return RecommendationGood
	case score >= 40:
		return RecommendationFair
	default:
		return RecommendationPoor
	}
}

// Factors holds the seven per-dimension compatibility scores, each in [0,1].
type Factors struct {
	IndustryMatch     float64 `json:"industry_match"`
	SizeMatch         float64 `json:"size_match"`
	BudgetMatch       float64 `json:"budget_match"`
	LocationProximity float64 `json:"location_proximity"`
	RiskProfile       float64 `json:"risk_profile"`
	TimelineMatch     float64 `json:"timeline_match"`
	StrategicFit      float64 `json:"strategic_fit"`
}

// Weights applied to each factor when computing the total score.  They sum to
// exactly 1.0; sizing is a product decision, not a tunable.
const (
	weightIndustry  = 0.25
	weightSize      = 0.15
	weightBudget    = 0.20
	weightLocation  = 0.15
	weightRisk      = 0.10
	weightTimeline  = 0.10
	weightStrategic = 0.05
)

// WeightedTotal returns the weighted sum of the factors in [0,1].
func (f Factors) WeightedTotal() float64 {
	return f.IndustryMatch*weightIndustry +
		f.SizeMatch*weightSize +
		f.BudgetMatch*weightBudget +
		f.LocationProximity*weightLocation +
		f.RiskProfile*weightRisk +
		f.TimelineMatch*weightTimeline +
		f.StrategicFit*weightStrategic
}

// Result is one scored listing/buyer pair.  Results are immutable once
// returned and are never persisted by the engine.
type Result struct {
	BuyerID        common.ID      `json:"buyer_id"`
	ListingID      common.ID      `json:"listing_id"`
	TotalScore     int            `json:"total_score"` // 0–100
	Factors        Factors        `json:"factors"`
	Recommendation Recommendation `json:"recommendation"`
	Reasoning      []string       `json:"reasoning"`
	ScoredAt       time.Time      `json:"scored_at"`
}
