package valuation

import (
	"math"

	"github.com/debnit/MsmeBazaar-sub003/internal/refdata"
)

// Earnings multiple applied to annual profit.  Policy constant signed off by
// product; the observed MSME transaction data supports 8x for the segment
// this marketplace serves.
const earningsMultiple = 8.0

// bookValueFactor discounts reported assets to a realizable value.
const bookValueFactor = 0.85

// Method weights for combining the three base estimates.  They sum to 1.0.
const (
	weightRevenueMethod  = 0.40
	weightEarningsMethod = 0.40
	weightAssetMethod    = 0.20
)

// revenueFloorFactor keeps loss-making but operating businesses from valuing
// near zero.
const revenueFloorFactor = 0.5

// Confidence bounds.  The heuristic is never fully certain and never fully
// uncertain.
const (
	minConfidence = 0.30
	maxConfidence = 0.95
)

// Estimate is the heuristic's output, consumed by the orchestrator.
type Estimate struct {
	Valuation  float64
	Confidence float64
	Breakdown  Breakdown
}

// Heuristic is the deterministic valuation model.  It is stateless apart from
// its reference tables and safe for concurrent use.
type Heuristic struct {
	tables *refdata.Tables
}

// NewHeuristic constructs a Heuristic over the given reference tables, falling
// back to production defaults when tables is nil.
func NewHeuristic(tables *refdata.Tables) *Heuristic {
	if tables == nil {
		tables = refdata.Default()
	}
	return &Heuristic{tables: tables}
}

// Valuate computes the deterministic estimate.  Missing numeric inputs are
// treated as zero; they lower the confidence, never fail the call.
func (h *Heuristic) Valuate(fin *BusinessFinancials) *Estimate {
	revenueEstimate := fin.Revenue * h.tables.IndustryMultiple(fin.Industry)
	earningsEstimate := math.Max(fin.Profit, 0) * earningsMultiple
	assetEstimate := fin.Assets * bookValueFactor

	revenuePart := revenueEstimate * weightRevenueMethod
	earningsPart := earningsEstimate * weightEarningsMethod
	assetPart := assetEstimate * weightAssetMethod

	base := revenuePart + earningsPart + assetPart
	floored := math.Max(base, fin.Revenue*revenueFloorFactor)

	adjusted := floored *
		h.tables.TierMultiplier(fin.Location) *
		growthAdjustment(fin.GrowthRate) *
		leverageAdjustment(fin.DebtToEquity) *
		liquidityAdjustment(fin.CurrentRatio)

	// The revenue floor holds for the final figure as well; stacked downward
	// adjustments must not push an operating business below it.
	adjusted = math.Max(adjusted, fin.Revenue*revenueFloorFactor)

	return &Estimate{
		Valuation:  adjusted,
		Confidence: h.confidence(fin),
		Breakdown: Breakdown{
			AssetValue:       assetPart,
			EarningsMultiple: earningsPart,
			MarketAdjustment: revenuePart,
			RiskAdjustment:   adjusted - floored,
		},
	}
}

// growthAdjustment maps an annual growth percentage onto a multiplier in
// [0.8, 1.5].
func growthAdjustment(growthRatePct float64) float64 {
	return clampRange(1+growthRatePct/100, 0.8, 1.5)
}

// leverageAdjustment penalizes debt-heavy balance sheets, multiplier in
// [0.7, 1.2].
func leverageAdjustment(debtToEquity float64) float64 {
	return clampRange(1.1-0.2*debtToEquity, 0.7, 1.2)
}

// liquidityAdjustment rewards working-capital coverage, multiplier in
// [0.8, 1.3].
func liquidityAdjustment(currentRatio float64) float64 {
	return clampRange(0.8+0.2*currentRatio, 0.8, 1.3)
}

// confidence blends input completeness with a financial-health score, then
// bounds the result to [0.3, 0.95].
func (h *Heuristic) confidence(fin *BusinessFinancials) float64 {
	completeness := inputCompleteness(fin)
	health := financialHealth(fin)
	c := minConfidence + (maxConfidence-minConfidence)*(0.5*completeness+0.5*health)
	return clampRange(c, minConfidence, maxConfidence)
}

// inputCompleteness is the fraction of required fields that are populated.
func inputCompleteness(fin *BusinessFinancials) float64 {
	present := 0
	checks := []bool{
		fin.Revenue != 0,
		fin.Profit != 0,
		fin.Assets != 0,
		fin.Liabilities != 0,
		fin.Employees != 0,
		fin.Industry != "",
		fin.Location != "",
		fin.YearEstablished != 0,
		fin.GrowthRate != 0,
		fin.CurrentRatio != 0,
	}
	for _, ok := range checks {
		if ok {
			present++
		}
	}
	return float64(present) / float64(len(checks))
}

// financialHealth is a [0,1] composite of margin, growth, liquidity, leverage
// and retention signals.
func financialHealth(fin *BusinessFinancials) float64 {
	score := 0.5

	if fin.Revenue > 0 && fin.Profit/fin.Revenue >= 0.10 {
		score += 0.1
	}
	if fin.Profit < 0 {
		score -= 0.2
	}
	if fin.GrowthRate > 0 {
		score += 0.1
	}
	if fin.CurrentRatio >= 1 {
		score += 0.1
	}
	if fin.DebtToEquity > 0 && fin.DebtToEquity < 1 {
		score += 0.1
	}
	if fin.CustomerRetention >= 70 {
		score += 0.1
	}

	return clampRange(score, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
