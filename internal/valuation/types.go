// Package valuation estimates the monetary worth of an MSME from its
// financial and operational profile, blending a deterministic heuristic with
// an external ML prediction service.
package valuation

import (
	"time"

	"github.com/debnit/MsmeBazaar-sub003/pkg/types/common"
)

// Methodology identifies which estimation path produced a result.
type Methodology string

const (
	MethodologyML        Methodology = "ml"
	MethodologyHeuristic Methodology = "heuristic"
	MethodologyHybrid    Methodology = "hybrid"
)

// BusinessFinancials is the valuation input.  Monetary fields are whole INR;
// GrowthRate, MarketShare and CustomerRetention are percent values (12.5
// means 12.5%).  Missing numeric fields are treated as zero and reduce the
// result's confidence instead of failing the request.
type BusinessFinancials struct {
	Revenue         float64 `json:"revenue"`
	Profit          float64 `json:"profit"`
	Assets          float64 `json:"assets"`
	Liabilities     float64 `json:"liabilities"`
	Employees       int     `json:"employees"`
	Industry        string  `json:"industry"`
	Location        string  `json:"location"`
	YearEstablished int     `json:"year_established"`

	GrowthRate        float64 `json:"growth_rate"`
	DebtToEquity      float64 `json:"debt_to_equity"`
	CurrentRatio      float64 `json:"current_ratio"`
	MarketShare       float64 `json:"market_share"`
	CustomerRetention float64 `json:"customer_retention"`

	DigitalPresence bool     `json:"digital_presence"`
	Certifications  []string `json:"certifications,omitempty"`
	RiskFactors     []string `json:"risk_factors,omitempty"`
}

// Breakdown decomposes a valuation into four named monetary components.  The
// buckets are directionally consistent with the total but are a presentation
// aid, not an accounting identity.
type Breakdown struct {
	AssetValue       float64 `json:"asset_value"`
	EarningsMultiple float64 `json:"earnings_multiple"`
	MarketAdjustment float64 `json:"market_adjustment"`
	RiskAdjustment   float64 `json:"risk_adjustment"`
}

// SensitivityScenario is one what-if variant of the final valuation.
type SensitivityScenario struct {
	Name      string  `json:"name"`
	Valuation float64 `json:"valuation"`
	DeltaPct  float64 `json:"delta_pct"`
}

// ValuationResult is the orchestrator's final answer.
type ValuationResult struct {
	Valuation       float64               `json:"valuation"` // rounded to whole INR
	Confidence      float64               `json:"confidence"`
	Methodology     Methodology           `json:"methodology"`
	Breakdown       Breakdown             `json:"breakdown"`
	RiskScore       int                   `json:"risk_score"` // 0-100
	Recommendations []string              `json:"recommendations"`
	Sensitivity     []SensitivityScenario `json:"sensitivity,omitempty"`
	ModelVersion    string                `json:"model_version,omitempty"`
	Timestamp       time.Time             `json:"timestamp"`
}

// MLPrediction is the external model's answer for one feature vector.
type MLPrediction struct {
	Valuation          float64            `json:"valuation"`
	Confidence         float64            `json:"confidence"`
	FeaturesImportance map[string]float64 `json:"features_importance"`
	ModelVersion       string             `json:"model_version"`
}

// ValuationEvent is published after every completed valuation.
type ValuationEvent struct {
	EventID     common.ID   `json:"event_id"`
	Industry    string      `json:"industry"`
	Location    string      `json:"location"`
	Valuation   float64     `json:"valuation"`
	Confidence  float64     `json:"confidence"`
	Methodology Methodology `json:"methodology"`
	RiskScore   int         `json:"risk_score"`
	OccurredAt  time.Time   `json:"occurred_at"`
}
