package valuation

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debnit/MsmeBazaar-sub003/pkg/errors"
)

type stubML struct {
	pred *MLPrediction
	err  error
}

func (s *stubML) Predict(context.Context, *BusinessFinancials) (*MLPrediction, error) {
	return s.pred, s.err
}

func (s *stubML) Healthy() bool { return s.err == nil }

func mlAnswer(valuation, confidence float64) *stubML {
	return &stubML{pred: &MLPrediction{
		Valuation:    valuation,
		Confidence:   confidence,
		ModelVersion: "v2.1",
	}}
}

func newTestOrchestrator(ml MLClient) *Orchestrator {
	return NewOrchestrator(OrchestratorOptions{ML: ml})
}

func TestValuateMethodologySelection(t *testing.T) {
	fin := profitableManufacturer()

	tests := []struct {
		name string
		ml   MLClient
		want Methodology
	}{
		{"high confidence uses ml", mlAnswer(2_000_000, 0.9), MethodologyML},
		{"threshold confidence uses ml", mlAnswer(2_000_000, 0.5), MethodologyML},
		{"mid confidence blends", mlAnswer(2_000_000, 0.49), MethodologyHybrid},
		{"floor confidence blends", mlAnswer(2_000_000, 0.3), MethodologyHybrid},
		{"low confidence ignored", mlAnswer(2_000_000, 0.29), MethodologyHeuristic},
		{"ml failure falls back", &stubML{err: errors.New(errors.ErrCodeMLUnavailable, "down")}, MethodologyHeuristic},
		{"no ml client configured", nil, MethodologyHeuristic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestOrchestrator(tt.ml).Valuate(context.Background(), fin)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Methodology)
		})
	}
}

func TestValuateMLTimeoutFallsBackToHeuristic(t *testing.T) {
	down := &stubML{err: errors.New(errors.ErrCodeMLUnavailable, "context deadline exceeded")}
	result, err := newTestOrchestrator(down).Valuate(context.Background(), profitableManufacturer())
	require.NoError(t, err)

	assert.Equal(t, MethodologyHeuristic, result.Methodology)
	assert.GreaterOrEqual(t, result.Confidence, 0.3)
	assert.LessOrEqual(t, result.Confidence, 0.95)
	assert.Positive(t, result.Valuation)
}

func TestHybridBlendArithmetic(t *testing.T) {
	// ML at 1,000,000 with 0.4 confidence against a heuristic 800,000 at
	// 0.75 must land at exactly 880,000 and 0.575.
	assert.Equal(t, 880_000.0, hybridValuation(1_000_000, 0.4, 800_000))
	assert.Equal(t, 0.575, hybridConfidence(0.4, 0.75))
}

func TestValuateHybridResult(t *testing.T) {
	fin := profitableManufacturer()
	ml := mlAnswer(2_000_000, 0.4)
	ml.pred.FeaturesImportance = map[string]float64{"profit_margin": 0.5, "revenue": 0.3}

	result, err := newTestOrchestrator(ml).Valuate(context.Background(), fin)
	require.NoError(t, err)
	require.Equal(t, MethodologyHybrid, result.Methodology)

	est := NewHeuristic(nil).Valuate(fin)
	assert.Equal(t, math.Round(hybridValuation(2_000_000, 0.4, est.Valuation)), result.Valuation)
	assert.InDelta(t, hybridConfidence(0.4, est.Confidence), result.Confidence, 1e-9)

	// Breakdown comes from the heuristic with the market bucket replaced by
	// the scaled ML contribution.
	assert.InDelta(t, 2_000_000*0.3, result.Breakdown.MarketAdjustment, 1e-9)
	assert.InDelta(t, est.Breakdown.AssetValue, result.Breakdown.AssetValue, 1e-9)
	assert.InDelta(t, est.Breakdown.EarningsMultiple, result.Breakdown.EarningsMultiple, 1e-9)

	// ML-derived advice leads the merged list.
	require.NotEmpty(t, result.Recommendations)
	assert.Contains(t, result.Recommendations[0], "profit_margin")
	assert.Equal(t, "v2.1", result.ModelVersion)
}

func TestValuateMLResult(t *testing.T) {
	ml := mlAnswer(3_000_000, 0.85)
	ml.pred.FeaturesImportance = map[string]float64{"revenue": 0.6}

	fin := profitableManufacturer()
	fin.DebtToEquity = 3 // trips one risk recommendation

	result, err := newTestOrchestrator(ml).Valuate(context.Background(), fin)
	require.NoError(t, err)

	assert.Equal(t, MethodologyML, result.Methodology)
	assert.Equal(t, 3_000_000.0, result.Valuation)
	assert.Equal(t, 0.85, result.Confidence)

	b := result.Breakdown
	assert.Equal(t, 3_000_000*0.30, b.AssetValue)
	assert.Equal(t, 3_000_000*0.40, b.EarningsMultiple)
	assert.Equal(t, 3_000_000*0.20, b.MarketAdjustment)
	assert.Equal(t, 3_000_000*0.10, b.RiskAdjustment)

	// Recommendations on the ml path come from the financials alone, never
	// from the model's feature importances.
	require.NotEmpty(t, result.Recommendations)
	for _, rec := range result.Recommendations {
		assert.NotContains(t, rec, "Valuation model")
	}
}

func TestValuateRiskScoreIndependentOfMethodology(t *testing.T) {
	fin := profitableManufacturer()
	fin.DebtToEquity = 2.5
	fin.CustomerRetention = 60

	viaML, err := newTestOrchestrator(mlAnswer(2_000_000, 0.9)).Valuate(context.Background(), fin)
	require.NoError(t, err)
	viaHeuristic, err := newTestOrchestrator(nil).Valuate(context.Background(), fin)
	require.NoError(t, err)

	assert.Equal(t, viaML.RiskScore, viaHeuristic.RiskScore)
	// Leverage +15, churn +12, non-tier-1 location +5.
	assert.Equal(t, 32, viaML.RiskScore)
}

func TestValuateRejectsNilInput(t *testing.T) {
	_, err := newTestOrchestrator(nil).Valuate(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFinancialsInvalid))
}

func TestValuateRoundsToWholeUnits(t *testing.T) {
	result, err := newTestOrchestrator(mlAnswer(1_234_567.89, 0.9)).Valuate(context.Background(), profitableManufacturer())
	require.NoError(t, err)
	assert.Equal(t, result.Valuation, math.Trunc(result.Valuation))
	assert.Equal(t, 1_234_568.0, result.Valuation)
}

func TestValuateSensitivityScenarios(t *testing.T) {
	result, err := newTestOrchestrator(nil).Valuate(context.Background(), profitableManufacturer())
	require.NoError(t, err)
	require.Len(t, result.Sensitivity, 4)

	byName := map[string]SensitivityScenario{}
	for _, s := range result.Sensitivity {
		byName[s.Name] = s
	}
	assert.Greater(t, byName["revenue +10%"].Valuation, result.Valuation)
	assert.Less(t, byName["revenue -10%"].Valuation, result.Valuation)
	assert.Greater(t, byName["profit +10%"].Valuation, result.Valuation)
	assert.Less(t, byName["profit -10%"].Valuation, result.Valuation)
}

func TestValuateRecommendationsCap(t *testing.T) {
	fin := &BusinessFinancials{
		Revenue:      1_000_000,
		Profit:       -200_000,
		GrowthRate:   -10,
		DebtToEquity: 5,
		CurrentRatio: 0.5,
		RiskFactors:  []string{"litigation"},
	}
	ml := mlAnswer(900_000, 0.4)
	ml.pred.FeaturesImportance = map[string]float64{"a": 0.5, "b": 0.4, "c": 0.3}

	result, err := newTestOrchestrator(ml).Valuate(context.Background(), fin)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Recommendations), 5)
}

type valuationMemCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *valuationMemCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, errors.New(errors.ErrCodeCacheError, "miss")
}

func (c *valuationMemCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func TestValuateCacheRoundTrip(t *testing.T) {
	cache := &valuationMemCache{data: map[string][]byte{}}
	ml := mlAnswer(2_000_000, 0.9)
	o := NewOrchestrator(OrchestratorOptions{ML: ml, Cache: cache})

	fin := profitableManufacturer()
	first, err := o.Valuate(context.Background(), fin)
	require.NoError(t, err)

	// A cached result short-circuits the ML call entirely.
	ml.err = errors.New(errors.ErrCodeMLUnavailable, "down")
	ml.pred = nil
	second, err := o.Valuate(context.Background(), fin)
	require.NoError(t, err)

	assert.Equal(t, first.Valuation, second.Valuation)
	assert.Equal(t, first.Methodology, second.Methodology)
	assert.Equal(t, first.RiskScore, second.RiskScore)
}

func TestNopCacheReturnsSharedMiss(t *testing.T) {
	_, err1 := nopCache{}.Get(context.Background(), "valuation:a")
	_, err2 := nopCache{}.Get(context.Background(), "valuation:b")

	require.Error(t, err1)
	assert.True(t, errors.IsCode(err1, errors.ErrCodeCacheError))
	assert.Same(t, err1, err2, "disabled cache must not allocate a new error per lookup")
}
