package valuation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/debnit/MsmeBazaar-sub003/internal/refdata"
)

var riskNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func lowRiskFinancials() *BusinessFinancials {
	return &BusinessFinancials{
		Revenue:           50_000_000,
		Profit:            8_000_000,
		Assets:            30_000_000,
		Industry:          "technology",
		Location:          "Mumbai",
		YearEstablished:   2015,
		GrowthRate:        15,
		DebtToEquity:      0.5,
		CurrentRatio:      2.0,
		MarketShare:       10,
		CustomerRetention: 85,
	}
}

func TestAssessRiskHealthyBusiness(t *testing.T) {
	score, recs := AssessRisk(lowRiskFinancials(), refdata.Default(), riskNow)
	assert.Zero(t, score)
	assert.Empty(t, recs)
}

func TestAssessRiskSinglePenalties(t *testing.T) {
	tables := refdata.Default()

	tests := []struct {
		name    string
		mutate  func(f *BusinessFinancials)
		penalty int
	}{
		{"high leverage", func(f *BusinessFinancials) { f.DebtToEquity = 2.5 }, 15},
		{"weak liquidity", func(f *BusinessFinancials) { f.CurrentRatio = 0.8 }, 10},
		{"loss making", func(f *BusinessFinancials) { f.Profit = -1 }, 20},
		{"shrinking", func(f *BusinessFinancials) { f.GrowthRate = -5 }, 15},
		{"young business", func(f *BusinessFinancials) { f.YearEstablished = 2025 }, 10},
		{"sub-scale share", func(f *BusinessFinancials) { f.MarketShare = 3 }, 8},
		{"high churn", func(f *BusinessFinancials) { f.CustomerRetention = 60 }, 12},
		{"small-town location", func(f *BusinessFinancials) { f.Location = "Village" }, 5},
		{"generic industry", func(f *BusinessFinancials) { f.Industry = "Services" }, 5},
		{"one risk factor", func(f *BusinessFinancials) { f.RiskFactors = []string{"pending litigation"} }, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fin := lowRiskFinancials()
			tt.mutate(fin)
			score, _ := AssessRisk(fin, tables, riskNow)
			assert.Equal(t, tt.penalty, score)
		})
	}
}

func TestAssessRiskClampsAdversarialInput(t *testing.T) {
	fin := &BusinessFinancials{
		Profit:       -1_000_000,
		GrowthRate:   -50,
		DebtToEquity: 1000,
		CurrentRatio: 0.01,
		RiskFactors:  make([]string, 50),
	}
	score, recs := AssessRisk(fin, refdata.Default(), riskNow)
	assert.Equal(t, 100, score)
	assert.NotEmpty(t, recs)
}

func TestAssessRiskRecommendationsTrackPenalties(t *testing.T) {
	fin := lowRiskFinancials()
	fin.DebtToEquity = 3
	fin.CustomerRetention = 50

	_, recs := AssessRisk(fin, refdata.Default(), riskNow)
	assert.Len(t, recs, 2)
	assert.Contains(t, recs[0], "leverage")
	assert.Contains(t, recs[1], "retention")
}
