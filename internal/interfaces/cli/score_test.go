package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debnit/MsmeBazaar-sub003/internal/matching"
)

const pairJSON = `{
	"listing": {
		"id": "lst_1",
		"title": "Precision tooling unit",
		"industry": "manufacturing",
		"status": "active",
		"annual_turnover": 80000000,
		"net_profit": 9000000,
		"total_assets": 50000000,
		"total_liabilities": 15000000,
		"current_assets": 20000000,
		"asking_price": 40000000,
		"employee_count": 70,
		"city": "Pune",
		"established_year": 2008,
		"market_share": 10,
		"revenue_growth": 12,
		"readiness_level": "high",
		"documentation_complete": true
	},
	"buyer": {
		"id": "byr_1",
		"name": "Acquirer",
		"city": "Mumbai",
		"active": true,
		"preferences": {
			"preferred_industries": ["manufacturing"],
			"budget": {"min": 20000000, "max": 50000000},
			"risk_tolerance": "medium",
			"preferred_locations": ["Pune"],
			"timeline": "immediate"
		}
	}
}`

func TestScorePairJSON(t *testing.T) {
	out, err := runCommand(t, pairJSON, "--output", "json", "score")
	require.NoError(t, err)

	var result matching.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, "lst_1", string(result.ListingID))
	assert.Equal(t, "byr_1", string(result.BuyerID))
	assert.Equal(t, 1.0, result.Factors.IndustryMatch, "exact industry preference")
	assert.Equal(t, 1.0, result.Factors.BudgetMatch, "asking price within budget")
	assert.Equal(t, 1.0, result.Factors.LocationProximity, "preferred location hit")
	assert.Greater(t, result.TotalScore, 60)
}

func TestScorePairText(t *testing.T) {
	out, err := runCommand(t, pairJSON, "score")
	require.NoError(t, err)

	assert.Contains(t, out, "Total score:")
	assert.Contains(t, out, "industry:     1.00")
	assert.Contains(t, out, "Reasoning:")
}

func TestScoreMissingListing(t *testing.T) {
	_, err := runCommand(t, `{"buyer": {"id": "byr_1"}}`, "score")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must contain both")
}

func TestScoreMalformedInput(t *testing.T) {
	_, err := runCommand(t, "[", "score")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse input")
}
