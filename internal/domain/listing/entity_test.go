package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAge(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		established int
		want        int
	}{
		{"established 2010", 2010, 16},
		{"established this year", 2026, 0},
		{"unset", 0, 0},
		{"future year", 2030, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := &Listing{EstablishedYear: tc.established}
			assert.Equal(t, tc.want, l.Age(now))
		})
	}
}

func TestProfitMargin(t *testing.T) {
	l := &Listing{AnnualTurnover: 10_000_000, NetProfit: 1_500_000}
	assert.InDelta(t, 0.15, l.ProfitMargin(), 1e-9)

	noTurnover := &Listing{NetProfit: 1_500_000}
	assert.Zero(t, noTurnover.ProfitMargin())
}

func TestDebtRatio(t *testing.T) {
	l := &Listing{TotalAssets: 50_000_000, TotalLiabilities: 15_000_000}
	assert.InDelta(t, 0.3, l.DebtRatio(), 1e-9)

	noAssets := &Listing{TotalLiabilities: 15_000_000}
	assert.Zero(t, noAssets.DebtRatio())
}
