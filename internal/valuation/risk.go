package valuation

import (
	"strings"
	"time"

	"github.com/debnit/MsmeBazaar-sub003/internal/refdata"
)

// genericIndustries are sector tags too broad to command a differentiation
// premium.
var genericIndustries = map[string]struct{}{
	"":         {},
	"services": {},
	"retail":   {},
	"trading":  {},
	"general":  {},
}

// AssessRisk computes the 0-100 risk score and its matching recommendations
// from the same set of checks, so the two can never disagree.  The score is
// an additive penalty model: every tripped check adds its fixed penalty, and
// the total is clamped to [0,100].  It is independent of which valuation
// methodology produced the monetary estimate.
func AssessRisk(fin *BusinessFinancials, tables *refdata.Tables, now time.Time) (int, []string) {
	score := 0
	var recs []string

	if fin.DebtToEquity > 2 {
		score += 15
		recs = append(recs, "Reduce leverage; a debt-to-equity ratio above 2 deters most acquirers.")
	}
	if fin.CurrentRatio < 1 {
		score += 10
		recs = append(recs, "Improve working-capital coverage before going to market.")
	}
	if fin.Profit < 0 {
		score += 20
		recs = append(recs, "Establish a path to profitability; losses weigh heavily on achievable price.")
	}
	if fin.GrowthRate < 0 {
		score += 15
		recs = append(recs, "Address declining revenue; shrinking businesses trade at steep discounts.")
	}
	if age := businessAge(fin.YearEstablished, now); age < 3 {
		score += 10
		recs = append(recs, "Limited operating history increases buyer diligence requirements.")
	}
	if fin.MarketShare < 5 {
		score += 8
		recs = append(recs, "Strengthen market position; sub-scale share limits strategic premium.")
	}
	if fin.CustomerRetention < 70 {
		score += 12
		recs = append(recs, "Improve customer retention; churn above 30% signals revenue fragility.")
	}
	if tables.TierOf(fin.Location) != refdata.Tier1 {
		score += 5
	}
	if _, generic := genericIndustries[strings.ToLower(strings.TrimSpace(fin.Industry))]; generic {
		score += 5
	}
	score += 3 * len(fin.RiskFactors)

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score, recs
}

func businessAge(yearEstablished int, now time.Time) int {
	if yearEstablished <= 0 {
		return 0
	}
	age := now.Year() - yearEstablished
	if age < 0 {
		return 0
	}
	return age
}
