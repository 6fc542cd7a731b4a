package matching

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/debnit/MsmeBazaar-sub003/internal/domain/buyer"
	"github.com/debnit/MsmeBazaar-sub003/internal/domain/listing"
	"github.com/debnit/MsmeBazaar-sub003/internal/refdata"
)

// neutralScore is the factor value used whenever an input needed by a factor
// is missing or unresolvable.  Missing data degrades a single factor, never
// the whole match.
const neutralScore = 0.5

// Scorer computes the seven-factor compatibility score between one listing
// and one buyer.  A Scorer is stateless apart from its injected reference
// tables and is safe for concurrent use.
type Scorer struct {
	tables *refdata.Tables
	now    func() time.Time
}

// NewScorer constructs a Scorer over the given reference tables.  A nil
// tables argument falls back to the production defaults.
func NewScorer(tables *refdata.Tables) *Scorer {
	if tables == nil {
		tables = refdata.Default()
	}
	return &Scorer{tables: tables, now: time.Now}
}

// Score computes the full compatibility result for a listing against a
// buyer's location and preferences.
func (s *Scorer) Score(lst *listing.Listing, buyerCity string, prefs buyer.Preferences) *Result {
	factors := Factors{
		IndustryMatch:     s.industryMatch(lst.Industry, prefs.PreferredIndustries),
		SizeMatch:         s.sizeMatch(lst.AnnualTurnover, lst.EmployeeCount),
		BudgetMatch:       s.budgetMatch(lst.AskingPrice, prefs.Budget),
		LocationProximity: s.locationProximity(lst.City, buyerCity, prefs.PreferredLocations),
		RiskProfile:       s.riskProfile(lst, prefs.RiskTolerance),
		TimelineMatch:     s.timelineMatch(lst.ReadinessLevel, lst.DocumentationComplete, prefs.Timeline),
		StrategicFit:      s.strategicFit(lst),
	}

	total := int(math.Round(factors.WeightedTotal() * 100))

	return &Result{
		ListingID:      lst.ID,
		TotalScore:     total,
		Factors:        factors,
		Recommendation: RecommendationFromScore(total),
		Reasoning:      buildReasoning(factors, lst),
		ScoredAt:       s.now(),
	}
}

// industryMatch is 1.0 on an exact preferred-industry hit, otherwise the best
// cross-industry affinity against any preferred industry, 0 when the matrix
// has no entry.  Buyers with no stated preference score neutral.
func (s *Scorer) industryMatch(industry string, preferred []string) float64 {
	if industry == "" || len(preferred) == 0 {
		return neutralScore
	}
	best := 0.0
	for _, p := range preferred {
		v, ok := s.tables.Affinity(industry, p)
		if !ok {
			continue
		}
		if v == 1.0 {
			return 1.0
		}
		if v > best {
			best = v
		}
	}
	return best
}

// sizeMatch adds a revenue-bracket score and an employee-bracket score,
// capped at 1.0.  Brackets follow the MSME classification bands.
func (s *Scorer) sizeMatch(turnover float64, employees int) float64 {
	var revenueScore float64
	switch {
	case turnover >= 500_000_000: // large
		revenueScore = 1.0
	case turnover >= 100_000_000: // medium
		revenueScore = 0.9
	case turnover >= 10_000_000: // small
		revenueScore = 0.6
	default: // micro
		revenueScore = 0.3
	}

	var employeeScore float64
	switch {
	case employees >= 250:
		employeeScore = 0.8
	case employees >= 50:
		employeeScore = 0.6
	case employees >= 10:
		employeeScore = 0.4
	default:
		employeeScore = 0.2
	}

	return clamp01(revenueScore + employeeScore)
}

// budgetMatch scores the asking price against the buyer's budget range.
// Below-budget listings are favorable but slightly discounted for the
// negotiation signal they carry; above-budget listings are penalized linearly
// at twice the overshoot fraction.
func (s *Scorer) budgetMatch(askingPrice float64, budget buyer.BudgetRange) float64 {
	if askingPrice <= 0 || budget.Max <= 0 {
		return neutralScore
	}
	switch {
	case askingPrice < budget.Min:
		return 0.8
	case askingPrice <= budget.Max:
		return 1.0
	default:
		overshoot := askingPrice/budget.Max - 1
		return math.Max(0, 1-overshoot*2)
	}
}

// locationProximity resolves both places through the gazetteer and maps the
// haversine distance onto a step function.  A direct hit on one of the
// buyer's preferred locations short-circuits to 1.0.
func (s *Scorer) locationProximity(listingCity, buyerCity string, preferredLocations []string) float64 {
	for _, loc := range preferredLocations {
		if equalPlace(loc, listingCity) {
			return 1.0
		}
	}

	from, okFrom := s.tables.Resolve(buyerCity)
	to, okTo := s.tables.Resolve(listingCity)
	if !okFrom || !okTo {
		return neutralScore
	}
	return proximityScore(HaversineKm(from, to))
}

// riskProfile derives a base safety score from profit margin, debt ratio and
// years in business, then remaps it through the buyer's risk tolerance.
func (s *Scorer) riskProfile(lst *listing.Listing, tolerance buyer.RiskTolerance) float64 {
	base := baseRiskScore(lst, s.now())

	switch tolerance {
	case buyer.RiskHigh:
		// High-tolerance buyers consider every listing acceptable.
		return 1.0
	case buyer.RiskMedium:
		if base > 0.4 {
			return 1.0
		}
		return clamp01(base * 1.5)
	case buyer.RiskLow:
		if base > 0.7 {
			return 1.0
		}
		return base
	default:
		return base
	}
}

// baseRiskScore is a weighted additive safety score in [0,1]; higher means
// safer.  Margin carries the most signal, then leverage, then track record.
func baseRiskScore(lst *listing.Listing, now time.Time) float64 {
	margin := lst.ProfitMargin()
	var marginScore float64
	switch {
	case margin >= 0.20:
		marginScore = 1.0
	case margin >= 0.10:
		marginScore = 0.7
	case margin >= 0:
		marginScore = 0.4
	default:
		marginScore = 0.1
	}

	debt := lst.DebtRatio()
	var debtScore float64
	switch {
	case debt <= 0.3:
		debtScore = 1.0
	case debt <= 0.6:
		debtScore = 0.7
	case debt <= 1.0:
		debtScore = 0.4
	default:
		debtScore = 0.1
	}

	age := lst.Age(now)
	var ageScore float64
	switch {
	case age >= 10:
		ageScore = 1.0
	case age >= 5:
		ageScore = 0.7
	case age >= 2:
		ageScore = 0.4
	default:
		ageScore = 0.2
	}

	return clamp01(marginScore*0.4 + debtScore*0.3 + ageScore*0.3)
}

// timelineMatch starts from the listing's readiness level, credits complete
// documentation, then remaps by the buyer's deal horizon.
func (s *Scorer) timelineMatch(readiness listing.ReadinessLevel, docsComplete bool, timeline buyer.Timeline) float64 {
	var base float64
	switch readiness {
	case listing.ReadinessHigh:
		base = 0.9
	case listing.ReadinessMedium:
		base = 0.6
	case listing.ReadinessLow:
		base = 0.3
	default:
		base = neutralScore
	}
	if docsComplete {
		base += 0.1
	}

	switch timeline {
	case buyer.TimelineImmediate, buyer.TimelineShortTerm:
		// Fast closers need a transaction-ready listing; anything less is
		// heavily discounted.
		if readiness == listing.ReadinessHigh {
			return clamp01(base)
		}
		return clamp01(base * 0.5)
	case buyer.TimelineLongTerm:
		return clamp01(base + 0.2)
	default: // medium_term or unset
		return clamp01(base)
	}
}

// strategicFit rewards market position, growth, and declared competitive
// advantages on top of a neutral base.
func (s *Scorer) strategicFit(lst *listing.Listing) float64 {
	score := 0.5

	switch {
	case lst.MarketShare >= 10:
		score += 0.2
	case lst.MarketShare >= 5:
		score += 0.1
	}

	switch {
	case lst.RevenueGrowth >= 20:
		score += 0.2
	case lst.RevenueGrowth >= 10:
		score += 0.1
	}

	score += math.Min(float64(len(lst.CompetitiveAdvantage))*0.05, 0.3)

	return clamp01(score)
}

// Reasoning thresholds per factor.  A factor must clear its threshold to
// contribute a sentence; the order below is the emission priority.
const (
	notableIndustry  = 0.8
	notableBudget    = 0.8
	notableLocation  = 0.8
	notableSize      = 0.7
	notableRisk      = 0.7
	notableTimeline  = 0.7
	notableStrategic = 0.7
)

// buildReasoning emits one sentence per notable factor in fixed priority
// order.  The list is never empty: when nothing clears its threshold a
// generic statement is returned so callers can always render something.
func buildReasoning(f Factors, lst *listing.Listing) []string {
	var out []string

	if f.IndustryMatch >= notableIndustry {
		out = append(out, fmt.Sprintf("Strong industry alignment with the %s sector.", lst.Industry))
	}
	if f.BudgetMatch >= notableBudget {
		out = append(out, "Asking price fits comfortably within the stated budget.")
	}
	if f.LocationProximity >= notableLocation {
		out = append(out, fmt.Sprintf("Business location (%s) is well within practical reach.", lst.City))
	}
	if f.SizeMatch >= notableSize {
		out = append(out, "Business scale matches the acquisition profile.")
	}
	if f.RiskProfile >= notableRisk {
		out = append(out, "Financial risk profile is acceptable for the stated risk tolerance.")
	}
	if f.TimelineMatch >= notableTimeline {
		out = append(out, "Transaction readiness aligns with the preferred timeline.")
	}
	if f.StrategicFit >= notableStrategic {
		out = append(out, "Competitive position offers strategic upside.")
	}

	if len(out) == 0 {
		out = append(out, "Mixed alignment across evaluation criteria; review individual factors.")
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func equalPlace(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}
