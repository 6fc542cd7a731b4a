// Package refdata holds the static reference tables consulted by the matching
// scorer and the valuation heuristic: the industry compatibility matrix, the
// place gazetteer, and the city-tier valuation multipliers.
//
// Tables are loaded once at process start and injected into the components
// that use them.  Nothing in this package mutates a Tables value after
// construction, so a single instance is safe for concurrent readers and
// tests can build trimmed-down instances for deterministic assertions.
package refdata

import "strings"

// Coordinates is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// CityTier classifies a city for valuation purposes.
type CityTier int

const (
	TierOther CityTier = iota
	Tier1
	Tier2
)

// Tables aggregates all static lookup data.
type Tables struct {
	// IndustryAffinity maps an industry tag to its cross-industry
	// compatibility scores in [0,1].  The diagonal is always 1.0.  The matrix
	// is stored fully (both directions) so lookups never need to try the
	// transposed key.
	IndustryAffinity map[string]map[string]float64

	// Gazetteer maps a lower-cased place name to its coordinates.
	Gazetteer map[string]Coordinates

	// CityTiers maps a lower-cased city name to its tier.  Cities absent from
	// the map are TierOther.
	CityTiers map[string]CityTier

	// TierMultipliers maps a city tier to its valuation multiplier.
	TierMultipliers map[CityTier]float64

	// IndustryMultipliers maps an industry tag to its revenue multiple used
	// by the market-comparable valuation method.
	IndustryMultipliers map[string]float64
}

// normalizeKey lower-cases and trims a lookup key.
func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Affinity returns the compatibility score between two industry tags and
// whether an entry exists.  Identical tags always score 1.0.
func (t *Tables) Affinity(a, b string) (float64, bool) {
	ka, kb := normalizeKey(a), normalizeKey(b)
	if ka == "" || kb == "" {
		return 0, false
	}
	if ka == kb {
		return 1.0, true
	}
	row, ok := t.IndustryAffinity[ka]
	if !ok {
		return 0, false
	}
	v, ok := row[kb]
	return v, ok
}

// Resolve returns the coordinates for a place name and whether it is known.
func (t *Tables) Resolve(place string) (Coordinates, bool) {
	c, ok := t.Gazetteer[normalizeKey(place)]
	return c, ok
}

// TierOf returns the tier of a city.  Unknown cities are TierOther.
func (t *Tables) TierOf(city string) CityTier {
	return t.CityTiers[normalizeKey(city)]
}

// TierMultiplier returns the valuation multiplier for a city, falling back to
// the TierOther multiplier, and finally 1.0 when the table itself is empty.
func (t *Tables) TierMultiplier(city string) float64 {
	if m, ok := t.TierMultipliers[t.TierOf(city)]; ok {
		return m
	}
	return 1.0
}

// IndustryMultiple returns the revenue multiple for an industry tag, falling
// back to the "services" baseline and finally 1.0.
func (t *Tables) IndustryMultiple(industry string) float64 {
	if m, ok := t.IndustryMultipliers[normalizeKey(industry)]; ok {
		return m
	}
	if m, ok := t.IndustryMultipliers["services"]; ok {
		return m
	}
	return 1.0
}
