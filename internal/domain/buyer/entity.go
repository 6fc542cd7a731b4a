// Package buyer defines the buyer/investor entity and the acquisition
// preferences the matching engine scores against.
package buyer

import (
	"time"

	"github.com/debnit/MsmeBazaar-sub003/pkg/types/common"
)

// RiskTolerance is the buyer's appetite for acquisition risk.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// Timeline is the buyer's preferred deal horizon.
type Timeline string

const (
	TimelineImmediate  Timeline = "immediate"
	TimelineShortTerm  Timeline = "short_term"
	TimelineMediumTerm Timeline = "medium_term"
	TimelineLongTerm   Timeline = "long_term"
)

// BudgetRange bounds the buyer's acquisition budget in whole INR.  A zero Max
// means the buyer did not state an upper bound.
type BudgetRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Preferences captures what a buyer is looking for.  Supplied per request;
// the engine never persists it.
type Preferences struct {
	PreferredIndustries []string      `json:"preferred_industries"`
	Budget              BudgetRange   `json:"budget"`
	RiskTolerance       RiskTolerance `json:"risk_tolerance"`
	PreferredLocations  []string      `json:"preferred_locations"`
	Timeline            Timeline      `json:"timeline"`
	StrategicObjectives []string      `json:"strategic_objectives"`
}

// Profile is a registered buyer with a home location and saved preferences.
type Profile struct {
	ID          common.ID   `json:"id"`
	Name        string      `json:"name"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	Active      bool        `json:"active"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"created_at"`
}
