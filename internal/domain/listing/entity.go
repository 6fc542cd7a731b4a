// Package listing defines the business-listing entity consumed by the
// matching and valuation engine.  Listings are owned by the listing-management
// subsystem; this engine only reads them through the repository port.
package listing

import (
	"time"

	"github.com/debnit/MsmeBazaar-sub003/pkg/types/common"
)

// ReadinessLevel describes how transaction-ready a listing is.
type ReadinessLevel string

const (
	ReadinessHigh   ReadinessLevel = "high"
	ReadinessMedium ReadinessLevel = "medium"
	ReadinessLow    ReadinessLevel = "low"
)

// Status is the publication state of a listing.
type Status string

const (
	StatusActive    Status = "active"
	StatusDraft     Status = "draft"
	StatusSold      Status = "sold"
	StatusWithdrawn Status = "withdrawn"
)

// Listing is a business offered for sale on the marketplace.  All monetary
// fields are in whole INR; percentage fields are fractions in [0,1] unless
// noted otherwise.
type Listing struct {
	ID       common.ID `json:"id"`
	OwnerID  common.ID `json:"owner_id"`
	Title    string    `json:"title"`
	Industry string    `json:"industry"`
	Status   Status    `json:"status"`

	// Financials
	AnnualTurnover   float64 `json:"annual_turnover"`
	NetProfit        float64 `json:"net_profit"`
	TotalAssets      float64 `json:"total_assets"`
	TotalLiabilities float64 `json:"total_liabilities"`
	CurrentAssets    float64 `json:"current_assets"`
	AskingPrice      float64 `json:"asking_price"`

	// Operations
	EmployeeCount   int    `json:"employee_count"`
	City            string `json:"city"`
	State           string `json:"state"`
	EstablishedYear int    `json:"established_year"`

	// Market position.  MarketShare and RevenueGrowth are percent values
	// (e.g. 12.5 means 12.5%), matching how sellers report them.
	MarketShare           float64  `json:"market_share"`
	RevenueGrowth         float64  `json:"revenue_growth"`
	CustomerConcentration float64  `json:"customer_concentration"`
	CompetitiveAdvantage  []string `json:"competitive_advantage"`

	// Transaction readiness
	ReadinessLevel        ReadinessLevel `json:"readiness_level"`
	DocumentationComplete bool           `json:"documentation_complete"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Age returns the years the business has been operating as of now.  Listings
// with an unset EstablishedYear report zero.
func (l *Listing) Age(now time.Time) int {
	if l.EstablishedYear <= 0 {
		return 0
	}
	age := now.Year() - l.EstablishedYear
	if age < 0 {
		return 0
	}
	return age
}

// ProfitMargin returns net profit over turnover, or zero when turnover is
// unknown.
func (l *Listing) ProfitMargin() float64 {
	if l.AnnualTurnover <= 0 {
		return 0
	}
	return l.NetProfit / l.AnnualTurnover
}

// DebtRatio returns total liabilities over total assets, or zero when assets
// are unknown.
func (l *Listing) DebtRatio() float64 {
	if l.TotalAssets <= 0 {
		return 0
	}
	return l.TotalLiabilities / l.TotalAssets
}
