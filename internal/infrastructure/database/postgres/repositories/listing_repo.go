// Package repositories provides PostgreSQL-backed implementations of the
// engine's domain repository ports.  The engine only reads marketplace data;
// writes belong to the listing-management and onboarding services.
package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/debnit/MsmeBazaar-sub003/internal/domain/listing"
	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/monitoring/logging"
	"github.com/debnit/MsmeBazaar-sub003/pkg/errors"
	"github.com/debnit/MsmeBazaar-sub003/pkg/types/common"
)

// querier is the subset of pgxpool.Pool the repositories need.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const listingColumns = `
	id, owner_id, title, industry, status,
	annual_turnover, net_profit, total_assets, total_liabilities, current_assets, asking_price,
	employee_count, city, state, established_year,
	market_share, revenue_growth, customer_concentration, competitive_advantage,
	readiness_level, documentation_complete,
	created_at, updated_at`

// ListingRepository reads listings from PostgreSQL.
type ListingRepository struct {
	db     querier
	logger logging.Logger
}

// NewListingRepository constructs a ListingRepository.
func NewListingRepository(db querier, logger logging.Logger) *ListingRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ListingRepository{db: db, logger: logger}
}

// FindByID returns one listing regardless of status.
func (r *ListingRepository) FindByID(ctx context.Context, id common.ID) (*listing.Listing, error) {
	row := r.db.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, string(id))
	l, err := scanListing(row)
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.ErrCodeListingNotFound, "listing "+string(id)+" not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "query listing by id")
	}
	return l, nil
}

// FindActive returns all listings open for transactions, oldest first so the
// matching tie-break order is stable across calls.
func (r *ListingRepository) FindActive(ctx context.Context) ([]*listing.Listing, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE status = $1 ORDER BY created_at, id`,
		string(listing.StatusActive))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "query active listings")
	}
	defer rows.Close()

	var out []*listing.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan listing row")
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterate listing rows")
	}
	return out, nil
}

func scanListing(row pgx.Row) (*listing.Listing, error) {
	var l listing.Listing
	var id, ownerID string
	err := row.Scan(
		&id, &ownerID, &l.Title, &l.Industry, &l.Status,
		&l.AnnualTurnover, &l.NetProfit, &l.TotalAssets, &l.TotalLiabilities, &l.CurrentAssets, &l.AskingPrice,
		&l.EmployeeCount, &l.City, &l.State, &l.EstablishedYear,
		&l.MarketShare, &l.RevenueGrowth, &l.CustomerConcentration, &l.CompetitiveAdvantage,
		&l.ReadinessLevel, &l.DocumentationComplete,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.ID = common.ID(id)
	l.OwnerID = common.ID(ownerID)
	return &l, nil
}
