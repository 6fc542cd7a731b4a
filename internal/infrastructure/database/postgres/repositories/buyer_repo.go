package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/debnit/MsmeBazaar-sub003/internal/domain/buyer"
	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/monitoring/logging"
	"github.com/debnit/MsmeBazaar-sub003/pkg/errors"
	"github.com/debnit/MsmeBazaar-sub003/pkg/types/common"
)

const buyerColumns = `
	id, name, city, state, active,
	preferred_industries, budget_min, budget_max, risk_tolerance,
	preferred_locations, timeline, strategic_objectives,
	created_at`

// BuyerRepository reads buyer profiles and their saved preferences from
// PostgreSQL.
type BuyerRepository struct {
	db     querier
	logger logging.Logger
}

// NewBuyerRepository constructs a BuyerRepository.
func NewBuyerRepository(db querier, logger logging.Logger) *BuyerRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &BuyerRepository{db: db, logger: logger}
}

// FindByID returns one buyer profile.
func (r *BuyerRepository) FindByID(ctx context.Context, id common.ID) (*buyer.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+buyerColumns+` FROM buyers WHERE id = $1`, string(id))
	b, err := scanBuyer(row)
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.ErrCodeBuyerNotFound, "buyer "+string(id)+" not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "query buyer by id")
	}
	return b, nil
}

// FindActive returns all buyers open to offers, oldest first for stable
// tie-break ordering.
func (r *BuyerRepository) FindActive(ctx context.Context) ([]*buyer.Profile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+buyerColumns+` FROM buyers WHERE active ORDER BY created_at, id`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "query active buyers")
	}
	defer rows.Close()

	var out []*buyer.Profile
	for rows.Next() {
		b, err := scanBuyer(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan buyer row")
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterate buyer rows")
	}
	return out, nil
}

func scanBuyer(row pgx.Row) (*buyer.Profile, error) {
	var b buyer.Profile
	var id string
	err := row.Scan(
		&id, &b.Name, &b.City, &b.State, &b.Active,
		&b.Preferences.PreferredIndustries, &b.Preferences.Budget.Min, &b.Preferences.Budget.Max, &b.Preferences.RiskTolerance,
		&b.Preferences.PreferredLocations, &b.Preferences.Timeline, &b.Preferences.StrategicObjectives,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.ID = common.ID(id)
	return &b, nil
}
