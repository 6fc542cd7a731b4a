package listing

import (
	"context"

	"github.com/debnit/MsmeBazaar-sub003/pkg/types/common"
)

// Repository is the read-side port for listings.  The matching engine treats
// it as the candidate-pool provider for buyer-side searches; a failed lookup
// must surface as a not-found error, never as an empty pool.
type Repository interface {
	// FindByID returns the listing with the given id, or an error with
	// errors.ErrCodeListingNotFound when no such listing exists.
	FindByID(ctx context.Context, id common.ID) (*Listing, error)

	// FindActive returns all listings currently open for transactions, in
	// stable storage order.
	FindActive(ctx context.Context) ([]*Listing, error)
}
