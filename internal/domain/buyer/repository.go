package buyer

import (
	"context"

	"github.com/debnit/MsmeBazaar-sub003/pkg/types/common"
)

// Repository is the read-side port for buyer profiles.  It is the
// candidate-pool provider for listing-side matchmaking.
type Repository interface {
	// FindByID returns the buyer with the given id, or an error with
	// errors.ErrCodeBuyerNotFound when no such buyer exists.
	FindByID(ctx context.Context, id common.ID) (*Profile, error)

	// FindActive returns all buyers open to acquisition offers, in stable
	// storage order.
	FindActive(ctx context.Context) ([]*Profile, error)
}
