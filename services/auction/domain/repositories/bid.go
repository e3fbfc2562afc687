package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

// BidRepository is the append-only persistence interface for bids.
type BidRepository interface {
	Create(ctx context.Context, bid *models.Bid) error

	// HighestForItem returns the highest-priced bid, or nil when the item has none.
	HighestForItem(ctx context.Context, itemID uuid.UUID) (*models.Bid, error)

	// ListByItem returns the item's bids, newest first.
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*models.Bid, error)
}
