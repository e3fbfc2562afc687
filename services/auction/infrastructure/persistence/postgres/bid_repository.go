package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
	"github.com/ghuser/auctionhouse/services/auction/infrastructure/persistence/postgres/db"
)

// BidRepository implements repositories.BidRepository against PostgreSQL.
type BidRepository struct {
	q *db.Queries
}

// NewBidRepository returns a BidRepository running on conn.
func NewBidRepository(conn db.DBTX) *BidRepository {
	return &BidRepository{q: db.New(conn)}
}

// Create appends a bid. Foreign key failures map to ErrItemNotFound or
// ErrUserNotFound depending on the violated constraint.
func (r *BidRepository) Create(ctx context.Context, bid *models.Bid) error {
	err := r.q.InsertBid(ctx, db.InsertBidParams{
		ID:        bid.ID,
		ItemID:    bid.ItemID,
		UserID:    bid.BidderID,
		Price:     bid.Price,
		CreatedAt: bid.CreatedAt,
	})
	if err == nil {
		return nil
	}
	switch code, constraint := pgCode(err); {
	case code == pgForeignKeyViolation && constraint == "bids_item_id_fkey":
		return domain.ErrItemNotFound
	case code == pgForeignKeyViolation:
		return domain.ErrUserNotFound
	case code == pgCheckViolation:
		return rejected(ctx, err, domain.ErrBidTooLow, "price must be positive")
	case code == pgNumericOverflow:
		return rejected(ctx, err, domain.ErrInvalidPrice, "price out of range")
	}
	return fmt.Errorf("insert bid: %w", err)
}

// HighestForItem returns the highest bid, or nil when the item has none.
func (r *BidRepository) HighestForItem(ctx context.Context, itemID uuid.UUID) (*models.Bid, error) {
	row, err := r.q.GetHighestBid(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query highest bid: %w", err)
	}
	return rowToBid(row), nil
}

// ListByItem returns the item's bids, newest first.
func (r *BidRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*models.Bid, error) {
	rows, err := r.q.ListBidsByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("query bids: %w", err)
	}
	return rowsToBids(rows), nil
}

func rowToBid(row db.AuctionBid) *models.Bid {
	return &models.Bid{
		ID:        row.ID,
		ItemID:    row.ItemID,
		BidderID:  row.UserID,
		Price:     row.Price,
		CreatedAt: row.CreatedAt.UTC(),
	}
}

func rowsToBids(rows []db.AuctionBid) []*models.Bid {
	bids := make([]*models.Bid, len(rows))
	for i, row := range rows {
		bids[i] = rowToBid(row)
	}
	return bids
}

var _ repositories.BidRepository = (*BidRepository)(nil)
