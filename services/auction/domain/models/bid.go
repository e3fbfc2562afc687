package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bid is an immutable offer by a bidder against an item.
type Bid struct {
	ID        uuid.UUID
	ItemID    uuid.UUID
	BidderID  uuid.UUID
	Price     decimal.Decimal
	CreatedAt time.Time
}

// NewBid constructs a Bid with a generated ID. Price rules are enforced by
// the bid validator, which needs the item and its current highest bid.
func NewBid(itemID, bidderID uuid.UUID, price decimal.Decimal, now time.Time) *Bid {
	return &Bid{
		ID:        uuid.New(),
		ItemID:    itemID,
		BidderID:  bidderID,
		Price:     price,
		CreatedAt: now.UTC(),
	}
}
