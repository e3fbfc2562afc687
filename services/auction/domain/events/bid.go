package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopicBidPlaced is published in the same transaction that accepts a bid.
const TopicBidPlaced = "auction.bid_placed"

// BidPlacedEvent records an accepted bid and the item's new winner.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicBidPlaced).
type BidPlacedEvent struct {
	EventID    uuid.UUID       `json:"event_id"`
	Version    int             `json:"version"` // Schema version; increment on breaking changes
	BidID      uuid.UUID       `json:"bid_id"`
	ItemID     uuid.UUID       `json:"item_id"`
	BidderID   uuid.UUID       `json:"bidder_id"`
	Price      decimal.Decimal `json:"price"`
	OccurredAt time.Time       `json:"occurred_at"`
}
