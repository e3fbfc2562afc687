package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgcache "github.com/ghuser/auctionhouse/pkg/cache"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

const cacheWriteTimeout = 2 * time.Second

// ItemCache is the read-model cache for item views. *pkgcache.ItemCache
// implements it; a nil ItemCache disables caching.
//
// Delete bumps the item's generation. Set only applies while the generation
// still matches the one read before the view was loaded, so a write-back
// racing an invalidation is dropped.
type ItemCache interface {
	Get(ctx context.Context, itemID uuid.UUID) (*pkgcache.CachedItem, error)
	Generation(ctx context.Context, itemID uuid.UUID) (int64, error)
	Set(ctx context.Context, item *pkgcache.CachedItem, generation int64) error
	Delete(ctx context.Context, itemID uuid.UUID) error
}

// BidView is a bid with its bidder's display name.
type BidView struct {
	*models.Bid
	BidderName string
}

// ItemView is an item as shown to clients: names resolved, bids newest first.
type ItemView struct {
	Item       *models.Item
	OwnerName  string
	WinnerName string
	Bids       []BidView
}

func toCachedItem(v *ItemView) *pkgcache.CachedItem {
	it := v.Item
	c := &pkgcache.CachedItem{
		ID:            it.ID,
		Name:          it.Name.String(),
		Description:   it.Description,
		StartingPrice: it.StartingPrice.String(),
		StartTime:     it.StartTime,
		EndTime:       it.EndTime,
		OwnerID:       it.OwnerID,
		OwnerName:     v.OwnerName,
		WinnerName:    v.WinnerName,
		Notified:      it.Notified,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
		Bids:          make([]pkgcache.CachedBid, 0, len(v.Bids)),
	}
	if it.WinnerID.Valid {
		c.WinnerID = it.WinnerID.UUID.String()
		c.FinalPrice = it.FinalPrice.Decimal.String()
	}
	for _, b := range v.Bids {
		c.Bids = append(c.Bids, pkgcache.CachedBid{
			ID:         b.ID,
			BidderID:   b.BidderID,
			BidderName: b.BidderName,
			Price:      b.Price.String(),
			CreatedAt:  b.CreatedAt,
		})
	}
	return c
}

// fromCachedItem rebuilds an ItemView from the cache. Returns false if any
// stored value no longer parses; the caller then falls back to the database.
func fromCachedItem(c *pkgcache.CachedItem) (*ItemView, bool) {
	price, err := decimal.NewFromString(c.StartingPrice)
	if err != nil {
		return nil, false
	}
	v := &ItemView{
		Item: &models.Item{
			ID:            c.ID,
			Name:          models.ItemName(c.Name),
			Description:   c.Description,
			StartingPrice: price,
			StartTime:     c.StartTime,
			EndTime:       c.EndTime,
			OwnerID:       c.OwnerID,
			Notified:      c.Notified,
			CreatedAt:     c.CreatedAt,
			UpdatedAt:     c.UpdatedAt,
		},
		OwnerName:  c.OwnerName,
		WinnerName: c.WinnerName,
	}
	if c.WinnerID != "" {
		winnerID, err := uuid.Parse(c.WinnerID)
		if err != nil {
			return nil, false
		}
		final, err := decimal.NewFromString(c.FinalPrice)
		if err != nil {
			return nil, false
		}
		v.Item.WinnerID = uuid.NullUUID{UUID: winnerID, Valid: true}
		v.Item.FinalPrice = decimal.NullDecimal{Decimal: final, Valid: true}
	}
	for _, cb := range c.Bids {
		p, err := decimal.NewFromString(cb.Price)
		if err != nil {
			return nil, false
		}
		v.Bids = append(v.Bids, BidView{
			Bid: &models.Bid{
				ID:        cb.ID,
				ItemID:    c.ID,
				BidderID:  cb.BidderID,
				Price:     p,
				CreatedAt: cb.CreatedAt,
			},
			BidderName: cb.BidderName,
		})
	}
	return v, true
}
