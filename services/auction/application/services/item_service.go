package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
	domainsvcs "github.com/ghuser/auctionhouse/services/auction/domain/services"
)

// ItemInput carries the owner-editable fields of an item.
type ItemInput struct {
	Name          string
	Description   string
	StartingPrice decimal.Decimal
	StartTime     time.Time
	EndTime       time.Time
}

// ItemService orchestrates creation, editing and retrieval of auction items.
// Reads by ID are served from Redis cache when available.
type ItemService struct {
	items repositories.ItemRepository
	bids  repositories.BidRepository
	users repositories.UserRepository
	store repositories.Store
	cache ItemCache
	clock clock.Clock
	log   logger.Logger
}

// NewItemService returns an ItemService. itemCache may be nil.
func NewItemService(
	items repositories.ItemRepository,
	bids repositories.BidRepository,
	users repositories.UserRepository,
	store repositories.Store,
	itemCache ItemCache,
	clk clock.Clock,
	log logger.Logger,
) *ItemService {
	return &ItemService{items: items, bids: bids, users: users, store: store, cache: itemCache, clock: clk, log: log}
}

// Create validates and persists a new item owned by ownerID.
func (s *ItemService) Create(ctx context.Context, ownerID uuid.UUID, in ItemInput) (*models.Item, error) {
	name, err := models.NewItemName(in.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidItem, err)
	}

	item, err := models.NewItem(ownerID, name, in.Description, in.StartingPrice, in.StartTime, in.EndTime, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	if err := domainsvcs.ValidateItemForCreation(item); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidItem, err)
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}

	s.log.InfoContext(ctx, "item created", "item_id", item.ID, "owner_id", ownerID)
	return item, nil
}

// Update revises an item. Only the owner may edit, and only before bidding opens.
func (s *ItemService) Update(ctx context.Context, userID, itemID uuid.UUID, in ItemInput) (*models.Item, error) {
	name, err := models.NewItemName(in.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidItem, err)
	}
	if err := domainsvcs.ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidItem, err)
	}

	var updated *models.Item
	err = s.store.WithinTx(ctx, func(ctx context.Context, r repositories.Repositories) error {
		item, err := r.Items.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item.OwnerID != userID {
			return domain.ErrNotItemOwner
		}
		now := s.clock.Now()
		if item.HasStarted(now) {
			return domain.ErrAuctionAlreadyStarted
		}
		if err := item.Revise(name, in.Description, in.StartingPrice, in.StartTime, in.EndTime, now); err != nil {
			return err
		}
		if err := r.Items.UpdateDetails(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.invalidate(ctx, itemID)
	return updated, nil
}

// GetByID retrieves an item view using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query Postgres.
//  3. Asynchronously warm the cache with the Postgres result, unless the item
//     was invalidated while it was being loaded.
func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*ItemView, error) {
	generation, cacheable := int64(0), false
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			if view, ok := fromCachedItem(cached); ok {
				return view, nil
			}
		case !errors.Is(err, redis.Nil):
			s.log.WarnContext(ctx, "item cache read failed", "item_id", id, "error", err)
		}
		generation, cacheable = s.generation(ctx, id)
	}

	view, err := s.loadView(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if cacheable {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
			defer cancel()
			if err := s.cache.Set(ctx, toCachedItem(view), generation); err != nil {
				s.log.WarnContext(ctx, "item cache write failed", "item_id", view.Item.ID, "error", err)
			}
		}()
	}

	return view, nil
}

// Refresh reloads an item from the database and rewrites its cache entry.
// Used by the bid-placed subscriber in the worker.
func (s *ItemService) Refresh(ctx context.Context, id uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	generation, err := s.cache.Generation(ctx, id)
	if err != nil {
		return fmt.Errorf("refresh item: %w", err)
	}
	view, err := s.loadView(ctx, id)
	if err != nil {
		return fmt.Errorf("refresh item: %w", err)
	}
	if err := s.cache.Set(ctx, toCachedItem(view), generation); err != nil {
		return fmt.Errorf("refresh item: %w", err)
	}
	return nil
}

// ListBids returns an item's bids, newest first.
func (s *ItemService) ListBids(ctx context.Context, itemID uuid.UUID) ([]*models.Bid, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	bids, err := s.bids.ListByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	return bids, nil
}

// ListByOwner returns the items owned by ownerID, newest first.
func (s *ItemService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Item, error) {
	items, err := s.items.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// ListWon returns closed auctions won by userID.
func (s *ItemService) ListWon(ctx context.Context, userID uuid.UUID) ([]*models.Item, error) {
	items, err := s.items.FindWonBy(ctx, userID, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("list won items: %w", err)
	}
	return items, nil
}

// Search returns items matching filter.
func (s *ItemService) Search(ctx context.Context, filter repositories.ItemFilter) ([]*models.Item, error) {
	if filter.StartingPriceFrom != nil && filter.StartingPriceTo != nil &&
		filter.StartingPriceFrom.GreaterThan(*filter.StartingPriceTo) {
		return nil, fmt.Errorf("%w: price range is inverted", domain.ErrInvalidFilter)
	}
	items, err := s.items.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return items, nil
}

// SearchWithoutBids is Search restricted to items nobody has bid on yet.
func (s *ItemService) SearchWithoutBids(ctx context.Context, filter repositories.ItemFilter) ([]*models.Item, error) {
	filter.OnlyWithoutBids = true
	return s.Search(ctx, filter)
}

func (s *ItemService) loadView(ctx context.Context, id uuid.UUID) (*ItemView, error) {
	d, err := s.items.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &ItemView{Item: d.Item, Bids: make([]BidView, 0, len(d.Bids))}
	if d.Owner != nil {
		view.OwnerName = d.Owner.FullName()
	}
	if d.Winner != nil {
		view.WinnerName = d.Winner.FullName()
	}

	names := map[uuid.UUID]string{}
	for _, b := range d.Bids {
		name, ok := names[b.BidderID]
		if !ok {
			u, err := s.users.GetByID(ctx, b.BidderID)
			if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
			if u != nil {
				name = u.FullName()
			}
			names[b.BidderID] = name
		}
		view.Bids = append(view.Bids, BidView{Bid: b, BidderName: name})
	}
	return view, nil
}

// generation reads the cache generation for a write-back. Without it the
// write-back cannot be guarded and is skipped.
func (s *ItemService) generation(ctx context.Context, id uuid.UUID) (int64, bool) {
	n, err := s.cache.Generation(ctx, id)
	if err != nil {
		s.log.WarnContext(ctx, "item cache generation read failed", "item_id", id, "error", err)
		return 0, false
	}
	return n, true
}

func (s *ItemService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.WarnContext(ctx, "item cache invalidation failed", "item_id", id, "error", err)
	}
}
