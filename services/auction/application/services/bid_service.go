package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/events"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
	domainsvcs "github.com/ghuser/auctionhouse/services/auction/domain/services"
)

// BidService accepts or rejects bids. Validation, the bid insert and the
// winner update happen in one transaction holding the item's row lock, so two
// bids on the same item are serialized and the later one is validated against
// the earlier one's price.
type BidService struct {
	store       repositories.Store
	owners      repositories.NotificationSink // best effort, after commit
	cache       ItemCache
	clock       clock.Clock
	log         logger.Logger
	itemURLBase string
	metrics     *auctionMetrics
}

// NewBidService returns a BidService. owners receives BID_NOTIFICATION
// intents once a bid is committed; itemCache may be nil.
func NewBidService(
	store repositories.Store,
	owners repositories.NotificationSink,
	itemCache ItemCache,
	clk clock.Clock,
	log logger.Logger,
	itemURLBase string,
) *BidService {
	return &BidService{
		store:       store,
		owners:      owners,
		cache:       itemCache,
		clock:       clk,
		log:         log,
		itemURLBase: itemURLBase,
		metrics:     newAuctionMetrics(),
	}
}

// PlaceBid records a bid of price by bidderID on itemID and makes the bidder
// the item's current winner.
//
// Errors: ErrBidderNotFound, ErrItemNotFound, ErrAuctionClosedOrNotStarted,
// ErrOwnerCannotBid, ErrBidTooLow, ErrConcurrentModification.
func (s *BidService) PlaceBid(ctx context.Context, itemID, bidderID uuid.UUID, price decimal.Decimal) (*models.Bid, error) {
	ctx, span := tracer.Start(ctx, "BidService.PlaceBid", trace.WithAttributes(
		attribute.String("item.id", itemID.String()),
		attribute.String("bidder.id", bidderID.String()),
		attribute.String("bid.price", price.String()),
	))
	defer span.End()

	var (
		bid    *models.Bid
		item   *models.Item
		bidder *models.User
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, r repositories.Repositories) error {
		u, err := r.Users.GetByID(ctx, bidderID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return domain.ErrBidderNotFound
			}
			return fmt.Errorf("load bidder: %w", err)
		}

		it, err := r.Items.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}

		highest, err := r.Bids.HighestForItem(ctx, itemID)
		if err != nil {
			return fmt.Errorf("load highest bid: %w", err)
		}

		now := s.clock.Now()
		if err := domainsvcs.ValidateBid(now, it, highest, price, bidderID); err != nil {
			return err
		}

		b := models.NewBid(itemID, bidderID, price, now)
		if err := r.Bids.Create(ctx, b); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return domain.ErrBidderNotFound
			}
			return fmt.Errorf("insert bid: %w", err)
		}

		it.AssignWinner(bidderID, price, now)
		if err := r.Items.SetWinner(ctx, it); err != nil {
			return fmt.Errorf("set winner: %w", err)
		}

		if err := r.Events.PublishBidPlaced(ctx, events.BidPlacedEvent{
			EventID:    uuid.New(),
			Version:    1,
			BidID:      b.ID,
			ItemID:     itemID,
			BidderID:   bidderID,
			Price:      price,
			OccurredAt: now,
		}); err != nil {
			return fmt.Errorf("publish bid placed: %w", err)
		}

		bid, item, bidder = b, it, u
		return nil
	})
	if err != nil {
		s.metrics.bidsRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", rejectReason(err))))
		span.RecordError(err)
		span.SetStatus(codes.Error, "bid rejected")
		return nil, fmt.Errorf("place bid: %w", err)
	}

	s.metrics.bidsAccepted.Add(ctx, 1)
	s.metrics.bidPrice.Record(ctx, price.InexactFloat64())
	s.log.InfoContext(ctx, "bid accepted", "item_id", itemID, "bid_id", bid.ID, "price", price.String())

	if s.cache != nil {
		if err := s.cache.Delete(ctx, itemID); err != nil {
			s.log.WarnContext(ctx, "item cache invalidation failed", "item_id", itemID, "error", err)
		}
	}
	s.notifyOwner(ctx, item, bidder, bid)

	return bid, nil
}

// notifyOwner tells the item owner about the new bid. The bid is already
// committed, so a failure here is logged and swallowed.
func (s *BidService) notifyOwner(ctx context.Context, item *models.Item, bidder *models.User, bid *models.Bid) {
	if s.owners == nil {
		return
	}
	intent := events.NewNotificationIntent(item.OwnerID, events.EventCodeBidNotification, map[string]any{
		"bidAmount":  bid.Price.String(),
		"bidderName": bidder.FullName(),
		"itemName":   item.Name.String(),
		"actionUrl":  s.itemURLBase + item.ID.String(),
	}, s.clock.Now())
	if err := s.owners.Emit(ctx, intent); err != nil {
		s.log.WarnContext(ctx, "bid notification not sent", "item_id", item.ID, "bid_id", bid.ID, "error", err)
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuctionClosedOrNotStarted):
		return "window"
	case errors.Is(err, domain.ErrOwnerCannotBid):
		return "owner"
	case errors.Is(err, domain.ErrBidTooLow), errors.Is(err, domain.ErrInvalidPrice):
		return "price"
	case errors.Is(err, domain.ErrConcurrentModification):
		return "conflict"
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrBidderNotFound):
		return "not_found"
	default:
		return "error"
	}
}
