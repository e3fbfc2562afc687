package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/pkg/telemetry"
	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/events"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
)

// SettlementService notifies winners of closed auctions. Each item is settled
// in its own transaction: the AUCTION_WON intent goes through the transactional
// outbox and commits together with the notified flag, so a winner is told
// exactly once even when sweeps overlap across instances.
type SettlementService struct {
	items       repositories.ItemRepository
	store       repositories.Store
	cache       ItemCache
	log         logger.Logger
	concurrency int
	metrics     *auctionMetrics
}

// NewSettlementService returns a SettlementService settling at most
// concurrency items in parallel. itemCache may be nil.
func NewSettlementService(
	items repositories.ItemRepository,
	store repositories.Store,
	itemCache ItemCache,
	log logger.Logger,
	concurrency int,
) *SettlementService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &SettlementService{
		items:       items,
		store:       store,
		cache:       itemCache,
		log:         log,
		concurrency: concurrency,
		metrics:     newAuctionMetrics(),
	}
}

// Sweep settles every item whose auction ended at or before now, has a winner
// and has not been notified. It returns the number of winners notified.
// A failure on one item is logged and reported; the item stays eligible for
// the next sweep and the others proceed. Losing a row lock to a concurrent
// sweep is logged at info and not counted as a failure.
func (s *SettlementService) Sweep(ctx context.Context, now time.Time) (int, error) {
	ctx, span := tracer.Start(ctx, "SettlementService.Sweep")
	defer span.End()

	due, err := s.items.FindUnnotified(ctx, now)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("find unnotified items: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	var notified atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, item := range due {
		id := item.ID
		g.Go(func() error {
			ok, err := s.settle(gctx, id, now)
			if errors.Is(err, domain.ErrConcurrentModification) {
				// Another sweep holds or just settled the row; the next run rechecks it.
				s.log.InfoContext(gctx, "settlement skipped, item busy", "item_id", id)
				return nil
			}
			if err != nil {
				s.metrics.settlementFailures.Add(gctx, 1)
				s.log.ErrorContext(gctx, "settlement failed", "item_id", id, "error", err)
				telemetry.CaptureError(gctx, err, map[string]string{"item_id": id.String()})
				return nil
			}
			if ok {
				notified.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	n := int(notified.Load())
	s.metrics.settlementNotified.Add(ctx, int64(n))
	span.SetAttributes(attribute.Int("settlement.due", len(due)), attribute.Int("settlement.notified", n))
	s.log.InfoContext(ctx, "settlement sweep finished", "due", len(due), "notified", n)
	return n, nil
}

// settle notifies the winner of one item. It reports false when the item no
// longer needs settlement, e.g. another instance got there first.
func (s *SettlementService) settle(ctx context.Context, itemID uuid.UUID, now time.Time) (bool, error) {
	ctx, span := tracer.Start(ctx, "SettlementService.settle",
		trace.WithAttributes(attribute.String("item.id", itemID.String())))
	defer span.End()

	var done bool
	err := s.store.WithinTx(ctx, func(ctx context.Context, r repositories.Repositories) error {
		item, err := r.Items.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if !item.AwaitsSettlement(now) {
			return nil
		}

		d, err := r.Items.GetDetails(ctx, itemID)
		if err != nil {
			return fmt.Errorf("load details: %w", err)
		}
		if d.Winner == nil {
			s.log.WarnContext(ctx, "winner account missing, skipping", "item_id", itemID)
			return nil
		}

		if err := r.Notifications.Emit(ctx, auctionWonIntent(d, now)); err != nil {
			return fmt.Errorf("emit auction won: %w", err)
		}
		if err := item.MarkNotified(now); err != nil {
			return err
		}
		if err := r.Items.MarkNotified(ctx, item); err != nil {
			return fmt.Errorf("mark notified: %w", err)
		}
		done = true
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return false, err
	}

	if done && s.cache != nil {
		if err := s.cache.Delete(ctx, itemID); err != nil {
			s.log.WarnContext(ctx, "item cache invalidation failed", "item_id", itemID, "error", err)
		}
	}
	return done, nil
}

func auctionWonIntent(d *models.ItemDetails, now time.Time) events.NotificationIntent {
	it := d.Item
	params := map[string]any{
		"winnerName":    d.Winner.FullName(),
		"itemName":      it.Name.String(),
		"description":   it.Description,
		"startingPrice": it.StartingPrice.String(),
		"finalPrice":    it.FinalPrice.Decimal.String(),
		"startTime":     it.StartTime.Format(time.RFC3339),
		"endTime":       it.EndTime.Format(time.RFC3339),
	}
	if d.Owner != nil {
		params["ownerName"] = d.Owner.FullName()
		params["ownerEmail"] = d.Owner.Email
	}
	return events.NewNotificationIntent(d.Winner.ID, events.EventCodeAuctionWon, params, now)
}

