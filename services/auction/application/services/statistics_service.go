package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
	domainsvcs "github.com/ghuser/auctionhouse/services/auction/domain/services"
)

// StatisticsService reports a user's activity as seller, buyer and bidder.
type StatisticsService struct {
	stats repositories.StatisticsRepository
}

// NewStatisticsService returns a StatisticsService.
func NewStatisticsService(stats repositories.StatisticsRepository) *StatisticsService {
	return &StatisticsService{stats: stats}
}

// GetStatistics aggregates userID's revenue, spending and bids over items
// ending within [start, end], with one bucket per calendar month. Ranges over
// domainsvcs.MaxStatisticsMonths months are rejected with ErrInvalidDateRange.
func (s *StatisticsService) GetStatistics(ctx context.Context, userID uuid.UUID, start, end time.Time) (*models.Statistics, error) {
	if err := domainsvcs.ValidateStatisticsRange(start, end); err != nil {
		return nil, err
	}

	var (
		revenue, spending []models.MonthlyAmount
		bids              []models.MonthlyCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		revenue, err = s.stats.MonthlyRevenue(gctx, userID, start, end)
		return err
	})
	g.Go(func() (err error) {
		spending, err = s.stats.MonthlySpending(gctx, userID, start, end)
		return err
	})
	g.Go(func() (err error) {
		bids, err = s.stats.MonthlyBids(gctx, userID, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("get statistics: %w", err)
	}

	return domainsvcs.BuildStatistics(start, end, revenue, spending, bids), nil
}

// GetRevenue returns the total final price of ownerID's items ending within [start, end].
func (s *StatisticsService) GetRevenue(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	if end.Before(start) {
		return decimal.Zero, domain.ErrInvalidDateRange
	}
	total, err := s.stats.Revenue(ctx, ownerID, start, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get revenue: %w", err)
	}
	return total, nil
}
