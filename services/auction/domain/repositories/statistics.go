package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

// StatisticsRepository runs read-only aggregations over items and bids.
// All ranges filter on item end_time, inclusive on both ends.
type StatisticsRepository interface {
	// MonthlyRevenue aggregates final prices of sold items owned by ownerID.
	MonthlyRevenue(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]models.MonthlyAmount, error)

	// MonthlySpending aggregates final prices of items won by winnerID.
	MonthlySpending(ctx context.Context, winnerID uuid.UUID, from, to time.Time) ([]models.MonthlyAmount, error)

	// MonthlyBids counts bids placed by bidderID.
	MonthlyBids(ctx context.Context, bidderID uuid.UUID, from, to time.Time) ([]models.MonthlyCount, error)

	// Revenue sums final prices of items owned by ownerID. Zero when nothing sold.
	Revenue(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}
