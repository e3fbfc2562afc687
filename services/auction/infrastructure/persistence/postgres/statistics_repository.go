package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
	"github.com/ghuser/auctionhouse/services/auction/infrastructure/persistence/postgres/db"
)

// StatisticsRepository runs reporting aggregations grouped by item end_time month (UTC).
type StatisticsRepository struct {
	q *db.Queries
}

// NewStatisticsRepository returns a StatisticsRepository running on conn.
func NewStatisticsRepository(conn db.DBTX) *StatisticsRepository {
	return &StatisticsRepository{q: db.New(conn)}
}

func (r *StatisticsRepository) MonthlyRevenue(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]models.MonthlyAmount, error) {
	rows, err := r.q.MonthlyRevenue(ctx, db.StatisticsRangeParams{UserID: ownerID, From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("query monthly revenue: %w", err)
	}
	return toMonthlyAmounts(rows), nil
}

func (r *StatisticsRepository) MonthlySpending(ctx context.Context, winnerID uuid.UUID, from, to time.Time) ([]models.MonthlyAmount, error) {
	rows, err := r.q.MonthlySpending(ctx, db.StatisticsRangeParams{UserID: winnerID, From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("query monthly spending: %w", err)
	}
	return toMonthlyAmounts(rows), nil
}

func (r *StatisticsRepository) MonthlyBids(ctx context.Context, bidderID uuid.UUID, from, to time.Time) ([]models.MonthlyCount, error) {
	rows, err := r.q.MonthlyBids(ctx, db.StatisticsRangeParams{UserID: bidderID, From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("query monthly bids: %w", err)
	}
	out := make([]models.MonthlyCount, len(rows))
	for i, row := range rows {
		out[i] = models.MonthlyCount{Month: row.Month, Count: int(row.Count)}
	}
	return out, nil
}

func (r *StatisticsRepository) Revenue(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	total, err := r.q.TotalRevenue(ctx, db.StatisticsRangeParams{UserID: ownerID, From: from, To: to})
	if err != nil {
		return decimal.Zero, fmt.Errorf("query revenue: %w", err)
	}
	return total, nil
}

func toMonthlyAmounts(rows []db.MonthlyAmountRow) []models.MonthlyAmount {
	out := make([]models.MonthlyAmount, len(rows))
	for i, row := range rows {
		out[i] = models.MonthlyAmount{Month: row.Month, Amount: row.Amount, Items: int(row.Items)}
	}
	return out
}

var _ repositories.StatisticsRepository = (*StatisticsRepository)(nil)
