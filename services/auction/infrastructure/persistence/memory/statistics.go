package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
)

type statisticsRepo struct{ s *Store }

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func monthOf(t time.Time) string {
	return t.UTC().Format(models.MonthKeyLayout)
}

// sumByMonth aggregates final prices of sold items matching keep, keyed by end_time month.
func (r *statisticsRepo) sumByMonth(keep func(models.Item) bool, from, to time.Time) []models.MonthlyAmount {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx := map[string]int{}
	var out []models.MonthlyAmount
	for _, it := range r.s.st.items {
		if !it.FinalPrice.Valid || !keep(it) || !inRange(it.EndTime, from, to) {
			continue
		}
		m := monthOf(it.EndTime)
		i, ok := idx[m]
		if !ok {
			i = len(out)
			idx[m] = i
			out = append(out, models.MonthlyAmount{Month: m, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(it.FinalPrice.Decimal)
		out[i].Items++
	}
	return out
}

func (r *statisticsRepo) MonthlyRevenue(_ context.Context, ownerID uuid.UUID, from, to time.Time) ([]models.MonthlyAmount, error) {
	return r.sumByMonth(func(it models.Item) bool { return it.OwnerID == ownerID }, from, to), nil
}

func (r *statisticsRepo) MonthlySpending(_ context.Context, winnerID uuid.UUID, from, to time.Time) ([]models.MonthlyAmount, error) {
	return r.sumByMonth(func(it models.Item) bool {
		return it.WinnerID.Valid && it.WinnerID.UUID == winnerID
	}, from, to), nil
}

func (r *statisticsRepo) MonthlyBids(_ context.Context, bidderID uuid.UUID, from, to time.Time) ([]models.MonthlyCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx := map[string]int{}
	var out []models.MonthlyCount
	for _, b := range r.s.st.bids {
		if b.BidderID != bidderID {
			continue
		}
		it, ok := r.s.st.items[b.ItemID]
		if !ok || !inRange(it.EndTime, from, to) {
			continue
		}
		m := monthOf(it.EndTime)
		i, ok := idx[m]
		if !ok {
			i = len(out)
			idx[m] = i
			out = append(out, models.MonthlyCount{Month: m})
		}
		out[i].Count++
	}
	return out, nil
}

func (r *statisticsRepo) Revenue(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	rows, _ := r.MonthlyRevenue(ctx, ownerID, from, to)
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Amount)
	}
	return total, nil
}

var _ repositories.StatisticsRepository = (*statisticsRepo)(nil)
