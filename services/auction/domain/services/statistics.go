package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

// MaxStatisticsMonths bounds the calendar months one statistics report spans.
const MaxStatisticsMonths = 120

// ValidateStatisticsRange rejects inverted ranges and ranges touching more
// than MaxStatisticsMonths calendar months.
func ValidateStatisticsRange(start, end time.Time) error {
	if end.Before(start) {
		return domain.ErrInvalidDateRange
	}
	if n := monthSpan(start, end); n > MaxStatisticsMonths {
		return fmt.Errorf("%w: spans %d months, at most %d allowed", domain.ErrInvalidDateRange, n, MaxStatisticsMonths)
	}
	return nil
}

// monthSpan counts the calendar months touched by [start, end] in UTC.
func monthSpan(start, end time.Time) int {
	start, end = start.UTC(), end.UTC()
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
}

// MonthKeys returns one "YYYY-MM" key per calendar month touched by
// [start, end], in ascending order. Months are computed in UTC. Callers bound
// the range with ValidateStatisticsRange first.
func MonthKeys(start, end time.Time) []string {
	start, end = start.UTC(), end.UTC()
	if end.Before(start) {
		return nil
	}
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)

	var keys []string
	for !cur.After(last) {
		keys = append(keys, cur.Format(models.MonthKeyLayout))
		cur = cur.AddDate(0, 1, 0)
	}
	return keys
}

// BuildStatistics merges aggregated rows into month buckets seeded at zero for
// every month of [start, end]. Rows for months outside the range are ignored.
func BuildStatistics(
	start, end time.Time,
	revenue, spending []models.MonthlyAmount,
	bids []models.MonthlyCount,
) *models.Statistics {
	keys := MonthKeys(start, end)
	index := make(map[string]int, len(keys))
	reports := make([]models.MonthlyReport, len(keys))
	for i, k := range keys {
		index[k] = i
		reports[i] = models.MonthlyReport{Month: k, Revenue: decimal.Zero, Spending: decimal.Zero}
	}

	stats := &models.Statistics{TotalRevenue: decimal.Zero, TotalSpending: decimal.Zero}

	for _, r := range revenue {
		i, ok := index[r.Month]
		if !ok {
			continue
		}
		reports[i].Revenue = reports[i].Revenue.Add(r.Amount)
		reports[i].ItemsSold += r.Items
		stats.TotalRevenue = stats.TotalRevenue.Add(r.Amount)
		stats.TotalItemsSold += r.Items
	}
	for _, s := range spending {
		i, ok := index[s.Month]
		if !ok {
			continue
		}
		reports[i].Spending = reports[i].Spending.Add(s.Amount)
		reports[i].ItemsWon += s.Items
		stats.TotalSpending = stats.TotalSpending.Add(s.Amount)
		stats.TotalItemsWon += s.Items
	}
	for _, b := range bids {
		i, ok := index[b.Month]
		if !ok {
			continue
		}
		reports[i].BidsPlaced += b.Count
		stats.TotalBidsPlaced += b.Count
	}

	stats.MonthlyReports = reports
	return stats
}
