package services

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

func TestMonthKeys(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       []string
	}{
		{
			"single month",
			time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
			[]string{"2024-03"},
		},
		{
			"spans year boundary",
			time.Date(2023, 11, 30, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			[]string{"2023-11", "2023-12", "2024-01"},
		},
		{
			"start on 31st does not skip months",
			time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			[]string{"2024-01", "2024-02", "2024-03"},
		},
		{
			"end before start",
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthKeys(tt.start, tt.end)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("MonthKeys() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateStatisticsRange(t *testing.T) {
	jan2015 := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		start, end time.Time
		wantErr    bool
	}{
		{"same instant", jan2015, jan2015, false},
		{"exactly the cap", jan2015, time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), false},
		{"one month over the cap", jan2015, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"far future end", jan2015, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{"end before start", jan2015, jan2015.Add(-time.Second), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStatisticsRange(tt.start, tt.end)
			if tt.wantErr && !errors.Is(err, domain.ErrInvalidDateRange) {
				t.Fatalf("expected ErrInvalidDateRange, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	if got := len(MonthKeys(jan2015, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))); got != MaxStatisticsMonths {
		t.Fatalf("expected %d month keys at the cap, got %d", MaxStatisticsMonths, got)
	}
}

func TestBuildStatistics_SeedsEmptyMonths(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)

	revenue := []models.MonthlyAmount{
		{Month: "2024-01", Amount: dec("250.00"), Items: 2},
		{Month: "2024-03", Amount: dec("100.50"), Items: 1},
	}
	spending := []models.MonthlyAmount{
		{Month: "2024-03", Amount: dec("80"), Items: 1},
	}
	bids := []models.MonthlyCount{
		{Month: "2024-01", Count: 4},
		{Month: "2024-03", Count: 1},
		{Month: "2025-07", Count: 9}, // outside range
	}

	stats := BuildStatistics(start, end, revenue, spending, bids)

	if len(stats.MonthlyReports) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(stats.MonthlyReports))
	}
	feb := stats.MonthlyReports[1]
	if feb.Month != "2024-02" || !feb.Revenue.IsZero() || feb.ItemsSold != 0 || feb.BidsPlaced != 0 {
		t.Fatalf("expected zeroed February bucket, got %+v", feb)
	}
	for i, want := range []string{"2024-01", "2024-02", "2024-03"} {
		if stats.MonthlyReports[i].Month != want {
			t.Errorf("bucket %d: got %s, want %s", i, stats.MonthlyReports[i].Month, want)
		}
	}

	if !stats.TotalRevenue.Equal(dec("350.50")) {
		t.Errorf("TotalRevenue = %s, want 350.50", stats.TotalRevenue)
	}
	if stats.TotalItemsSold != 3 {
		t.Errorf("TotalItemsSold = %d, want 3", stats.TotalItemsSold)
	}
	if !stats.TotalSpending.Equal(dec("80")) || stats.TotalItemsWon != 1 {
		t.Errorf("spending totals = %s/%d, want 80/1", stats.TotalSpending, stats.TotalItemsWon)
	}
	if stats.TotalBidsPlaced != 5 {
		t.Errorf("TotalBidsPlaced = %d, want 5", stats.TotalBidsPlaced)
	}
}

func TestBuildStatistics_TotalsEqualSumOfBuckets(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	revenue := []models.MonthlyAmount{
		{Month: "2024-05", Amount: dec("10"), Items: 1},
		{Month: "2024-06", Amount: dec("32.25"), Items: 3},
	}

	stats := BuildStatistics(start, end, revenue, nil, nil)

	sum := dec("0")
	items := 0
	for _, r := range stats.MonthlyReports {
		sum = sum.Add(r.Revenue)
		items += r.ItemsSold
	}
	if !sum.Equal(stats.TotalRevenue) || items != stats.TotalItemsSold {
		t.Fatalf("totals %s/%d do not match buckets %s/%d", stats.TotalRevenue, stats.TotalItemsSold, sum, items)
	}
}
