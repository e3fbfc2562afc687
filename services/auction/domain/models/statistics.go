package models

import "github.com/shopspring/decimal"

// MonthKeyLayout is the time layout of a month bucket key ("2024-03").
const MonthKeyLayout = "2006-01"

// MonthlyAmount is one aggregated month of money flow: revenue for an owner
// or spending for a winner.
type MonthlyAmount struct {
	Month  string
	Amount decimal.Decimal
	Items  int
}

// MonthlyCount is one aggregated month of bid activity.
type MonthlyCount struct {
	Month string
	Count int
}

// MonthlyReport is a single calendar month of a user's statistics.
type MonthlyReport struct {
	Month      string
	Revenue    decimal.Decimal
	ItemsSold  int
	Spending   decimal.Decimal
	ItemsWon   int
	BidsPlaced int
}

// Statistics summarises a user's activity as owner, winner and bidder.
type Statistics struct {
	MonthlyReports  []MonthlyReport
	TotalRevenue    decimal.Decimal
	TotalItemsSold  int
	TotalSpending   decimal.Decimal
	TotalItemsWon   int
	TotalBidsPlaced int
}
