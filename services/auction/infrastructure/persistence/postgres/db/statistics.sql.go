package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MonthlyAmountRow struct {
	Month  string
	Amount decimal.Decimal
	Items  int64
}

type MonthlyCountRow struct {
	Month string
	Count int64
}

type StatisticsRangeParams struct {
	UserID uuid.UUID
	From   time.Time
	To     time.Time
}

const monthlyRevenue = `-- name: MonthlyRevenue :many
SELECT TO_CHAR(end_time AT TIME ZONE 'UTC', 'YYYY-MM') AS month,
       SUM(final_price)::numeric AS amount,
       COUNT(id) AS items
FROM items
WHERE owner_id = $1 AND end_time BETWEEN $2 AND $3 AND final_price IS NOT NULL
GROUP BY month
ORDER BY month
`

func (q *Queries) MonthlyRevenue(ctx context.Context, arg StatisticsRangeParams) ([]MonthlyAmountRow, error) {
	rows, err := q.db.QueryContext(ctx, monthlyRevenue, arg.UserID, arg.From, arg.To)
	if err != nil {
		return nil, err
	}
	return scanMonthlyAmounts(rows)
}

const monthlySpending = `-- name: MonthlySpending :many
SELECT TO_CHAR(end_time AT TIME ZONE 'UTC', 'YYYY-MM') AS month,
       SUM(final_price)::numeric AS amount,
       COUNT(id) AS items
FROM items
WHERE winner_id = $1 AND end_time BETWEEN $2 AND $3 AND final_price IS NOT NULL
GROUP BY month
ORDER BY month
`

func (q *Queries) MonthlySpending(ctx context.Context, arg StatisticsRangeParams) ([]MonthlyAmountRow, error) {
	rows, err := q.db.QueryContext(ctx, monthlySpending, arg.UserID, arg.From, arg.To)
	if err != nil {
		return nil, err
	}
	return scanMonthlyAmounts(rows)
}

const monthlyBids = `-- name: MonthlyBids :many
SELECT TO_CHAR(i.end_time AT TIME ZONE 'UTC', 'YYYY-MM') AS month,
       COUNT(b.id) AS bids
FROM bids b
JOIN items i ON i.id = b.item_id
WHERE b.user_id = $1 AND i.end_time BETWEEN $2 AND $3
GROUP BY month
ORDER BY month
`

func (q *Queries) MonthlyBids(ctx context.Context, arg StatisticsRangeParams) ([]MonthlyCountRow, error) {
	rows, err := q.db.QueryContext(ctx, monthlyBids, arg.UserID, arg.From, arg.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MonthlyCountRow
	for rows.Next() {
		var r MonthlyCountRow
		if err := rows.Scan(&r.Month, &r.Count); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const totalRevenue = `-- name: TotalRevenue :one
SELECT COALESCE(SUM(final_price), 0)::numeric AS total
FROM items
WHERE owner_id = $1 AND end_time BETWEEN $2 AND $3 AND final_price IS NOT NULL
`

func (q *Queries) TotalRevenue(ctx context.Context, arg StatisticsRangeParams) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := q.db.QueryRowContext(ctx, totalRevenue, arg.UserID, arg.From, arg.To).Scan(&total)
	return total, err
}

func scanMonthlyAmounts(rows *sql.Rows) ([]MonthlyAmountRow, error) {
	defer rows.Close()
	var out []MonthlyAmountRow
	for rows.Next() {
		var r MonthlyAmountRow
		if err := rows.Scan(&r.Month, &r.Amount, &r.Items); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
