package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const itemColumns = `id, name, description, starting_price, start_time, end_time,
    owner_id, winner_id, final_price, is_winner_notified, created_at, updated_at`

func scanItem(row interface{ Scan(...interface{}) error }) (AuctionItem, error) {
	var i AuctionItem
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.StartingPrice,
		&i.StartTime,
		&i.EndTime,
		&i.OwnerID,
		&i.WinnerID,
		&i.FinalPrice,
		&i.IsWinnerNotified,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func scanItems(rows *sql.Rows) ([]AuctionItem, error) {
	defer rows.Close()
	var items []AuctionItem
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertItem = `-- name: InsertItem :exec
INSERT INTO items (id, name, description, starting_price, start_time, end_time, owner_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type InsertItemParams struct {
	ID            uuid.UUID
	Name          string
	Description   string
	StartingPrice decimal.Decimal
	StartTime     time.Time
	EndTime       time.Time
	OwnerID       uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (q *Queries) InsertItem(ctx context.Context, arg InsertItemParams) error {
	_, err := q.db.ExecContext(ctx, insertItem,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.StartingPrice,
		arg.StartTime,
		arg.EndTime,
		arg.OwnerID,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getItemByID = `-- name: GetItemByID :one
SELECT ` + itemColumns + `
FROM items
WHERE id = $1
`

func (q *Queries) GetItemByID(ctx context.Context, id uuid.UUID) (AuctionItem, error) {
	return scanItem(q.db.QueryRowContext(ctx, getItemByID, id))
}

const getItemByIDForUpdate = `-- name: GetItemByIDForUpdate :one
SELECT ` + itemColumns + `
FROM items
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetItemByIDForUpdate(ctx context.Context, id uuid.UUID) (AuctionItem, error) {
	return scanItem(q.db.QueryRowContext(ctx, getItemByIDForUpdate, id))
}

const updateItemDetails = `-- name: UpdateItemDetails :execrows
UPDATE items
SET name = $2, description = $3, starting_price = $4, start_time = $5, end_time = $6, updated_at = $7
WHERE id = $1
`

type UpdateItemDetailsParams struct {
	ID            uuid.UUID
	Name          string
	Description   string
	StartingPrice decimal.Decimal
	StartTime     time.Time
	EndTime       time.Time
	UpdatedAt     time.Time
}

func (q *Queries) UpdateItemDetails(ctx context.Context, arg UpdateItemDetailsParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateItemDetails,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.StartingPrice,
		arg.StartTime,
		arg.EndTime,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const setItemWinner = `-- name: SetItemWinner :execrows
UPDATE items
SET winner_id = $2, final_price = $3, updated_at = $4
WHERE id = $1
`

type SetItemWinnerParams struct {
	ID         uuid.UUID
	WinnerID   uuid.UUID
	FinalPrice decimal.Decimal
	UpdatedAt  time.Time
}

func (q *Queries) SetItemWinner(ctx context.Context, arg SetItemWinnerParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, setItemWinner, arg.ID, arg.WinnerID, arg.FinalPrice, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const markItemNotified = `-- name: MarkItemNotified :execrows
UPDATE items
SET is_winner_notified = true, updated_at = $2
WHERE id = $1 AND winner_id IS NOT NULL
`

type MarkItemNotifiedParams struct {
	ID        uuid.UUID
	UpdatedAt time.Time
}

func (q *Queries) MarkItemNotified(ctx context.Context, arg MarkItemNotifiedParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, markItemNotified, arg.ID, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const findUnnotifiedItems = `-- name: FindUnnotifiedItems :many
SELECT ` + itemColumns + `
FROM items
WHERE end_time <= $1 AND winner_id IS NOT NULL AND is_winner_notified = false
ORDER BY end_time
`

func (q *Queries) FindUnnotifiedItems(ctx context.Context, now time.Time) ([]AuctionItem, error) {
	rows, err := q.db.QueryContext(ctx, findUnnotifiedItems, now)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

const findItemsByOwner = `-- name: FindItemsByOwner :many
SELECT ` + itemColumns + `
FROM items
WHERE owner_id = $1
ORDER BY created_at DESC
`

func (q *Queries) FindItemsByOwner(ctx context.Context, ownerID uuid.UUID) ([]AuctionItem, error) {
	rows, err := q.db.QueryContext(ctx, findItemsByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

const findItemsWonBy = `-- name: FindItemsWonBy :many
SELECT ` + itemColumns + `
FROM items
WHERE winner_id = $1 AND end_time < $2
ORDER BY end_time DESC
`

func (q *Queries) FindItemsWonBy(ctx context.Context, winnerID uuid.UUID, now time.Time) ([]AuctionItem, error) {
	rows, err := q.db.QueryContext(ctx, findItemsWonBy, winnerID, now)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

const searchItems = `-- name: SearchItems :many
SELECT i.id, i.name, i.description, i.starting_price, i.start_time, i.end_time,
    i.owner_id, i.winner_id, i.final_price, i.is_winner_notified, i.created_at, i.updated_at
FROM items i
JOIN users u ON u.id = i.owner_id
WHERE ($1::text IS NULL OR i.name ILIKE '%' || $1::text || '%')
  AND ($2::text IS NULL OR (u.first_name || ' ' || u.last_name) ILIKE '%' || $2::text || '%')
  AND ($3::timestamptz IS NULL OR i.start_time >= $3::timestamptz)
  AND ($4::timestamptz IS NULL OR i.end_time <= $4::timestamptz)
  AND ($5::numeric IS NULL OR i.starting_price >= $5::numeric)
  AND ($6::numeric IS NULL OR i.starting_price <= $6::numeric)
  AND (NOT $7::boolean OR NOT EXISTS (SELECT 1 FROM bids b WHERE b.item_id = i.id))
ORDER BY i.end_time
`

type SearchItemsParams struct {
	Name              sql.NullString
	OwnerName         sql.NullString
	StartTimeFrom     sql.NullTime
	EndTimeTo         sql.NullTime
	StartingPriceFrom decimal.NullDecimal
	StartingPriceTo   decimal.NullDecimal
	OnlyWithoutBids   bool
}

func (q *Queries) SearchItems(ctx context.Context, arg SearchItemsParams) ([]AuctionItem, error) {
	rows, err := q.db.QueryContext(ctx, searchItems,
		arg.Name,
		arg.OwnerName,
		arg.StartTimeFrom,
		arg.EndTimeTo,
		arg.StartingPriceFrom,
		arg.StartingPriceTo,
		arg.OnlyWithoutBids,
	)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}
