package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const insertBid = `-- name: InsertBid :exec
INSERT INTO bids (id, item_id, user_id, price, created_at)
VALUES ($1, $2, $3, $4, $5)
`

type InsertBidParams struct {
	ID        uuid.UUID
	ItemID    uuid.UUID
	UserID    uuid.UUID
	Price     decimal.Decimal
	CreatedAt time.Time
}

func (q *Queries) InsertBid(ctx context.Context, arg InsertBidParams) error {
	_, err := q.db.ExecContext(ctx, insertBid, arg.ID, arg.ItemID, arg.UserID, arg.Price, arg.CreatedAt)
	return err
}

const getHighestBid = `-- name: GetHighestBid :one
SELECT id, item_id, user_id, price, created_at
FROM bids
WHERE item_id = $1
ORDER BY price DESC, created_at ASC
LIMIT 1
`

func (q *Queries) GetHighestBid(ctx context.Context, itemID uuid.UUID) (AuctionBid, error) {
	row := q.db.QueryRowContext(ctx, getHighestBid, itemID)
	var b AuctionBid
	err := row.Scan(&b.ID, &b.ItemID, &b.UserID, &b.Price, &b.CreatedAt)
	return b, err
}

const listBidsByItem = `-- name: ListBidsByItem :many
SELECT id, item_id, user_id, price, created_at
FROM bids
WHERE item_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListBidsByItem(ctx context.Context, itemID uuid.UUID) ([]AuctionBid, error) {
	rows, err := q.db.QueryContext(ctx, listBidsByItem, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var bids []AuctionBid
	for rows.Next() {
		var b AuctionBid
		if err := rows.Scan(&b.ID, &b.ItemID, &b.UserID, &b.Price, &b.CreatedAt); err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bids, nil
}
