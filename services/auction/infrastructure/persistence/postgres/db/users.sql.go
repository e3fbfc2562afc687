package db

import (
	"context"

	"github.com/google/uuid"
)

const getUserByID = `-- name: GetUserByID :one
SELECT id, first_name, last_name, email
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (AuctionUser, error) {
	row := q.db.QueryRowContext(ctx, getUserByID, id)
	var u AuctionUser
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email)
	return u, err
}
