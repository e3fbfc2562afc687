package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
	"github.com/ghuser/auctionhouse/services/auction/infrastructure/persistence/postgres/db"
)

// UserRepository reads the users table.
type UserRepository struct {
	q *db.Queries
}

// NewUserRepository returns a UserRepository running on conn.
func NewUserRepository(conn db.DBTX) *UserRepository {
	return &UserRepository{q: db.New(conn)}
}

// GetByID returns ErrUserNotFound when no such user exists.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return rowToUser(row), nil
}

func rowToUser(row db.AuctionUser) *models.User {
	return &models.User{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Email:     row.Email,
	}
}

var _ repositories.UserRepository = (*UserRepository)(nil)
