package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

// UserRepository reads accounts owned by the external user service.
type UserRepository interface {
	// GetByID returns ErrUserNotFound when no such user exists.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
