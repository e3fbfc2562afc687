package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

// ItemFilter narrows item searches. Zero values mean "no constraint".
type ItemFilter struct {
	Name              string
	OwnerName         string
	StartTimeFrom     *time.Time // items starting at or after
	EndTimeTo         *time.Time // items ending at or before
	StartingPriceFrom *decimal.Decimal
	StartingPriceTo   *decimal.Decimal
	OnlyWithoutBids   bool
}

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)

	// GetByIDForUpdate loads the item and holds an exclusive row lock until the
	// surrounding transaction ends. Only meaningful inside Store.WithinTx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Item, error)

	// GetDetails loads the item with its owner and winner (nil when unset).
	GetDetails(ctx context.Context, id uuid.UUID) (*models.ItemDetails, error)

	// UpdateDetails persists name, description, price and window changes.
	UpdateDetails(ctx context.Context, item *models.Item) error

	// SetWinner persists WinnerID, FinalPrice and UpdatedAt together.
	SetWinner(ctx context.Context, item *models.Item) error

	// MarkNotified persists Notified=true for an item that has a winner.
	MarkNotified(ctx context.Context, item *models.Item) error

	// FindUnnotified returns items with end_time <= now, a winner, and notified = false.
	FindUnnotified(ctx context.Context, now time.Time) ([]*models.Item, error)

	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Item, error)

	// FindWonBy returns closed (end_time < now) items won by userID.
	FindWonBy(ctx context.Context, userID uuid.UUID, now time.Time) ([]*models.Item, error)

	Search(ctx context.Context, filter ItemFilter) ([]*models.Item, error)
}
