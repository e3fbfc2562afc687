package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
	"github.com/ghuser/auctionhouse/services/auction/infrastructure/persistence/postgres/db"
)

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
type ItemRepository struct {
	q *db.Queries
}

// NewItemRepository returns an ItemRepository running on conn, which is
// either the pool (*sql.DB) or an open transaction.
func NewItemRepository(conn db.DBTX) *ItemRepository {
	return &ItemRepository{q: db.New(conn)}
}

// Create persists a new item. Returns ErrUserNotFound when the owner does not exist.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	err := r.q.InsertItem(ctx, db.InsertItemParams{
		ID:            item.ID,
		Name:          item.Name.String(),
		Description:   item.Description,
		StartingPrice: item.StartingPrice,
		StartTime:     item.StartTime,
		EndTime:       item.EndTime,
		OwnerID:       item.OwnerID,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	})
	if err != nil {
		switch code, _ := pgCode(err); code {
		case pgForeignKeyViolation:
			return domain.ErrUserNotFound
		case pgCheckViolation:
			return rejected(ctx, err, domain.ErrInvalidItem, "item violates a storage constraint")
		case pgNumericOverflow:
			return rejected(ctx, err, domain.ErrInvalidPrice, "starting price out of range")
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID retrieves an item. Returns ErrItemNotFound if not found.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	row, err := r.q.GetItemByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "query item")
	}
	return rowToItem(row), nil
}

// GetByIDForUpdate retrieves an item with SELECT ... FOR UPDATE.
func (r *ItemRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	row, err := r.q.GetItemByIDForUpdate(ctx, id)
	if err != nil {
		return nil, notFound(err, "lock item")
	}
	return rowToItem(row), nil
}

// GetDetails loads the item with owner, winner and bids (newest first).
func (r *ItemRepository) GetDetails(ctx context.Context, id uuid.UUID) (*models.ItemDetails, error) {
	item, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &models.ItemDetails{Item: item}

	if owner, err := r.q.GetUserByID(ctx, item.OwnerID); err == nil {
		d.Owner = rowToUser(owner)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query owner: %w", err)
	}

	if item.WinnerID.Valid {
		if winner, err := r.q.GetUserByID(ctx, item.WinnerID.UUID); err == nil {
			d.Winner = rowToUser(winner)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("query winner: %w", err)
		}
	}

	rows, err := r.q.ListBidsByItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("query bids: %w", err)
	}
	d.Bids = rowsToBids(rows)
	return d, nil
}

// UpdateDetails persists the owner-editable fields.
func (r *ItemRepository) UpdateDetails(ctx context.Context, item *models.Item) error {
	n, err := r.q.UpdateItemDetails(ctx, db.UpdateItemDetailsParams{
		ID:            item.ID,
		Name:          item.Name.String(),
		Description:   item.Description,
		StartingPrice: item.StartingPrice,
		StartTime:     item.StartTime,
		EndTime:       item.EndTime,
		UpdatedAt:     item.UpdatedAt,
	})
	if err != nil {
		switch code, _ := pgCode(err); code {
		case pgCheckViolation:
			return rejected(ctx, err, domain.ErrInvalidItem, "item violates a storage constraint")
		case pgNumericOverflow:
			return rejected(ctx, err, domain.ErrInvalidPrice, "starting price out of range")
		}
		return fmt.Errorf("update item: %w", err)
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// SetWinner persists winner_id and final_price together.
func (r *ItemRepository) SetWinner(ctx context.Context, item *models.Item) error {
	if !item.WinnerID.Valid || !item.FinalPrice.Valid {
		return domain.ErrNoWinner
	}
	n, err := r.q.SetItemWinner(ctx, db.SetItemWinnerParams{
		ID:         item.ID,
		WinnerID:   item.WinnerID.UUID,
		FinalPrice: item.FinalPrice.Decimal,
		UpdatedAt:  item.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("set winner: %w", err)
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// MarkNotified sets is_winner_notified. Returns ErrNoWinner when the row has no winner.
func (r *ItemRepository) MarkNotified(ctx context.Context, item *models.Item) error {
	n, err := r.q.MarkItemNotified(ctx, db.MarkItemNotifiedParams{ID: item.ID, UpdatedAt: item.UpdatedAt})
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	if n == 0 {
		return domain.ErrNoWinner
	}
	return nil
}

func (r *ItemRepository) FindUnnotified(ctx context.Context, now time.Time) ([]*models.Item, error) {
	rows, err := r.q.FindUnnotifiedItems(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("query unnotified items: %w", err)
	}
	return rowsToItems(rows), nil
}

func (r *ItemRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Item, error) {
	rows, err := r.q.FindItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query items by owner: %w", err)
	}
	return rowsToItems(rows), nil
}

func (r *ItemRepository) FindWonBy(ctx context.Context, userID uuid.UUID, now time.Time) ([]*models.Item, error) {
	rows, err := r.q.FindItemsWonBy(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("query won items: %w", err)
	}
	return rowsToItems(rows), nil
}

func (r *ItemRepository) Search(ctx context.Context, f repositories.ItemFilter) ([]*models.Item, error) {
	rows, err := r.q.SearchItems(ctx, db.SearchItemsParams{
		Name:              nullString(f.Name),
		OwnerName:         nullString(f.OwnerName),
		StartTimeFrom:     nullTime(f.StartTimeFrom),
		EndTimeTo:         nullTime(f.EndTimeTo),
		StartingPriceFrom: nullDecimal(f.StartingPriceFrom),
		StartingPriceTo:   nullDecimal(f.StartingPriceTo),
		OnlyWithoutBids:   f.OnlyWithoutBids,
	})
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return rowsToItems(rows), nil
}

func notFound(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrItemNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// rowToItem maps a db.AuctionItem to a domain models.Item.
func rowToItem(row db.AuctionItem) *models.Item {
	return &models.Item{
		ID:            row.ID,
		Name:          models.ItemName(row.Name),
		Description:   row.Description,
		StartingPrice: row.StartingPrice,
		StartTime:     row.StartTime.UTC(),
		EndTime:       row.EndTime.UTC(),
		OwnerID:       row.OwnerID,
		WinnerID:      row.WinnerID,
		FinalPrice:    row.FinalPrice,
		Notified:      row.IsWinnerNotified,
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}
}

func rowsToItems(rows []db.AuctionItem) []*models.Item {
	items := make([]*models.Item, len(rows))
	for i, row := range rows {
		items[i] = rowToItem(row)
	}
	return items
}

var _ repositories.ItemRepository = (*ItemRepository)(nil)
