package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/services/auction/domain"
)

// Item is an auction listing with a fixed bidding window.
//
// WinnerID and FinalPrice are either both null or both set; they always hold
// the bidder and price of the highest accepted bid. Notified only becomes true
// once a winner exists.
type Item struct {
	ID            uuid.UUID
	Name          ItemName
	Description   string
	StartingPrice decimal.Decimal
	StartTime     time.Time
	EndTime       time.Time
	OwnerID       uuid.UUID
	WinnerID      uuid.NullUUID
	FinalPrice    decimal.NullDecimal
	Notified      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewItem constructs an Item owned by ownerID. The window must satisfy
// end > start and the starting price must be non-negative.
func NewItem(
	ownerID uuid.UUID,
	name ItemName,
	description string,
	startingPrice decimal.Decimal,
	start, end, now time.Time,
) (*Item, error) {
	if err := validateTerms(startingPrice, start, end); err != nil {
		return nil, err
	}
	now = now.UTC()
	return &Item{
		ID:            uuid.New(),
		Name:          name,
		Description:   description,
		StartingPrice: startingPrice,
		StartTime:     start.UTC(),
		EndTime:       end.UTC(),
		OwnerID:       ownerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Revise replaces the editable fields of the item after re-checking its terms.
func (i *Item) Revise(name ItemName, description string, startingPrice decimal.Decimal, start, end, now time.Time) error {
	if err := validateTerms(startingPrice, start, end); err != nil {
		return err
	}
	i.Name = name
	i.Description = description
	i.StartingPrice = startingPrice
	i.StartTime = start.UTC()
	i.EndTime = end.UTC()
	i.UpdatedAt = now.UTC()
	return nil
}

func validateTerms(startingPrice decimal.Decimal, start, end time.Time) error {
	if startingPrice.IsNegative() {
		return fmt.Errorf("%w: starting price must not be negative", domain.ErrInvalidItem)
	}
	if err := CheckPrice(startingPrice); err != nil {
		return fmt.Errorf("%w: starting price: %w", domain.ErrInvalidItem, err)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end time must be after start time", domain.ErrInvalidItem)
	}
	return nil
}

// IsOpenAt reports whether now lies inside the closed interval [StartTime, EndTime].
func (i *Item) IsOpenAt(now time.Time) bool {
	return !now.Before(i.StartTime) && !now.After(i.EndTime)
}

// HasStarted reports whether the bidding window has opened at now.
func (i *Item) HasStarted(now time.Time) bool {
	return !now.Before(i.StartTime)
}

// HasWinner reports whether a bid has been accepted for the item.
func (i *Item) HasWinner() bool {
	return i.WinnerID.Valid
}

// AwaitsSettlement reports whether the item is closed at now, has a winner and
// has not been notified yet.
func (i *Item) AwaitsSettlement(now time.Time) bool {
	return !i.EndTime.After(now) && i.HasWinner() && !i.Notified
}

// AssignWinner records bidderID as the current winner at price.
// Winner and final price are always set together.
func (i *Item) AssignWinner(bidderID uuid.UUID, price decimal.Decimal, now time.Time) {
	i.WinnerID = uuid.NullUUID{UUID: bidderID, Valid: true}
	i.FinalPrice = decimal.NullDecimal{Decimal: price, Valid: true}
	i.UpdatedAt = now.UTC()
}

// MarkNotified flags the winner as notified. Fails with ErrNoWinner when no
// winner has been assigned.
func (i *Item) MarkNotified(now time.Time) error {
	if !i.HasWinner() {
		return domain.ErrNoWinner
	}
	i.Notified = true
	i.UpdatedAt = now.UTC()
	return nil
}

// CurrentPrice returns the final price when a bid exists, otherwise the starting price.
func (i *Item) CurrentPrice() decimal.Decimal {
	if i.FinalPrice.Valid {
		return i.FinalPrice.Decimal
	}
	return i.StartingPrice
}

// ItemDetails is an Item loaded together with its owner and, when set, its winner.
type ItemDetails struct {
	Item   *Item
	Owner  *User
	Winner *User
	Bids   []*Bid
}
