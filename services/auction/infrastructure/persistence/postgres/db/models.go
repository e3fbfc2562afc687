package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AuctionItem struct {
	ID               uuid.UUID
	Name             string
	Description      string
	StartingPrice    decimal.Decimal
	StartTime        time.Time
	EndTime          time.Time
	OwnerID          uuid.UUID
	WinnerID         uuid.NullUUID
	FinalPrice       decimal.NullDecimal
	IsWinnerNotified bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type AuctionBid struct {
	ID        uuid.UUID
	ItemID    uuid.UUID
	UserID    uuid.UUID
	Price     decimal.Decimal
	CreatedAt time.Time
}

type AuctionUser struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
}
