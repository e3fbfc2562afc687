// Package services contains stateless domain services for the auction bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond the domain layer.
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

// EnsureBiddingWindowOpen fails with ErrAuctionClosedOrNotStarted unless
// start_time <= now <= end_time.
func EnsureBiddingWindowOpen(now time.Time, item *models.Item) error {
	if !item.IsOpenAt(now) {
		return fmt.Errorf("%w: window is %s to %s",
			domain.ErrAuctionClosedOrNotStarted,
			item.StartTime.Format(time.RFC3339), item.EndTime.Format(time.RFC3339))
	}
	return nil
}

// EnsureNotOwner fails with ErrOwnerCannotBid when the bidder owns the item.
func EnsureNotOwner(item *models.Item, bidderID uuid.UUID) error {
	if item.OwnerID == bidderID {
		return domain.ErrOwnerCannotBid
	}
	return nil
}

// EnsureBidPriceValid fails with ErrBidTooLow unless price is positive and
// strictly above the highest bid. With no bid yet, a price equal to the
// starting price is accepted. A price that would not be stored exactly fails
// with ErrInvalidPrice before any comparison, so two accepted bids can never
// collapse to the same stored amount.
func EnsureBidPriceValid(price, startingPrice decimal.Decimal, highest *models.Bid) error {
	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", domain.ErrBidTooLow)
	}
	if err := models.CheckPrice(price); err != nil {
		return err
	}
	if highest != nil {
		if !price.GreaterThan(highest.Price) {
			return fmt.Errorf("%w: must exceed current highest bid %s", domain.ErrBidTooLow, highest.Price)
		}
		return nil
	}
	if price.LessThan(startingPrice) {
		return fmt.Errorf("%w: must be at least starting price %s", domain.ErrBidTooLow, startingPrice)
	}
	return nil
}

// ValidateBid runs the window, self-bid and price checks in that order and
// returns the first violation.
func ValidateBid(now time.Time, item *models.Item, highest *models.Bid, price decimal.Decimal, bidderID uuid.UUID) error {
	if err := EnsureBiddingWindowOpen(now, item); err != nil {
		return err
	}
	if err := EnsureNotOwner(item, bidderID); err != nil {
		return err
	}
	return EnsureBidPriceValid(price, item.StartingPrice, highest)
}
