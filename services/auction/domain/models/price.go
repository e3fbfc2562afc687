package models

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/services/auction/domain"
)

// PriceScale is the number of decimal places prices are stored with.
const PriceScale = 2

// MaxPrice is the largest price a NUMERIC(12, 2) column holds.
var MaxPrice = decimal.RequireFromString("9999999999.99")

// CheckPrice fails with ErrInvalidPrice unless p is stored exactly: no more
// than PriceScale decimal places and no larger in magnitude than MaxPrice.
// Trailing zeros ("150.000") are fine.
func CheckPrice(p decimal.Decimal) error {
	if !p.Equal(p.Truncate(PriceScale)) {
		return fmt.Errorf("%w: at most %d decimal places allowed, got %s", domain.ErrInvalidPrice, PriceScale, p)
	}
	if p.Abs().GreaterThan(MaxPrice) {
		return fmt.Errorf("%w: must not exceed %s", domain.ErrInvalidPrice, MaxPrice.StringFixed(PriceScale))
	}
	return nil
}
