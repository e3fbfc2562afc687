package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Distinct(t *testing.T) {
	all := []error{
		ErrItemNotFound, ErrBidderNotFound, ErrUserNotFound,
		ErrAuctionClosedOrNotStarted, ErrOwnerCannotBid, ErrBidTooLow,
		ErrConcurrentModification, ErrInvalidItem, ErrNotItemOwner,
		ErrAuctionAlreadyStarted, ErrNoWinner, ErrInvalidDateRange, ErrInvalidFilter,
	}
	for i, a := range all {
		if a == nil {
			t.Fatalf("sentinel %d is nil", i)
		}
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("%q must not match %q", a, b)
			}
		}
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("place bid: %w", ErrBidTooLow)
	if !errors.Is(wrapped, ErrBidTooLow) {
		t.Fatal("errors.Is must match wrapped ErrBidTooLow")
	}

	wrapped2 := fmt.Errorf("%w: %w", ErrInvalidItem, errors.New("end before start"))
	if !errors.Is(wrapped2, ErrInvalidItem) {
		t.Fatal("errors.Is must match double-wrapped ErrInvalidItem")
	}
}
