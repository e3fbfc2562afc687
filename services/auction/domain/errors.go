package domain

import "errors"

// Sentinel errors for the auction domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrBidderNotFound indicates the user placing a bid does not exist.
	ErrBidderNotFound = errors.New("bidder not found")

	// ErrUserNotFound indicates a referenced user (owner, winner) does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrAuctionClosedOrNotStarted indicates a bid outside [start_time, end_time].
	ErrAuctionClosedOrNotStarted = errors.New("auction is closed or has not started")

	// ErrOwnerCannotBid indicates the item owner tried to bid on their own item.
	ErrOwnerCannotBid = errors.New("owner cannot bid on own item")

	// ErrBidTooLow indicates the bid does not beat the current highest bid or starting price.
	ErrBidTooLow = errors.New("bid price too low")

	// ErrInvalidPrice indicates a price that cannot be stored exactly: too many
	// decimal places or beyond the largest storable amount.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrConcurrentModification indicates the transaction lost a race on the same item.
	// Callers may resubmit with fresh data.
	ErrConcurrentModification = errors.New("concurrent modification, please retry")

	// ErrInvalidItem indicates item fields violate domain constraints.
	ErrInvalidItem = errors.New("invalid item")

	// ErrNotItemOwner indicates a mutation of an item by someone other than its owner.
	ErrNotItemOwner = errors.New("only the item owner may modify it")

	// ErrAuctionAlreadyStarted indicates an edit after the bidding window opened.
	ErrAuctionAlreadyStarted = errors.New("auction already started")

	// ErrNoWinner indicates settlement of an item that has no winner.
	ErrNoWinner = errors.New("item has no winner")

	// ErrInvalidDateRange indicates a reporting range whose end precedes its start.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidFilter indicates a search filter that can never match, such as an inverted price range.
	ErrInvalidFilter = errors.New("invalid search filter")
)
