// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/auctionhouse/pkg/httpx"
	auctiondomain "github.com/ghuser/auctionhouse/services/auction/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Unrecognized errors become 500 with a generic message; their text never
// reaches the client.
func WriteError(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		httpx.JSONError(w, status, http.StatusText(status))
		return
	}
	httpx.JSONError(w, status, err.Error())
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, auctiondomain.ErrItemNotFound),
		errors.Is(err, auctiondomain.ErrBidderNotFound),
		errors.Is(err, auctiondomain.ErrUserNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, auctiondomain.ErrNotItemOwner):
		return http.StatusForbidden // 403
	case errors.Is(err, auctiondomain.ErrConcurrentModification),
		errors.Is(err, auctiondomain.ErrAuctionAlreadyStarted):
		return http.StatusConflict // 409
	case errors.Is(err, auctiondomain.ErrAuctionClosedOrNotStarted),
		errors.Is(err, auctiondomain.ErrOwnerCannotBid),
		errors.Is(err, auctiondomain.ErrBidTooLow),
		errors.Is(err, auctiondomain.ErrInvalidPrice),
		errors.Is(err, auctiondomain.ErrInvalidItem),
		errors.Is(err, auctiondomain.ErrNoWinner),
		errors.Is(err, auctiondomain.ErrInvalidDateRange),
		errors.Is(err, auctiondomain.ErrInvalidFilter):
		return http.StatusUnprocessableEntity // 422
	default:
		return http.StatusInternalServerError // 500
	}
}
