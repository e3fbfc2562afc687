package handlers

import (
	"context"
	"net/http"

	"github.com/ghuser/auctionhouse/pkg/errhttp"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
)

// GetSearchItemsHandler handles GET /items/search and GET /items/non-bidded.
type GetSearchItemsHandler struct {
	search func(context.Context, repositories.ItemFilter) ([]*models.Item, error)
}

// NewGetSearchItemsHandler returns a handler searching all items.
func NewGetSearchItemsHandler(svc *appsvcs.Services) *GetSearchItemsHandler {
	return &GetSearchItemsHandler{search: svc.Item.Search}
}

// NewGetNonBiddedItemsHandler returns a handler searching items nobody has bid on.
func NewGetNonBiddedItemsHandler(svc *appsvcs.Services) *GetSearchItemsHandler {
	return &GetSearchItemsHandler{search: svc.Item.SearchWithoutBids}
}

// Execute filters items by the query parameters. All parameters are optional.
//
//	@Summary		Search items
//	@Description	Filters by name and owner name (case-insensitive substring), start and end time, and starting price range.
//	@Tags			items
//	@Produce		json
//	@Param			name				query		string	false	"Item name contains"
//	@Param			ownerName			query		string	false	"Owner name contains"
//	@Param			startTime			query		string	false	"Starting at or after (RFC 3339 or YYYY-MM-DD)"
//	@Param			endTime				query		string	false	"Ending at or before (RFC 3339 or YYYY-MM-DD)"
//	@Param			startingPriceFrom	query		string	false	"Minimum starting price"
//	@Param			startingPriceTo		query		string	false	"Maximum starting price"
//	@Success		200					{array}		ItemResponse
//	@Failure		400					{object}	ErrorResponse
//	@Failure		422					{object}	ErrorResponse
//	@Router			/items/search [get]
//	@Router			/items/non-bidded [get]
func (h *GetSearchItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	filter, err := itemFilter(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.search(r.Context(), filter)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemResponses(items))
}

func itemFilter(r *http.Request) (repositories.ItemFilter, error) {
	q := r.URL.Query()
	f := repositories.ItemFilter{
		Name:      q.Get("name"),
		OwnerName: q.Get("ownerName"),
	}
	var err error
	if f.StartTimeFrom, err = optionalTime(r, "startTime", false); err != nil {
		return f, err
	}
	if f.EndTimeTo, err = optionalTime(r, "endTime", true); err != nil {
		return f, err
	}
	if f.StartingPriceFrom, err = optionalDecimal(r, "startingPriceFrom"); err != nil {
		return f, err
	}
	if f.StartingPriceTo, err = optionalDecimal(r, "startingPriceTo"); err != nil {
		return f, err
	}
	return f, nil
}
