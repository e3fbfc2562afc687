package handlers

import (
	"net/http"

	"github.com/ghuser/auctionhouse/pkg/errhttp"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
)

// GetItemHandler handles GET /items/{id} requests.
type GetItemHandler struct {
	svc *appsvcs.Services
}

// NewGetItemHandler returns a GetItemHandler backed by the given services.
func NewGetItemHandler(svc *appsvcs.Services) *GetItemHandler {
	return &GetItemHandler{svc: svc}
}

// Execute returns one item with its bids.
//
//	@Summary		Get item
//	@Description	Returns the item, its owner and winner names, and its bids newest first.
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"	Format(uuid)
//	@Success		200	{object}	ItemDetailResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/items/{id} [get]
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.svc.Item.GetByID(r.Context(), itemID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemDetailResponse(view))
}

// GetItemBidsHandler handles GET /items/{id}/bids requests.
type GetItemBidsHandler struct {
	svc *appsvcs.Services
}

// NewGetItemBidsHandler returns a GetItemBidsHandler backed by the given services.
func NewGetItemBidsHandler(svc *appsvcs.Services) *GetItemBidsHandler {
	return &GetItemBidsHandler{svc: svc}
}

// Execute lists an item's bids.
//
//	@Summary		List bids
//	@Description	Returns every accepted bid on the item, newest first.
//	@Tags			bids
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"	Format(uuid)
//	@Success		200	{array}		BidResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/items/{id}/bids [get]
func (h *GetItemBidsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	bids, err := h.svc.Item.ListBids(r.Context(), itemID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, toBidResponse(b, ""))
	}
	httpx.JSON(w, http.StatusOK, out)
}
