package handlers

import (
	"net/http"

	"github.com/ghuser/auctionhouse/pkg/errhttp"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
)

// GetUserItemsHandler handles GET /users/{userId}/items requests.
type GetUserItemsHandler struct {
	svc *appsvcs.Services
}

// NewGetUserItemsHandler returns a GetUserItemsHandler backed by the given services.
func NewGetUserItemsHandler(svc *appsvcs.Services) *GetUserItemsHandler {
	return &GetUserItemsHandler{svc: svc}
}

// Execute lists the items a user owns.
//
//	@Summary		Items by owner
//	@Tags			users
//	@Produce		json
//	@Param			userId	path		string	true	"Owner ID"	Format(uuid)
//	@Success		200		{array}		ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/users/{userId}/items [get]
func (h *GetUserItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathUUID(w, r, "userId")
	if !ok {
		return
	}

	items, err := h.svc.Item.ListByOwner(r.Context(), ownerID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemResponses(items))
}

// GetWinningItemsHandler handles GET /users/{userId}/winning-items requests.
type GetWinningItemsHandler struct {
	svc *appsvcs.Services
}

// NewGetWinningItemsHandler returns a GetWinningItemsHandler backed by the given services.
func NewGetWinningItemsHandler(svc *appsvcs.Services) *GetWinningItemsHandler {
	return &GetWinningItemsHandler{svc: svc}
}

// Execute lists closed auctions the user won.
//
//	@Summary		Items won by user
//	@Tags			users
//	@Produce		json
//	@Param			userId	path		string	true	"User ID"	Format(uuid)
//	@Success		200		{array}		ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/users/{userId}/winning-items [get]
func (h *GetWinningItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId")
	if !ok {
		return
	}

	items, err := h.svc.Item.ListWon(r.Context(), userID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemResponses(items))
}
