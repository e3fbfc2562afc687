package handlers

import (
	"net/http"

	"github.com/ghuser/auctionhouse/pkg/errhttp"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	pkgvalidator "github.com/ghuser/auctionhouse/pkg/validator"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
)

// PutItemHandler handles PUT /items/{id} requests.
type PutItemHandler struct {
	svc *appsvcs.Services
}

// NewPutItemHandler returns a PutItemHandler backed by the given services.
func NewPutItemHandler(svc *appsvcs.Services) *PutItemHandler {
	return &PutItemHandler{svc: svc}
}

// Execute revises an item before its auction starts.
//
//	@Summary		Update item
//	@Description	Replaces the item's editable fields. Only the owner may edit, and only before bidding opens.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Item ID"	Format(uuid)
//	@Param			request	body		ItemRequest	true	"New item fields"
//	@Success		200		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		SessionCookie
//	@Router			/items/{id} [put]
func (h *PutItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[ItemRequest](w, r)
	if !ok {
		return
	}
	in, err := req.toInput()
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.svc.Item.Update(r.Context(), userID, itemID, in)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}
