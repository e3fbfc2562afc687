package handlers

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/pkg/errhttp"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	pkgvalidator "github.com/ghuser/auctionhouse/pkg/validator"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
)

// PostItemHandler handles POST /items requests.
type PostItemHandler struct {
	svc *appsvcs.Services
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services) *PostItemHandler {
	return &PostItemHandler{svc: svc}
}

// Execute lists a new item owned by the caller.
//
//	@Summary		Create item
//	@Description	Lists a new item for auction. The caller becomes its owner.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ItemRequest	true	"Item to list"
//	@Success		201		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		SessionCookie
//	@Router			/items [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := sessionUser(w, r)
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

	item, err := h.svc.Item.Create(r.Context(), ownerID, in)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toItemResponse(item))
}

func (req *ItemRequest) toInput() (appsvcs.ItemInput, error) {
	price, err := decimal.NewFromString(req.StartingPrice)
	if err != nil {
		return appsvcs.ItemInput{}, errors.New("starting_price must be a decimal number")
	}
	return appsvcs.ItemInput{
		Name:          req.Name,
		Description:   req.Description,
		StartingPrice: price,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
	}, nil
}
