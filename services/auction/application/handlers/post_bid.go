package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/pkg/errhttp"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	pkgvalidator "github.com/ghuser/auctionhouse/pkg/validator"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
)

// PostBidHandler handles POST /items/{id}/bids requests.
type PostBidHandler struct {
	svc *appsvcs.Services
}

// NewPostBidHandler returns a PostBidHandler backed by the given services.
func NewPostBidHandler(svc *appsvcs.Services) *PostBidHandler {
	return &PostBidHandler{svc: svc}
}

// Execute places a bid as the signed-in user.
//
//	@Summary		Place bid
//	@Description	Places a bid on an open auction. The bid must beat the current highest bid, or match at least the starting price when there is none.
//	@Tags			bids
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Item ID"	Format(uuid)
//	@Param			request	body		PlaceBidRequest	true	"Bid"
//	@Success		201		{object}	BidResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Lost a race with a concurrent bid; retry"
//	@Failure		422		{object}	ErrorResponse
//	@Security		SessionCookie
//	@Router			/items/{id}/bids [post]
func (h *PostBidHandler) Execute(w http.ResponseWriter, r *http.Request) {
	bidderID, ok := sessionUser(w, r)
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[PlaceBidRequest](w, r)
	if !ok {
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "price must be a decimal number")
		return
	}

	bid, err := h.svc.Bid.PlaceBid(r.Context(), itemID, bidderID, price)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toBidResponse(bid, ""))
}
