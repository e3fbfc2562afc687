package handlers

import (
	"net/http"

	"github.com/ghuser/auctionhouse/pkg/errhttp"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
)

// GetStatisticsHandler handles GET /me/statistics requests.
type GetStatisticsHandler struct {
	svc *appsvcs.Services
}

// NewGetStatisticsHandler returns a GetStatisticsHandler backed by the given services.
func NewGetStatisticsHandler(svc *appsvcs.Services) *GetStatisticsHandler {
	return &GetStatisticsHandler{svc: svc}
}

// Execute reports the caller's activity over a date range.
//
//	@Summary		My statistics
//	@Description	Revenue and items sold as owner, spending and items won as winner, and bids placed, per calendar month of item end time.
//	@Tags			statistics
//	@Produce		json
//	@Param			startDate	query		string	true	"Range start (YYYY-MM-DD or RFC 3339)"
//	@Param			endDate		query		string	true	"Range end, inclusive (YYYY-MM-DD or RFC 3339)"
//	@Success		200			{object}	StatisticsResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Security		SessionCookie
//	@Router			/me/statistics [get]
func (h *GetStatisticsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}
	start, end, err := dateRange(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.svc.Statistics.GetStatistics(r.Context(), userID, start, end)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toStatisticsResponse(stats))
}

// GetRevenueHandler handles GET /users/{userId}/revenue requests.
type GetRevenueHandler struct {
	svc *appsvcs.Services
}

// NewGetRevenueHandler returns a GetRevenueHandler backed by the given services.
func NewGetRevenueHandler(svc *appsvcs.Services) *GetRevenueHandler {
	return &GetRevenueHandler{svc: svc}
}

// Execute totals an owner's revenue over a date range.
//
//	@Summary		Revenue by owner
//	@Tags			statistics
//	@Produce		json
//	@Param			userId		path		string	true	"Owner ID"	Format(uuid)
//	@Param			startDate	query		string	true	"Range start (YYYY-MM-DD or RFC 3339)"
//	@Param			endDate		query		string	true	"Range end, inclusive (YYYY-MM-DD or RFC 3339)"
//	@Success		200			{object}	RevenueResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Router			/users/{userId}/revenue [get]
func (h *GetRevenueHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathUUID(w, r, "userId")
	if !ok {
		return
	}
	start, end, err := dateRange(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	total, err := h.svc.Statistics.GetRevenue(r.Context(), ownerID, start, end)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, RevenueResponse{
		OwnerID:   ownerID,
		StartDate: start,
		EndDate:   end,
		Revenue:   total.StringFixed(2),
	})
}
