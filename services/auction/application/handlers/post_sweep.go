package handlers

import (
	"net/http"

	"github.com/facebookgo/clock"

	"github.com/ghuser/auctionhouse/pkg/errhttp"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
)

// PostSweepHandler handles POST /settlement/sweep requests.
type PostSweepHandler struct {
	svc   *appsvcs.Services
	clock clock.Clock
}

// NewPostSweepHandler returns a PostSweepHandler that sweeps as of clk.Now().
func NewPostSweepHandler(svc *appsvcs.Services, clk clock.Clock) *PostSweepHandler {
	return &PostSweepHandler{svc: svc, clock: clk}
}

// Execute runs one settlement pass immediately.
//
//	@Summary		Run settlement
//	@Description	Notifies the winners of every closed, unsettled auction. Safe to call while the scheduler runs.
//	@Tags			settlement
//	@Produce		json
//	@Success		200	{object}	SweepResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		SessionCookie
//	@Router			/settlement/sweep [post]
func (h *PostSweepHandler) Execute(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Settlement.Sweep(r.Context(), h.clock.Now())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, SweepResponse{Notified: n})
}
