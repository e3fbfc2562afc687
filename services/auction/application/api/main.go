package api

import (
	"net/http"

	"github.com/facebookgo/clock"
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/auctionhouse/pkg/app"
	"github.com/ghuser/auctionhouse/pkg/auth"
	"github.com/ghuser/auctionhouse/services/auction/application/handlers"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
)

// AuctionRoutes registers auction endpoints on the provided chi router.
func AuctionRoutes(r chi.Router, a *app.Application) {
	requireAuth := func(next http.Handler) http.Handler { return next }
	if a.SessionStore != nil {
		requireAuth = auth.RequireAuth(a.SessionStore, a.Logger)
	}
	Mount(r, appsvcs.New(a), a.Clock, requireAuth)
}

// Mount registers the routes backed by svcs. requireAuth guards the endpoints
// that act on behalf of the signed-in user.
func Mount(r chi.Router, svcs *appsvcs.Services, clk clock.Clock, requireAuth func(http.Handler) http.Handler) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/search", handlers.NewGetSearchItemsHandler(svcs).Execute)
		r.Get("/non-bidded", handlers.NewGetNonBiddedItemsHandler(svcs).Execute)
		r.Get("/{id}", handlers.NewGetItemHandler(svcs).Execute)
		r.Get("/{id}/bids", handlers.NewGetItemBidsHandler(svcs).Execute)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", handlers.NewPostItemHandler(svcs).Execute)
			r.Put("/{id}", handlers.NewPutItemHandler(svcs).Execute)
			r.Post("/{id}/bids", handlers.NewPostBidHandler(svcs).Execute)
		})
	})

	r.Route("/users/{userId}", func(r chi.Router) {
		r.Get("/items", handlers.NewGetUserItemsHandler(svcs).Execute)
		r.Get("/winning-items", handlers.NewGetWinningItemsHandler(svcs).Execute)
		r.Get("/revenue", handlers.NewGetRevenueHandler(svcs).Execute)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/me/statistics", handlers.NewGetStatisticsHandler(svcs).Execute)
		r.Post("/settlement/sweep", handlers.NewPostSweepHandler(svcs, clk).Execute)
	})
}
