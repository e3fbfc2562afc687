package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/auctionhouse/pkg/auth"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/services/auction/application/handlers"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/infrastructure/persistence/memory"
)

const testUserHeader = "X-Test-User"

var t0 = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// headerAuth stands in for the session middleware: the caller is whoever
// testUserHeader names.
func headerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get(testUserHeader))
		if err != nil {
			httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), id)))
	})
}

type testServer struct {
	router *chi.Mux
	clock  *clock.Mock
	owner  models.User
	bidder models.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewMock()
	s := &testServer{
		clock:  clk,
		owner:  models.User{ID: uuid.New(), FirstName: "Olga", LastName: "Owner", Email: "olga@example.com"},
		bidder: models.User{ID: uuid.New(), FirstName: "Bram", LastName: "Bidder", Email: "bram@example.com"},
	}
	store.AddUser(s.owner)
	store.AddUser(s.bidder)
	s.at(t0.Add(-24 * time.Hour))

	log := logger.Nop()
	svcs := &appsvcs.Services{
		Item:       appsvcs.NewItemService(store.Items(), store.Bids(), store.Users(), store, nil, clk, log),
		Bid:        appsvcs.NewBidService(store, nil, nil, clk, log, "http://localhost/items/"),
		Settlement: appsvcs.NewSettlementService(store.Items(), store, nil, log, 2),
		Statistics: appsvcs.NewStatisticsService(store.Statistics()),
	}

	s.router = chi.NewRouter()
	s.router.Route("/api", func(r chi.Router) {
		Mount(r, svcs, clk, headerAuth)
	})
	return s
}

func (s *testServer) at(ts time.Time) {
	s.clock.Add(ts.Sub(s.clock.Now()))
}

func (s *testServer) do(t *testing.T, method, path string, as uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != uuid.Nil {
		req.Header.Set(testUserHeader, as.String())
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) createItem(t *testing.T) handlers.ItemResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/items", s.owner.ID, handlers.ItemRequest{
		Name:          "Vintage Rolex",
		Description:   "1968, serviced",
		StartingPrice: "100.00",
		StartTime:     t0,
		EndTime:       t0.Add(time.Hour),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[handlers.ItemResponse](t, w)
}

func TestAuctionAPI_BidAndSettle(t *testing.T) {
	s := newTestServer(t)
	item := s.createItem(t)
	require.Equal(t, s.owner.ID, item.OwnerID)
	require.Equal(t, "100.00", item.CurrentPrice)
	require.Nil(t, item.WinnerID)

	bidPath := "/api/items/" + item.ID.String() + "/bids"

	w := s.do(t, http.MethodPost, bidPath, s.bidder.ID, handlers.PlaceBidRequest{Price: "150.00"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, "auction has not started")

	s.at(t0.Add(10 * time.Minute))
	w = s.do(t, http.MethodPost, bidPath, s.bidder.ID, handlers.PlaceBidRequest{Price: "150.00"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bid := decode[handlers.BidResponse](t, w)
	require.Equal(t, "150.00", bid.Price)
	require.Equal(t, s.bidder.ID, bid.BidderID)

	w = s.do(t, http.MethodPost, bidPath, s.bidder.ID, handlers.PlaceBidRequest{Price: "120"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodPost, bidPath, s.owner.ID, handlers.PlaceBidRequest{Price: "999"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodGet, "/api/items/"+item.ID.String(), uuid.Nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[handlers.ItemDetailResponse](t, w)
	require.Equal(t, "Olga Owner", detail.OwnerName)
	require.Equal(t, "Bram Bidder", detail.WinnerName)
	require.Equal(t, "150.00", detail.CurrentPrice)
	require.Len(t, detail.Bids, 1)

	w = s.do(t, http.MethodGet, bidPath, uuid.Nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode[[]handlers.BidResponse](t, w), 1)

	s.at(t0.Add(2 * time.Hour))
	w = s.do(t, http.MethodPost, "/api/settlement/sweep", s.owner.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, decode[handlers.SweepResponse](t, w).Notified)

	w = s.do(t, http.MethodPost, "/api/settlement/sweep", s.owner.ID, nil)
	require.Equal(t, 0, decode[handlers.SweepResponse](t, w).Notified)

	w = s.do(t, http.MethodGet, "/api/users/"+s.bidder.ID.String()+"/winning-items", uuid.Nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	won := decode[[]handlers.ItemResponse](t, w)
	require.Len(t, won, 1)
	require.True(t, won[0].Notified)

	w = s.do(t, http.MethodGet, "/api/users/"+s.owner.ID.String()+"/revenue?startDate=2025-03-01&endDate=2025-03-31", uuid.Nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "150.00", decode[handlers.RevenueResponse](t, w).Revenue)

	w = s.do(t, http.MethodGet, "/api/me/statistics?startDate=2025-02-01&endDate=2025-03-31", s.owner.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[handlers.StatisticsResponse](t, w)
	require.Len(t, stats.MonthlyReports, 2)
	require.Equal(t, "2025-02", stats.MonthlyReports[0].Month)
	require.Equal(t, "150.00", stats.TotalRevenue)
	require.Equal(t, 1, stats.TotalItemsSold)
}

func TestAuctionAPI_Errors(t *testing.T) {
	s := newTestServer(t)
	item := s.createItem(t)
	itemPath := "/api/items/" + item.ID.String()

	tests := []struct {
		name   string
		method string
		path   string
		as     uuid.UUID
		body   any
		want   int
	}{
		{"bid without session", http.MethodPost, itemPath + "/bids", uuid.Nil, handlers.PlaceBidRequest{Price: "150"}, http.StatusUnauthorized},
		{"bid with malformed price", http.MethodPost, itemPath + "/bids", s.bidder.ID, handlers.PlaceBidRequest{Price: "lots"}, http.StatusUnprocessableEntity},
		{"bid with sub-cent price", http.MethodPost, itemPath + "/bids", s.bidder.ID, handlers.PlaceBidRequest{Price: "150.004"}, http.StatusUnprocessableEntity},
		{"bid beyond column range", http.MethodPost, itemPath + "/bids", s.bidder.ID, handlers.PlaceBidRequest{Price: "1000000000000"}, http.StatusUnprocessableEntity},
		{"bid on unknown item", http.MethodPost, "/api/items/" + uuid.NewString() + "/bids", s.bidder.ID, handlers.PlaceBidRequest{Price: "150"}, http.StatusNotFound},
		{"bad item id", http.MethodGet, "/api/items/not-a-uuid", uuid.Nil, nil, http.StatusBadRequest},
		{"unknown item", http.MethodGet, "/api/items/" + uuid.NewString(), uuid.Nil, nil, http.StatusNotFound},
		{"update by non-owner", http.MethodPut, itemPath, s.bidder.ID, handlers.ItemRequest{
			Name: "Mine now", StartingPrice: "1", StartTime: t0, EndTime: t0.Add(time.Hour),
		}, http.StatusForbidden},
		{"end before start", http.MethodPost, "/api/items", s.owner.ID, handlers.ItemRequest{
			Name: "Backwards", StartingPrice: "1", StartTime: t0, EndTime: t0.Add(-time.Hour),
		}, http.StatusUnprocessableEntity},
		{"inverted price range", http.MethodGet, "/api/items/search?startingPriceFrom=50&startingPriceTo=10", uuid.Nil, nil, http.StatusUnprocessableEntity},
		{"malformed price filter", http.MethodGet, "/api/items/search?startingPriceFrom=cheap", uuid.Nil, nil, http.StatusBadRequest},
		{"statistics without range", http.MethodGet, "/api/me/statistics", s.owner.ID, nil, http.StatusBadRequest},
		{"statistics inverted range", http.MethodGet, "/api/me/statistics?startDate=2025-04-01&endDate=2025-03-01", s.owner.ID, nil, http.StatusUnprocessableEntity},
		{"statistics range too long", http.MethodGet, "/api/me/statistics?startDate=1000-01-01&endDate=9999-12-31", s.owner.ID, nil, http.StatusUnprocessableEntity},
		{"statistics without session", http.MethodGet, "/api/me/statistics?startDate=2025-03-01&endDate=2025-03-31", uuid.Nil, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.as, tt.body)
			require.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestAuctionAPI_UpdateBeforeStart(t *testing.T) {
	s := newTestServer(t)
	item := s.createItem(t)

	w := s.do(t, http.MethodPut, "/api/items/"+item.ID.String(), s.owner.ID, handlers.ItemRequest{
		Name:          "Vintage Rolex Submariner",
		StartingPrice: "120",
		StartTime:     t0,
		EndTime:       t0.Add(2 * time.Hour),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[handlers.ItemResponse](t, w)
	require.Equal(t, "Vintage Rolex Submariner", updated.Name)
	require.Equal(t, "120.00", updated.StartingPrice)

	s.at(t0.Add(time.Minute))
	w = s.do(t, http.MethodPut, "/api/items/"+item.ID.String(), s.owner.ID, handlers.ItemRequest{
		Name: "Too late", StartingPrice: "1", StartTime: t0, EndTime: t0.Add(time.Hour),
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuctionAPI_Search(t *testing.T) {
	s := newTestServer(t)
	first := s.createItem(t)
	second := s.createItem(t)

	s.at(t0.Add(time.Minute))
	w := s.do(t, http.MethodPost, "/api/items/"+first.ID.String()+"/bids", s.bidder.ID, handlers.PlaceBidRequest{Price: "100"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/items/search?name=rolex&ownerName=olga", uuid.Nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode[[]handlers.ItemResponse](t, w), 2)

	w = s.do(t, http.MethodGet, "/api/items/non-bidded?startingPriceFrom=50&startingPriceTo=150", uuid.Nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	open := decode[[]handlers.ItemResponse](t, w)
	require.Len(t, open, 1)
	require.Equal(t, second.ID, open[0].ID)

	w = s.do(t, http.MethodGet, "/api/items/search?startingPriceTo=50", uuid.Nil, nil)
	require.Empty(t, decode[[]handlers.ItemResponse](t, w))

	w = s.do(t, http.MethodGet, "/api/users/"+s.owner.ID.String()+"/items", uuid.Nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode[[]handlers.ItemResponse](t, w), 2)
}
