package handlers

import (
	"time"

	"github.com/google/uuid"

	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"bid price too low"`
} // @name ErrorResponse

// ItemRequest is the request body for creating or updating an item.
type ItemRequest struct {
	Name          string    `json:"name"           validate:"required,max=255"             example:"Vintage Rolex"`
	Description   string    `json:"description"    validate:"max=5000"                     example:"1968, recently serviced"`
	StartingPrice string    `json:"starting_price" validate:"required,money"               example:"100.00"`
	StartTime     time.Time `json:"start_time"     validate:"required"                     example:"2025-03-10T12:00:00Z"`
	EndTime       time.Time `json:"end_time"       validate:"required,gtfield=StartTime" example:"2025-03-17T12:00:00Z"`
} // @name ItemRequest

// PlaceBidRequest is the request body for POST /items/{id}/bids.
type PlaceBidRequest struct {
	Price string `json:"price" validate:"required,money" example:"150.00"`
} // @name PlaceBidRequest

// ItemResponse is an item as listed in collections.
type ItemResponse struct {
	ID            uuid.UUID  `json:"id"                    example:"123e4567-e89b-12d3-a456-426614174000"`
	Name          string     `json:"name"                  example:"Vintage Rolex"`
	Description   string     `json:"description"`
	StartingPrice string     `json:"starting_price"        example:"100.00"`
	CurrentPrice  string     `json:"current_price"         example:"150.00"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       time.Time  `json:"end_time"`
	OwnerID       uuid.UUID  `json:"owner_id"`
	WinnerID      *uuid.UUID `json:"winner_id,omitempty"`
	FinalPrice    *string    `json:"final_price,omitempty" example:"150.00"`
	Notified      bool       `json:"notified"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
} // @name ItemResponse

// BidResponse is a single accepted bid.
type BidResponse struct {
	ID         uuid.UUID `json:"id"`
	ItemID     uuid.UUID `json:"item_id"`
	BidderID   uuid.UUID `json:"bidder_id"`
	BidderName string    `json:"bidder_name,omitempty" example:"Bram Bidder"`
	Price      string    `json:"price"                 example:"150.00"`
	CreatedAt  time.Time `json:"created_at"`
} // @name BidResponse

// ItemDetailResponse is a single item with resolved names and its bids, newest first.
type ItemDetailResponse struct {
	ItemResponse
	OwnerName  string        `json:"owner_name"            example:"Olga Owner"`
	WinnerName string        `json:"winner_name,omitempty" example:"Bram Bidder"`
	Bids       []BidResponse `json:"bids"`
} // @name ItemDetailResponse

// MonthlyReportResponse is one calendar month of statistics.
type MonthlyReportResponse struct {
	Month      string `json:"month"       example:"2025-03"`
	Revenue    string `json:"revenue"     example:"150.00"`
	ItemsSold  int    `json:"items_sold"`
	Spending   string `json:"spending"    example:"0"`
	ItemsWon   int    `json:"items_won"`
	BidsPlaced int    `json:"bids_placed"`
} // @name MonthlyReportResponse

// StatisticsResponse summarises the caller's activity over a date range.
type StatisticsResponse struct {
	MonthlyReports  []MonthlyReportResponse `json:"monthly_reports"`
	TotalRevenue    string                  `json:"total_revenue"     example:"150.00"`
	TotalItemsSold  int                     `json:"total_items_sold"`
	TotalSpending   string                  `json:"total_spending"    example:"0"`
	TotalItemsWon   int                     `json:"total_items_won"`
	TotalBidsPlaced int                     `json:"total_bids_placed"`
} // @name StatisticsResponse

// RevenueResponse is an owner's total revenue within a date range.
type RevenueResponse struct {
	OwnerID   uuid.UUID `json:"owner_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Revenue   string    `json:"revenue" example:"1250.50"`
} // @name RevenueResponse

// SweepResponse reports the outcome of a manual settlement run.
type SweepResponse struct {
	Notified int `json:"notified" example:"3"`
} // @name SweepResponse

func toItemResponse(it *models.Item) ItemResponse {
	resp := ItemResponse{
		ID:            it.ID,
		Name:          it.Name.String(),
		Description:   it.Description,
		StartingPrice: it.StartingPrice.StringFixed(2),
		CurrentPrice:  it.CurrentPrice().StringFixed(2),
		StartTime:     it.StartTime,
		EndTime:       it.EndTime,
		OwnerID:       it.OwnerID,
		Notified:      it.Notified,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
	if it.WinnerID.Valid {
		winner := it.WinnerID.UUID
		final := it.FinalPrice.Decimal.StringFixed(2)
		resp.WinnerID = &winner
		resp.FinalPrice = &final
	}
	return resp
}

func toItemResponses(items []*models.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out
}

func toBidResponse(b *models.Bid, bidderName string) BidResponse {
	return BidResponse{
		ID:         b.ID,
		ItemID:     b.ItemID,
		BidderID:   b.BidderID,
		BidderName: bidderName,
		Price:      b.Price.StringFixed(2),
		CreatedAt:  b.CreatedAt,
	}
}

func toItemDetailResponse(v *appsvcs.ItemView) ItemDetailResponse {
	resp := ItemDetailResponse{
		ItemResponse: toItemResponse(v.Item),
		OwnerName:    v.OwnerName,
		WinnerName:   v.WinnerName,
		Bids:         make([]BidResponse, 0, len(v.Bids)),
	}
	for _, b := range v.Bids {
		resp.Bids = append(resp.Bids, toBidResponse(b.Bid, b.BidderName))
	}
	return resp
}

func toStatisticsResponse(s *models.Statistics) StatisticsResponse {
	resp := StatisticsResponse{
		MonthlyReports:  make([]MonthlyReportResponse, 0, len(s.MonthlyReports)),
		TotalRevenue:    s.TotalRevenue.StringFixed(2),
		TotalItemsSold:  s.TotalItemsSold,
		TotalSpending:   s.TotalSpending.StringFixed(2),
		TotalItemsWon:   s.TotalItemsWon,
		TotalBidsPlaced: s.TotalBidsPlaced,
	}
	for _, m := range s.MonthlyReports {
		resp.MonthlyReports = append(resp.MonthlyReports, MonthlyReportResponse{
			Month:      m.Month,
			Revenue:    m.Revenue.StringFixed(2),
			ItemsSold:  m.ItemsSold,
			Spending:   m.Spending.StringFixed(2),
			ItemsWon:   m.ItemsWon,
			BidsPlaced: m.BidsPlaced,
		})
	}
	return resp
}
