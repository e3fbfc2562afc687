package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/services/auction/domain"
)

func TestCheckPrice(t *testing.T) {
	tests := []struct {
		price   string
		wantErr bool
	}{
		{"0", false},
		{"150", false},
		{"150.5", false},
		{"150.00", false},
		{"150.000", false},
		{"9999999999.99", false},
		{"150.004", true},
		{"0.001", true},
		{"10000000000", true},
		{"1e12", true},
		{"-10000000000", true},
	}
	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			err := CheckPrice(decimal.RequireFromString(tt.price))
			if tt.wantErr && !errors.Is(err, domain.ErrInvalidPrice) {
				t.Fatalf("expected ErrInvalidPrice, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
