package services

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/ghuser/auctionhouse/services/auction"

var tracer trace.Tracer = otel.Tracer(instrumentationName)

// BidPriceMetric is the histogram of accepted bid prices. Its buckets are set
// by the telemetry view of the same name.
const BidPriceMetric = "auction.bid.price"

// auctionMetrics holds the instruments exported on /metrics.
type auctionMetrics struct {
	bidsAccepted       metric.Int64Counter
	bidsRejected       metric.Int64Counter
	bidPrice           metric.Float64Histogram
	settlementNotified metric.Int64Counter
	settlementFailures metric.Int64Counter
}

// newAuctionMetrics registers counters on the global MeterProvider. Instrument
// creation never fails fatally in the OTel API: on error a no-op instrument is
// returned, which is what the zero meter gives us anyway.
func newAuctionMetrics() *auctionMetrics {
	meter := otel.Meter(instrumentationName)
	m := &auctionMetrics{}
	m.bidsAccepted, _ = meter.Int64Counter("auction.bids.accepted",
		metric.WithDescription("Bids accepted and committed"))
	m.bidsRejected, _ = meter.Int64Counter("auction.bids.rejected",
		metric.WithDescription("Bids rejected by validation or concurrency"))
	m.bidPrice, _ = meter.Float64Histogram(BidPriceMetric,
		metric.WithDescription("Price of accepted bids"))
	m.settlementNotified, _ = meter.Int64Counter("auction.settlement.notified",
		metric.WithDescription("Items whose winner was notified"))
	m.settlementFailures, _ = meter.Int64Counter("auction.settlement.failures",
		metric.WithDescription("Per-item settlement failures"))
	return m
}
