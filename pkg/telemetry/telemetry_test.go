package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/ghuser/auctionhouse/pkg/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		ServiceName:    "test-service",
		ServiceVersion: "test",
		Environment:    "testing",
		OtelEndpoint:   "", // disabled
	}
}

func TestSetup_NoOtelEndpoint(t *testing.T) {
	shutdown, handler, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected non-nil shutdown")
	}
	if handler == nil {
		t.Fatal("expected non-nil metrics handler")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_MetricsHandlerServesPrometheusFormat(t *testing.T) {
	shutdown, handler, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", http.NoBody))

	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	ct := rr.Header().Get("Content-Type")
	if !strings.Contains(ct, "text/plain") {
		t.Errorf("expected text/plain content-type, got %q", ct)
	}
}

func TestSetup_HistogramViewBuckets(t *testing.T) {
	shutdown, handler, err := Setup(context.Background(), baseConfig(),
		HistogramView("auction.bid.price", PriceBuckets))
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	h, err := otel.Meter("telemetry-test").Float64Histogram("auction.bid.price")
	if err != nil {
		t.Fatalf("histogram: %v", err)
	}
	h.Record(context.Background(), 120)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", http.NoBody))
	body := rr.Body.String()
	if !strings.Contains(body, "auction_bid_price") {
		t.Fatalf("histogram missing from /metrics:\n%s", body)
	}
	if !strings.Contains(body, `le="250"`) || !strings.Contains(body, `le="50000"`) {
		t.Errorf("expected price buckets in output")
	}
}

func TestSetup_InstallsTraceContextPropagator(t *testing.T) {
	shutdown, _, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	fields := otel.GetTextMapPropagator().Fields()
	found := false
	for _, f := range fields {
		if f == "traceparent" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected traceparent in propagator fields, got %v", fields)
	}
}

func TestSampler(t *testing.T) {
	always := sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()
	for _, ratio := range []float64{0, -1, 1, 2} {
		if got := sampler(ratio).Description(); got != always {
			t.Errorf("ratio %v: expected %q, got %q", ratio, always, got)
		}
	}
	if got := sampler(0.25).Description(); !strings.Contains(got, "TraceIDRatioBased{0.25}") {
		t.Errorf("unexpected sampler %q", got)
	}
}

func TestCaptureError_NoopWithoutSentry(t *testing.T) {
	// Must not panic when SetupSentry was never called or err is nil.
	CaptureError(context.Background(), nil, nil)
	CaptureError(context.Background(), context.Canceled, map[string]string{"item_id": "x"})
}
