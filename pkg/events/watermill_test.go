package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/auctionhouse/pkg/config"
	"github.com/ghuser/auctionhouse/pkg/logger"
)

func setupTracer() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp
}

func nopLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

// TestRetryWithBackoff_SuccessOnFirstAttempt verifies no retry occurs on success.
func TestRetryWithBackoff_SuccessOnFirstAttempt(t *testing.T) {
	calls := 0
	handler := func(_ context.Context, _ *message.Message) error {
		calls++
		return nil
	}
	msg := message.NewMessage("id", nil)
	err := retryWithBackoff(context.Background(), msg, handler, defaultMaxRetries, time.Millisecond, nopLogger())
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

// TestRetryWithBackoff_SuccessAfterRetries verifies retry continues until success.
func TestRetryWithBackoff_SuccessAfterRetries(t *testing.T) {
	calls := 0
	handler := func(_ context.Context, _ *message.Message) error {
		calls++
		if calls < 3 {
			return errors.New("transient error")
		}
		return nil
	}
	msg := message.NewMessage("id", nil)
	err := retryWithBackoff(context.Background(), msg, handler, defaultMaxRetries, time.Millisecond, nopLogger())
	if err != nil {
		t.Fatalf("expected nil after eventual success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

// TestRetryWithBackoff_ExhaustsRetries verifies an error is returned after all retries fail.
func TestRetryWithBackoff_ExhaustsRetries(t *testing.T) {
	calls := 0
	handler := func(_ context.Context, _ *message.Message) error {
		calls++
		return errors.New("db unavailable")
	}
	msg := message.NewMessage("id", nil)
	err := retryWithBackoff(context.Background(), msg, handler, defaultMaxRetries, time.Millisecond, nopLogger())
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if IsPermanent(err) {
		t.Error("transient failure reported as permanent")
	}
	if calls != defaultMaxRetries {
		t.Errorf("expected %d calls, got %d", defaultMaxRetries, calls)
	}
}

// TestRetryWithBackoff_PermanentStopsImmediately verifies Permanent errors are not retried.
func TestRetryWithBackoff_PermanentStopsImmediately(t *testing.T) {
	calls := 0
	handler := func(_ context.Context, _ *message.Message) error {
		calls++
		return Permanent(errors.New("malformed payload"))
	}
	msg := message.NewMessage("id", nil)
	err := retryWithBackoff(context.Background(), msg, handler, defaultMaxRetries, time.Millisecond, nopLogger())
	if !IsPermanent(err) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestPermanent_Nil(t *testing.T) {
	if Permanent(nil) != nil {
		t.Fatal("Permanent(nil) must be nil")
	}
}

// TestRetryWithBackoff_ContextCancelled verifies retry stops when context is canceled.
func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	calls := 0
	handler := func(_ context.Context, _ *message.Message) error {
		calls++
		return errors.New("error")
	}
	msg := message.NewMessage("id", nil)
	err := retryWithBackoff(ctx, msg, handler, defaultMaxRetries, time.Second, nopLogger())
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
	// Should have called handler once then exited on ctx.Done
	if calls != 1 {
		t.Errorf("expected 1 call before context cancel, got %d", calls)
	}
}

// TestStartForwarder_NonForwarderMode verifies StartForwarder returns an error
// when called on an EventBus not configured with forwarder mode.
func TestStartForwarder_NonForwarderMode(t *testing.T) {
	bus := &EventBus{useForwarder: false}
	err := bus.StartForwarder(context.Background())
	if err == nil {
		t.Fatal("expected error for non-forwarder EventBus")
	}
}

// TestInjectExtractTrace verifies trace context survives the trip through
// message metadata, as it does between the API's outbox and the worker.
func TestInjectExtractTrace(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	ctx, span := otel.Tracer("test").Start(context.Background(), "place-bid")
	defer span.End()
	wantTraceID := span.SpanContext().TraceID()

	a := message.NewMessage("a", nil)
	b := message.NewMessage("b", nil)
	InjectTrace(ctx, a, b)

	for _, msg := range []*message.Message{a, b} {
		if msg.Metadata.Get("traceparent") == "" {
			t.Fatalf("message %s: traceparent not set", msg.UUID)
		}
		gotSpan := trace.SpanFromContext(ExtractTrace(context.Background(), msg))
		if !gotSpan.SpanContext().IsValid() {
			t.Fatal("extracted span context is not valid")
		}
		if gotSpan.SpanContext().TraceID() != wantTraceID {
			t.Errorf("trace ID mismatch: want %s, got %s", wantTraceID, gotSpan.SpanContext().TraceID())
		}
	}
}

func TestExtractTrace_NoMetadata(t *testing.T) {
	setupTracer()
	ctx := ExtractTrace(context.Background(), message.NewMessage("plain", nil))
	if trace.SpanFromContext(ctx).SpanContext().IsValid() {
		t.Fatal("expected no span context on a message without trace metadata")
	}
}

type recordingInitializer struct {
	topics []string
	err    error
}

func (r *recordingInitializer) SubscribeInitialize(topic string) error {
	r.topics = append(r.topics, topic)
	return r.err
}

// TestInitializeTopics verifies every topic table exists before a
// transactional publisher, which never creates tables, writes to it.
func TestInitializeTopics(t *testing.T) {
	rec := &recordingInitializer{}
	bus := &EventBus{initializer: rec}
	if err := bus.InitializeTopics("notification.create", "auction.bid_placed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.topics) != 2 || rec.topics[0] != "notification.create" || rec.topics[1] != "auction.bid_placed" {
		t.Fatalf("unexpected topics: %v", rec.topics)
	}

	rec = &recordingInitializer{}
	bus = &EventBus{initializer: rec, useForwarder: true}
	if err := bus.InitializeTopics(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.topics) != 1 || rec.topics[0] != forwarderTopic {
		t.Fatalf("forwarder queue not initialized: %v", rec.topics)
	}

	bus = &EventBus{initializer: &recordingInitializer{err: errors.New("permission denied")}}
	if err := bus.InitializeTopics("notification.create"); err == nil {
		t.Fatal("expected initialization error")
	}
}
