package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/facebookgo/clock"

	"github.com/ghuser/auctionhouse/pkg/app"
	"github.com/ghuser/auctionhouse/pkg/cache"
	"github.com/ghuser/auctionhouse/pkg/config"
	"github.com/ghuser/auctionhouse/pkg/database"
	"github.com/ghuser/auctionhouse/pkg/events"
	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/pkg/telemetry"
	"github.com/ghuser/auctionhouse/pkg/workflows"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
	auctionWorkflows "github.com/ghuser/auctionhouse/services/auction/application/workflows"
	auctionEvents "github.com/ghuser/auctionhouse/services/auction/domain/events"
	"github.com/ghuser/auctionhouse/services/auction/infrastructure/messaging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg, telemetry.HistogramView(appsvcs.BidPriceMetric, telemetry.PriceBuckets))
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DefinitionDatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close() //nolint:errcheck
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log, auctionEvents.TopicNotificationCreate, auctionEvents.TopicBidPlaced)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	var temporalClient *workflows.TemporalClient
	if cfg.SettlementDriver == config.SettlementDriverTemporal {
		temporalClient, err = workflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, cfg.ServiceName+"-worker", log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer temporalClient.Close()
	}

	appConfig := &app.Application{
		Config:         cfg,
		Clock:          clock.New(),
		Db:             pool,
		Logger:         log,
		EventBus:       eventBus,
		Redis:          redisClient,
		TemporalClient: temporalClient,
	}
	svcs := appsvcs.New(appConfig)

	if err := registerSubscribers(ctx, appConfig, svcs); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	done := make(chan error, 1)
	if temporalClient != nil {
		go func() { done <- runSettlementWorkflow(ctx, appConfig, svcs) }()
	} else {
		log.Info("settlement workflow disabled", "driver", cfg.SettlementDriver)
	}

	select {
	case <-ctx.Done():
	case err := <-done:
		if err != nil {
			log.Error("settlement worker stopped", "error", err)
		}
	}

	log.Info("shutting down worker...")
	stop()
	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application, svcs *appsvcs.Services) error {
	errCh, err := a.EventBus.Subscribe(ctx, auctionEvents.TopicBidPlaced, handleBidPlaced(a, svcs))
	if err != nil {
		return err
	}

	// Drain subscriber errors in background so the channel never blocks.
	go func() {
		for err := range errCh {
			a.Logger.ErrorContext(ctx, "subscriber error",
				"topic", auctionEvents.TopicBidPlaced,
				"error", err,
			)
		}
	}()

	a.Logger.Info("event subscribers registered", "topics", []string{auctionEvents.TopicBidPlaced})
	return nil
}

// handleBidPlaced returns a handler for auction.bid_placed events.
// Handlers must be idempotent; EventBus retries up to 3x on failure.
// Rewrites the item's cached view so readers see the new bid without a
// database round trip.
func handleBidPlaced(a *app.Application, svcs *appsvcs.Services) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := messaging.DecodeBidPlaced(msg)
		if err != nil {
			return events.Permanent(err)
		}

		if err := svcs.Item.Refresh(ctx, evt.ItemID); err != nil {
			a.Logger.WarnContext(ctx, "cache refresh failed for bid placed",
				"item_id", evt.ItemID, "error", err)
			return err
		}

		a.Logger.InfoContext(ctx, "item cache refreshed",
			"item_id", evt.ItemID, "bid_id", evt.BidID)
		return nil
	}
}

// runSettlementWorkflow hosts the settlement workflow and activities, makes
// sure one workflow run is open, and blocks until ctx is cancelled.
func runSettlementWorkflow(ctx context.Context, a *app.Application, svcs *appsvcs.Services) error {
	w := a.TemporalClient.NewWorker(a.Config.TemporalTaskQueue)
	auctionWorkflows.Register(w, auctionWorkflows.NewSettlementActivities(svcs.Settlement, a.Clock, a.Logger))

	startCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	run, err := auctionWorkflows.StartSettlement(startCtx, a.TemporalClient.Client, a.Config.TemporalTaskQueue, a.Config.SettlementInterval)
	cancel()
	if err != nil {
		return err
	}
	a.Logger.Info("settlement workflow running",
		"workflow_id", run.GetID(), "run_id", run.GetRunID(), "task_queue", a.Config.TemporalTaskQueue)

	return workflows.Run(ctx, w)
}
