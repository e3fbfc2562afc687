package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facebookgo/clock"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/auctionhouse/docs/swagger"
	"github.com/ghuser/auctionhouse/pkg/app"
	"github.com/ghuser/auctionhouse/pkg/auth"
	"github.com/ghuser/auctionhouse/pkg/cache"
	"github.com/ghuser/auctionhouse/pkg/config"
	"github.com/ghuser/auctionhouse/pkg/database"
	"github.com/ghuser/auctionhouse/pkg/events"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/pkg/telemetry"
	"github.com/ghuser/auctionhouse/pkg/workflows"
	auctionApi "github.com/ghuser/auctionhouse/services/auction/application/api"
	"github.com/ghuser/auctionhouse/services/auction/application/scheduler"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
)

//go:generate swag init -g main.go -d ./,../../services/auction/application/handlers -o ../../docs/swagger

// @title					Auctionhouse API
// @version				1.0
// @description			Online auctions: item listings, bidding, settlement and seller statistics.
// @contact.name			API Support
// @contact.email			support@auctionhouse.dev
// @license.name			MIT
// @license.url			https://opensource.org/licenses/MIT
// @host					localhost:8080
// @BasePath				/api
// @schemes				http https
//
// @securityDefinitions.apikey	SessionCookie
// @in							cookie
// @name						auctionhouse_session
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

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg, telemetry.HistogramView(appsvcs.BidPriceMetric, telemetry.PriceBuckets))
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry (optional; log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DefinitionDatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBusWithForwarder(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	if err := eventBus.StartForwarder(ctx); err != nil {
		log.Error("failed to start event forwarder", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	health := httpx.HealthChecks{Database: pool, Redis: redisClient, EventBus: eventBus}
	var temporalClient *workflows.TemporalClient
	if cfg.SettlementDriver == config.SettlementDriverTemporal {
		temporalClient, err = workflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, cfg.ServiceName+"-api", log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic // intentional: startup failure
		}
		defer temporalClient.Close()
		health.Temporal = temporalClient
	}

	sessionStore := auth.NewSessionStore(
		redisClient.Client(),
		[]byte(cfg.SessionAuthKey),
		[]byte(cfg.SessionEncryptionKey),
		cfg.SessionMaxAge,
		cfg.Environment == config.EnvProduction,
	)
	log.Info("session store initialized", "backend", "redis", "max_age", cfg.SessionMaxAge)

	appConfig := &app.Application{
		Config:         cfg,
		Clock:          clock.New(),
		Db:             pool,
		Logger:         log,
		EventBus:       eventBus,
		Redis:          redisClient,
		TemporalClient: temporalClient,
		SessionStore:   sessionStore,
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
			MaxBodyBytes:       cfg.MaxBodyBytes,
			RequestTimeout:     cfg.RequestTimeout,
		},
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	r.Get("/health", httpx.HealthHandler(health))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Route("/api", func(r chi.Router) {
		registerRoutes(r, appConfig)
	})

	// The API process runs the cron sweep itself; with the temporal driver
	// the worker hosts the settlement workflow instead.
	var sweeper *scheduler.SettlementScheduler
	if cfg.SettlementDriver == config.SettlementDriverCron {
		svcs := appsvcs.New(appConfig)
		sweeper = scheduler.NewSettlementScheduler(svcs.Settlement, appConfig.Clock, cfg.SettlementInterval, log)
		if err := sweeper.Start(ctx); err != nil {
			log.Error("failed to start settlement scheduler", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	}

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if sweeper != nil {
		sweeper.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// registerRoutes mounts all service routes under /api.
// Add each new service's route function here.
func registerRoutes(r chi.Router, a *app.Application) {
	auctionApi.AuctionRoutes(r, a)
}
