package app

import (
	"github.com/facebookgo/clock"
	"github.com/gorilla/sessions"

	"github.com/ghuser/auctionhouse/pkg/cache"
	"github.com/ghuser/auctionhouse/pkg/config"
	"github.com/ghuser/auctionhouse/pkg/database"
	"github.com/ghuser/auctionhouse/pkg/events"
	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to all service AuctionRoutes calls during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "bid accepted", "item_id", id)
//	app.Logger.ErrorContext(ctx, "settlement failed", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
//
// Time: every business decision reads app.Clock, never time.Now, so tests can
// drive auction windows with clock.NewMock().
type Application struct {
	Config         *config.Config
	Clock          clock.Clock
	Db             *database.Database
	Logger         logger.Logger
	EventBus       *events.EventBus
	Redis          *cache.RedisClient
	TemporalClient *workflows.TemporalClient
	SessionStore   sessions.Store // Redis-backed session store; nil in worker process
}
